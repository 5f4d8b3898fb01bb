package weave

import (
	"fmt"

	"github.com/iov-one/stakeweave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successfully delivered transaction.
// Failures are always reported as errors.
type DeliverResult struct {
	// Data is returned to the client, for example an encoded query result.
	Data []byte
	Log  string
	// Tags are indexed by tendermint. Pool events are published as tags.
	Tags    []common.KVPair
	GasUsed int64
}

// AddTag appends an indexed key value pair.
func (d *DeliverResult) AddTag(key, value string) {
	d.Tags = append(d.Tags, common.KVPair{Key: []byte(key), Value: []byte(value)})
}

// Tag returns the value of the first tag with given key.
func (d DeliverResult) Tag(key string) (string, bool) {
	for _, t := range d.Tags {
		if string(t.Key) == key {
			return string(t.Value), true
		}
	}
	return "", false
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckResult is the outcome of a transaction that passed the mempool check.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the most work the transaction may use.
	GasAllocated int64
	// GasPayment is what the transaction pays, for example for signature
	// verification.
	GasPayment int64
}

func NewCheck(gasAllocated int64, log string) CheckResult {
	return CheckResult{GasAllocated: gasAllocated, Log: log}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverOrError builds the DeliverTx response from a handler result.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError builds the CheckTx response from a handler result.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError reports err with its registered code. Internal errors are
// redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errInfo("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError is DeliverTxError for the mempool check.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errInfo("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func errInfo(phase string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, fmt.Sprintf("cannot %s tx: %s", phase, log)
}
