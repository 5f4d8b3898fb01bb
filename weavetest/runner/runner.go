/*
Package runner drives an abci application block by block in tests.

Transactions are serialized and passed through CheckTx and DeliverTx exactly
as a node would. The block clock starts at genesis and moves only when
Advance is called, which lets tests place reward windows precisely.
*/
package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/app"
	"github.com/iov-one/stakeweave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is satisfied by *testing.T and *testing.B.
type Tester interface {
	Helper()
	Fatalf(string, ...interface{})
}

// WeaveApp is what a block function can do with the application.
type WeaveApp interface {
	CheckTx(weave.Tx) error
	DeliverTx(weave.Tx) error
	weave.ReadOnlyKVStore
}

// WeaveRunner feeds weave transactions to an abci application. It also
// reads the committed state through the embedded store.
type WeaveRunner struct {
	*app.ABCIStore

	t       Tester
	abci    abci.Application
	chainID string
	height  int64
	now     time.Time
}

var _ WeaveApp = (*WeaveRunner)(nil)

func NewWeaveRunner(t Tester, a abci.Application, chainID string, genesis time.Time) *WeaveRunner {
	return &WeaveRunner{
		ABCIStore: app.NewABCIStore(a),
		t:         t,
		abci:      a,
		chainID:   chainID,
		now:       genesis.UTC(),
	}
}

// Now is the time of the next block.
func (r *WeaveRunner) Now() time.Time {
	return r.now
}

func (r *WeaveRunner) Advance(d time.Duration) {
	r.now = r.now.Add(d)
}

// InitChain loads genesis, serialized to JSON, in its own block.
func (r *WeaveRunner) InitChain(genesis interface{}) {
	r.t.Helper()
	raw, err := json.Marshal(genesis)
	if err != nil {
		r.t.Fatalf("genesis: %s", err)
	}
	changed := r.InBlock(func(WeaveApp) error {
		r.abci.InitChain(abci.RequestInitChain{
			ChainId:       r.chainID,
			Time:          r.now,
			AppStateBytes: raw,
		})
		return nil
	})
	if !changed {
		r.t.Fatalf("genesis left the state untouched")
	}
}

func (r *WeaveRunner) CheckTx(tx weave.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal tx")
	}
	res := r.abci.CheckTx(raw)
	return txError(res.Code, res.Log)
}

func (r *WeaveRunner) DeliverTx(tx weave.Tx) error {
	_, err := r.Deliver(tx)
	return err
}

// Deliver is DeliverTx returning the response, so that tags can be checked.
func (r *WeaveRunner) Deliver(tx weave.Tx) (abci.ResponseDeliverTx, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return abci.ResponseDeliverTx{}, errors.Wrap(err, "marshal tx")
	}
	res := r.abci.DeliverTx(raw)
	return res, txError(res.Code, res.Log)
}

// InBlock runs fn between BeginBlock and Commit of a new block. It reports
// whether the app hash changed. An error from fn fails the test.
func (r *WeaveRunner) InBlock(fn func(WeaveApp) error) bool {
	r.t.Helper()

	before := r.abci.Info(abci.RequestInfo{}).LastBlockAppHash
	r.height++
	r.abci.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: r.chainID, Height: r.height, Time: r.now},
	})
	if err := fn(r); err != nil {
		r.t.Fatalf("block %d: %+v", r.height, err)
	}
	r.abci.EndBlock(abci.RequestEndBlock{Height: r.height})
	after := r.abci.Commit().Data
	return !bytes.Equal(before, after)
}

// TxError is a failed abci response. Compare ABCICode with the code of the
// expected root error.
type TxError struct {
	Code uint32
	Log  string
}

func (e *TxError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Log)
}

func (e *TxError) ABCICode() uint32 {
	return e.Code
}

func txError(code uint32, log string) error {
	if code == errors.SuccessABCICode {
		return nil
	}
	return &TxError{Code: code, Log: log}
}
