package app

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/x/sigs"
)

// Tx is the only transaction type poold accepts: one message and the
// signatures authorizing it.
type Tx struct {
	Sum        weave.Msg            `json:"sum"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

var (
	_ weave.Tx      = (*Tx)(nil)
	_ sigs.SignedTx = (*Tx)(nil)
)

// TxDecoder is the weave.TxDecoder of poold.
func TxDecoder(raw []byte) (weave.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

func (tx *Tx) GetMsg() (weave.Msg, error) {
	if tx.Sum == nil {
		return nil, errors.Wrap(errors.ErrInput, "transaction without message")
	}
	return tx.Sum, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes serializes the transaction without its signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Sum: tx.Sum}
	return unsigned.Marshal()
}
