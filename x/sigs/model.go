package sigs

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/crypto"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/orm"
)

// Clients keep the sequence in a javascript number, so it must stay below
// 2^53.
const maxSequenceValue = (1 << 53) - 1

// UserData is stored per public key address. Sequence is the nonce the next
// signature of that key must carry.
type UserData struct {
	Metadata *weave.Metadata   `json:"metadata"`
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, u)
}

func (u *UserData) Validate() error {
	errs := errors.AppendField(nil, "Metadata", u.Metadata.Validate())
	errs = errors.AppendField(errs, "Pubkey", u.Pubkey.Validate())
	if !validSequence(u.Sequence) {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	return errs
}

func (u *UserData) Copy() orm.CloneableData {
	cp := *u
	cp.Metadata = u.Metadata.Copy()
	return &cp
}

// CheckAndIncrementSequence moves the sequence forward by one, but only if
// it currently equals expected.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if expected != u.Sequence {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	if !validSequence(u.Sequence + 1) {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

func validSequence(n int64) bool {
	return n >= 0 && n <= maxSequenceValue
}

// NewBucket stores UserData under the address of its public key.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("sigs", &UserData{})
}

// loadOrCreate returns the stored state of pubkey. A key that never signed
// starts at sequence zero.
func loadOrCreate(db weave.ReadOnlyKVStore, b orm.ModelBucket, pubkey *crypto.PublicKey) (*UserData, error) {
	user := new(UserData)
	err := b.One(db, pubkey.Address(), user)
	if errors.ErrNotFound.Is(err) {
		return &UserData{Metadata: &weave.Metadata{Schema: 1}, Pubkey: pubkey}, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// NextNonce returns the sequence the next transaction signed by signer must
// use. Unknown signers start at zero.
func NextNonce(db weave.ReadOnlyKVStore, signer weave.Address) (int64, error) {
	var user UserData
	err := NewBucket().One(db, signer, &user)
	switch {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, errors.Wrap(err, "load signer")
	}
	return user.Sequence, nil
}
