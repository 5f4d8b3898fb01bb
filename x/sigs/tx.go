package sigs

import (
	"github.com/iov-one/stakeweave/crypto"
	"github.com/iov-one/stakeweave/errors"
)

// SignedTx is a transaction that Decorator can authenticate.
type SignedTx interface {
	// GetSignBytes returns the deterministic payload covered by the
	// signatures. It must not include the signatures themselves.
	GetSignBytes() ([]byte, error)
	GetSignatures() []*StdSignature
}

// StdSignature binds a public key and its sequence to a signature.
type StdSignature struct {
	Sequence  int64             `json:"sequence"`
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature *crypto.Signature `json:"signature"`
}

func (s *StdSignature) Validate() error {
	switch {
	case s == nil:
		return errors.Wrap(errors.ErrUnauthorized, "nil signature")
	case s.Sequence < 0:
		return errors.Wrap(ErrInvalidSequence, "negative")
	case s.Pubkey == nil:
		return errors.Wrap(errors.ErrUnauthorized, "no public key")
	case s.Signature == nil:
		return errors.Wrap(errors.ErrUnauthorized, "no signature bytes")
	}
	return nil
}
