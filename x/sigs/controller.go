package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/crypto"
	"github.com/iov-one/stakeweave/errors"
)

// SignCodeV1 prefixes every signed payload.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks every signature of tx and returns the signer
// conditions in signature order. A transaction without signatures gives an
// empty list.
func VerifyTxSignatures(db weave.KVStore, tx SignedTx, chainID string) ([]weave.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	all := tx.GetSignatures()
	conds := make([]weave.Condition, len(all))
	for i, sig := range all {
		c, err := VerifySignature(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		conds[i] = c
	}
	return conds, nil
}

// VerifySignature verifies a single signature and bumps the signer sequence
// in db.
func VerifySignature(db weave.KVStore, sig *StdSignature, payload []byte, chainID string) (weave.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	b := NewBucket()
	user, err := loadOrCreate(db, b, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := b.Put(db, sig.Pubkey.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save sequence")
	}
	return sig.Pubkey.Condition(), nil
}

// BuildSignBytes returns the sha512 digest that is signed:
//
//	SignCodeV1 | uint8 len(chainID) | chainID | big endian int64 seq | payload
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	switch {
	case seq < 0:
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	case !weave.IsValidChainID(chainID):
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}

	var seqRaw [8]byte
	binary.BigEndian.PutUint64(seqRaw[:], uint64(seq))

	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{byte(len(chainID))})
	h.Write([]byte(chainID))
	h.Write(seqRaw[:])
	h.Write(payload)
	return h.Sum(nil), nil
}

func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return BuildSignBytes(payload, chainID, seq)
}

// SignTx signs tx with the given sequence. Use NextNonce to find the
// sequence the chain expects.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	raw, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{Sequence: seq, Pubkey: signer.PublicKey(), Signature: raw}, nil
}
