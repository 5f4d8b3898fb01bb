/*
Package crypto holds the ed25519 keys used to sign pool transactions.

A public key authenticates the condition sigs/ed25519/<key>. Keys and
signatures are serialized with amino.
*/
package crypto

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	amino "github.com/tendermint/go-amino"
)

// ExtensionName is the extension part of every signature condition.
const ExtensionName = "sigs"

var codec = amino.NewCodec()

// PubKey checks signatures and names the condition it stands for.
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() weave.Condition
}

// Signer signs messages. It exposes no key material, so a hardware device
// can implement it.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

type PublicKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// PrivateKey holds the 64 byte ed25519 key: seed followed by public part.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519"`
}

type Signature struct {
	Ed25519 []byte `json:"ed25519"`
}

var (
	_ PubKey = (*PublicKey)(nil)
	_ Signer = (*PrivateKey)(nil)
)

func (k *PublicKey) Marshal() ([]byte, error) {
	return codec.MarshalBinaryBare(k)
}

func (k *PublicKey) Unmarshal(raw []byte) error {
	return codec.UnmarshalBinaryBare(raw, k)
}

func (k *PrivateKey) Marshal() ([]byte, error) {
	return codec.MarshalBinaryBare(k)
}

func (k *PrivateKey) Unmarshal(raw []byte) error {
	return codec.UnmarshalBinaryBare(raw, k)
}

func (s *Signature) Marshal() ([]byte, error) {
	return codec.MarshalBinaryBare(s)
}

func (s *Signature) Unmarshal(raw []byte) error {
	return codec.UnmarshalBinaryBare(raw, s)
}

func (k *PublicKey) Validate() error {
	switch {
	case k == nil || len(k.Ed25519) == 0:
		return errors.Wrap(errors.ErrEmpty, "public key")
	case len(k.Ed25519) != publicKeySize:
		return errors.Wrapf(errors.ErrInput, "public key of %d bytes", len(k.Ed25519))
	}
	return nil
}

// Address is the address of the key condition, or nil for an empty key.
func (k *PublicKey) Address() weave.Address {
	if cond := k.Condition(); cond != nil {
		return cond.Address()
	}
	return nil
}

func (k *PublicKey) Equals(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return string(k.Ed25519) == string(other.Ed25519)
}
