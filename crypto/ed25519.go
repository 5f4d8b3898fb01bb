package crypto

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	"golang.org/x/crypto/ed25519"
)

const publicKeySize = ed25519.PublicKeySize

// Verify reports whether sig is a valid signature of message by this key.
// Malformed keys and signatures never verify.
func (k *PublicKey) Verify(message []byte, sig *Signature) bool {
	switch {
	case k == nil, sig == nil:
		return false
	case len(k.Ed25519) != ed25519.PublicKeySize:
		return false
	case len(sig.Ed25519) != ed25519.SignatureSize:
		return false
	}
	return ed25519.Verify(k.Ed25519, message, sig.Ed25519)
}

func (k *PublicKey) Condition() weave.Condition {
	if k == nil || len(k.Ed25519) == 0 {
		return nil
	}
	return weave.NewCondition(ExtensionName, "ed25519", k.Ed25519)
}

func (k *PrivateKey) Sign(message []byte) (*Signature, error) {
	if k == nil || len(k.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "malformed private key")
	}
	return &Signature{Ed25519: ed25519.Sign(k.Ed25519, message)}, nil
}

func (k *PrivateKey) PublicKey() *PublicKey {
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, k.Ed25519[ed25519.PrivateKeySize-ed25519.PublicKeySize:])
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 creates a key from the system random source.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed derives a key from a 32 byte seed. It panics on
// any other seed length. Tests use it for stable keys.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
