package sigs

import (
	"testing"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/crypto"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/store"
	"github.com/iov-one/stakeweave/weavetest"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stdTx is a transaction that is signed over its payload.
type stdTx struct {
	weavetest.Tx
	payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{
		Tx:      weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/signed", Serialized: payload}},
		payload: payload,
	}
}

func (tx *stdTx) GetSignatures() []*StdSignature { return tx.Signatures }
func (tx *stdTx) GetSignBytes() ([]byte, error)  { return tx.payload, nil }

func TestBuildSignBytes(t *testing.T) {
	const chainID = "pool-test-net"
	payload := []byte("stake 100 STK")

	base, err := BuildSignBytes(payload, chainID, 3)
	require.NoError(t, err)
	assert.Len(t, base, 64)

	fromTx, err := BuildSignBytesTx(newStdTx(payload), chainID, 3)
	require.NoError(t, err)
	assert.Equal(t, base, fromTx)

	cases := map[string]struct {
		payload []byte
		chainID string
		seq     int64
		wantErr *errors.Error
	}{
		"other payload":  {payload: []byte("stake 101 STK"), chainID: chainID, seq: 3},
		"other chain":    {payload: payload, chainID: "pool-main-net", seq: 3},
		"other sequence": {payload: payload, chainID: chainID, seq: 4},
		"negative sequence": {
			payload: payload, chainID: chainID, seq: -1,
			wantErr: ErrInvalidSequence,
		},
		"invalid chain": {
			payload: payload, chainID: "net", seq: 3,
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := BuildSignBytes(tc.payload, tc.chainID, tc.seq)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}
}

func TestVerifySignature(t *testing.T) {
	const chainID = "pool-test-net"

	Convey("Given a staker signing a claim", t, func() {
		db := store.MemStore()
		key := crypto.GenPrivKeyEd25519()
		cond := key.PublicKey().Condition()
		payload := []byte("claim")
		tx := newStdTx(payload)

		sign := func(seq int64) *StdSignature {
			sig, err := SignTx(key, tx, chainID, seq)
			So(err, ShouldBeNil)
			return sig
		}

		Convey("Signing is deterministic", func() {
			So(sign(5), ShouldResemble, sign(5))
		})

		Convey("The first accepted sequence is zero", func() {
			_, err := VerifySignature(db, sign(1), payload, chainID)
			So(ErrInvalidSequence.Is(err), ShouldBeTrue)

			got, err := VerifySignature(db, sign(0), payload, chainID)
			So(err, ShouldBeNil)
			So(got.Equals(cond), ShouldBeTrue)

			Convey("A replay or a gap is rejected", func() {
				_, err := VerifySignature(db, sign(0), payload, chainID)
				So(ErrInvalidSequence.Is(err), ShouldBeTrue)
				_, err = VerifySignature(db, sign(7), payload, chainID)
				So(ErrInvalidSequence.Is(err), ShouldBeTrue)

				nonce, err := NextNonce(db, cond.Address())
				So(err, ShouldBeNil)
				So(nonce, ShouldEqual, int64(1))
			})
		})

		Convey("A signature does not cover another chain or payload", func() {
			sig := sign(0)
			_, err := VerifySignature(db, sig, payload, "pool-main-net")
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			_, err = VerifySignature(db, sig, []byte("unstake"), chainID)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)

			nonce, err := NextNonce(db, cond.Address())
			So(err, ShouldBeNil)
			So(nonce, ShouldEqual, int64(0))
		})

		Convey("An incomplete signature is rejected", func() {
			_, err := VerifySignature(db, &StdSignature{}, payload, chainID)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			_, err = VerifySignature(db, nil, payload, chainID)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
		})
	})
}

func TestVerifyTxSignatures(t *testing.T) {
	const chainID = "pool-test-net"
	db := store.MemStore()
	owner := crypto.GenPrivKeyEd25519()
	staker := crypto.GenPrivKeyEd25519()
	tx := newStdTx([]byte("set duration"))

	// An unsigned transaction is left for the decorator to judge.
	conds, err := VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, conds)

	for _, k := range []*crypto.PrivateKey{staker, owner} {
		sig, err := SignTx(k, tx, chainID, 0)
		require.NoError(t, err)
		tx.Signatures = append(tx.Signatures, sig)
	}
	conds, err = VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []weave.Condition{staker.PublicKey().Condition(), owner.PublicKey().Condition()}, conds)

	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	nonce, err := NextNonce(db, owner.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(1), nonce)
	nonce, err = NextNonce(db, weavetest.NewCondition().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(0), nonce)
}
