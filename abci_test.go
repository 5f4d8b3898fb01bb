package weave_test

import (
	"fmt"
	"strings"
	"testing"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	"github.com/stretchr/testify/assert"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err  error
		msg  string
		code uint32
	}{
		"stdlib error is internal": {
			err:  fmt.Errorf("base"),
			msg:  "internal error",
			code: 1,
		},
		"registered error": {
			err:  errors.Wrap(errors.ErrUnauthorized, "nonce"),
			msg:  "nonce: unauthorized",
			code: errors.ErrUnauthorized.ABCICode(),
		},
		"panic is redacted": {
			err:  errors.Wrap(errors.ErrPanic, "boom"),
			msg:  "boom: panic",
			code: errors.ErrPanic.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := weave.DeliverTxError(tc.err, false)
			assert.True(t, dres.IsErr())
			assert.True(t, strings.HasSuffix(dres.Log, tc.msg), dres.Log)
			assert.Equal(t, tc.code, dres.Code)

			cres := weave.CheckTxError(tc.err, false)
			assert.True(t, cres.IsErr())
			assert.True(t, strings.HasSuffix(cres.Log, tc.msg), cres.Log)
			assert.Equal(t, tc.code, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	dres := weave.DeliverResult{Data: d, Log: msg}
	dres.AddTag("action", "pool/stake")
	ad := dres.ToABCI()
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Len(t, ad.Tags, 1)

	v, ok := dres.Tag("action")
	assert.True(t, ok)
	assert.Equal(t, "pool/stake", v)
	_, ok = dres.Tag("missing")
	assert.False(t, ok)

	c, gas := "aok", int64(12345)
	cres := weave.NewCheck(gas, c)
	ac := cres.ToABCI()
	assert.Equal(t, c, ac.Log)
	assert.Equal(t, gas, ac.GasWanted)
	assert.Empty(t, ac.Data)
}
