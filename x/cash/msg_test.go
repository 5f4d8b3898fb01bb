package cash

import (
	"strings"
	"testing"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/weavetest"
	"github.com/iov-one/stakeweave/weavetest/assert"
)

func TestSendMsgValidate(t *testing.T) {
	src := weavetest.NewCondition().Address()
	dst := weavetest.NewCondition().Address()

	cases := map[string]struct {
		msg   *SendMsg
		field string
		want  *errors.Error
	}{
		"valid": {
			msg: &SendMsg{Metadata: &weave.Metadata{Schema: 1}, Source: src, Destination: dst, Amount: coin.NewCoinp(10, "STK")},
		},
		"missing metadata": {
			msg:   &SendMsg{Source: src, Destination: dst, Amount: coin.NewCoinp(10, "STK")},
			field: "Metadata",
			want:  errors.ErrEmpty,
		},
		"zero amount": {
			msg:   &SendMsg{Metadata: &weave.Metadata{Schema: 1}, Source: src, Destination: dst, Amount: coin.NewCoinp(0, "STK")},
			field: "Amount",
			want:  errors.ErrAmount,
		},
		"missing amount": {
			msg:   &SendMsg{Metadata: &weave.Metadata{Schema: 1}, Source: src, Destination: dst},
			field: "Amount",
			want:  errors.ErrAmount,
		},
		"memo too long": {
			msg: &SendMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Source:      src,
				Destination: dst,
				Amount:      coin.NewCoinp(1, "STK"),
				Memo:        strings.Repeat("x", maxMemoSize+1),
			},
			field: "Memo",
			want:  errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.want == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.field, tc.want)
		})
	}
}

func TestApproveMsgValidate(t *testing.T) {
	owner := weavetest.NewCondition().Address()
	spender := weavetest.NewCondition().Address()

	revoke := &ApproveMsg{Metadata: &weave.Metadata{Schema: 1}, Owner: owner, Spender: spender, Amount: coin.NewCoinp(0, "STK")}
	assert.Nil(t, revoke.Validate())

	self := &ApproveMsg{Metadata: &weave.Metadata{Schema: 1}, Owner: owner, Spender: owner, Amount: coin.NewCoinp(1, "STK")}
	assert.FieldError(t, self.Validate(), "Spender", errors.ErrInput)

	noAmount := &ApproveMsg{Metadata: &weave.Metadata{Schema: 1}, Owner: owner, Spender: spender}
	assert.FieldError(t, noAmount.Validate(), "Amount", errors.ErrEmpty)
}

func TestSendMsgSerialization(t *testing.T) {
	msg := &SendMsg{
		Metadata:    &weave.Metadata{Schema: 1},
		Source:      weavetest.NewCondition().Address(),
		Destination: weavetest.NewCondition().Address(),
		Amount:      coin.NewCoinp(123, "STK"),
		Memo:        "lunch",
	}
	raw, err := msg.Marshal()
	assert.Nil(t, err)

	var got SendMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Nil(t, got.Validate())
	if !got.Amount.Equals(*msg.Amount) {
		t.Fatalf("want %s, got %s", msg.Amount, got.Amount)
	}
	assert.Equal(t, msg.Memo, got.Memo)
	if !got.Source.Equals(msg.Source) {
		t.Fatal("source address changed")
	}
}
