package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackTrace(t *testing.T) {
	cases := map[string]struct {
		err     error
		wantMsg string
	}{
		"wrapped root error": {
			err:     Wrap(ErrInsufficientAmount, "unstake"),
			wantMsg: "unstake: insufficient amount",
		},
		"wrapped foreign error": {
			err:     Wrap(fmt.Errorf("disk full"), "commit"),
			wantMsg: "commit: disk full",
		},
		"root error constructor": {
			err:     ErrOverflow.Newf("reward rate for %s", "IOV"),
			wantMsg: "reward rate for IOV: an operation cannot be completed due to value overflow",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantMsg, tc.err.Error())
			assert.NotNil(t, stackTrace(tc.err))

			full := fmt.Sprintf("%+v", tc.err)
			assert.True(t, strings.HasPrefix(full, tc.wantMsg), full)
			assert.Contains(t, full, "stacktrace_test.go")
			assert.NotContains(t, full, "errors.Wrap\n")
		})
	}
}

func TestCompactStack(t *testing.T) {
	err := Wrap(ErrState, "paused")
	short := fmt.Sprintf("%v", err)
	assert.True(t, strings.HasPrefix(short, "paused: invalid state ["), short)
	assert.Contains(t, short, "[stacktrace_test.go:")
	assert.NotContains(t, short, "\n")
}
