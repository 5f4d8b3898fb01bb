package errors

import (
	"io"
	"strings"
	"testing"
)

func TestABCInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"no error": {
			wantCode: SuccessABCICode,
		},
		"typed nil kind": {
			err:      (*Error)(nil),
			wantCode: SuccessABCICode,
		},
		"registered kind": {
			err:      ErrOverflow,
			wantCode: ErrOverflow.code,
			wantLog:  ErrOverflow.desc,
		},
		"kind wrapped twice": {
			err:      Wrap(Wrapf(ErrState, "pool %s", "paused"), "stake"),
			wantCode: ErrState.code,
			wantLog:  "stake: pool paused: invalid state",
		},
		"stdlib error is hidden": {
			err:      Wrap(io.ErrUnexpectedEOF, "read genesis"),
			wantCode: internalABCICode,
			wantLog:  internalABCILog,
		},
		"stdlib error is shown in debug mode": {
			err:      Wrap(io.ErrUnexpectedEOF, "read genesis"),
			debug:    true,
			wantCode: internalABCICode,
			wantLog:  "read genesis: unexpected EOF",
		},
		"foreign coder": {
			err:      customErr{},
			wantCode: 999,
			wantLog:  "custom",
		},
		"foreign coder in debug mode": {
			err:      customErr{},
			debug:    true,
			wantCode: 999,
			wantLog:  "custom",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if tc.wantLog == "" && log != "" {
				t.Errorf("want no log, got %q", log)
			}
			if !strings.HasPrefix(log, tc.wantLog) {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestIsInternal(t *testing.T) {
	if IsInternal(nil) {
		t.Error("nil is not internal")
	}
	if IsInternal(ErrAmount.New("negative")) {
		t.Error("registered kind is not internal")
	}
	if !IsInternal(io.EOF) {
		t.Error("stdlib error is internal")
	}
	if !IsInternal(Wrap(io.EOF, "wrapped")) {
		t.Error("wrapped stdlib error is internal")
	}
}

type customErr struct{}

func (customErr) ABCICode() uint32 { return 999 }

func (customErr) Error() string { return "custom" }
