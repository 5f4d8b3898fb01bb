package errors

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given
// error or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// wrapperFuncs are the functions of this package that create a stack trace.
// They are never the interesting part of the trace.
var wrapperFuncs = []string{
	"/errors.Wrap",
	"/errors.Wrapf",
	"/errors.(*Error).New",
	"/errors.(*Error).Newf",
	"/errors.Field",
	"runtime.",
}

func isWrapperFrame(f errors.Frame) bool {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return false
	}
	name := fn.Name()
	for _, w := range wrapperFuncs {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}

// creationFrame returns the first frame of the stack trace that is not
// created by this package.
func creationFrame(st errors.StackTrace) (errors.Frame, bool) {
	for _, f := range st {
		if !isWrapperFrame(f) {
			return f, true
		}
	}
	return 0, false
}

// writeCompactStack writes a short [file:line] reference to the place where
// the error was created.
func writeCompactStack(s fmt.State, err error) {
	st := stackTrace(err)
	if st == nil {
		return
	}
	if f, ok := creationFrame(st); ok {
		fmt.Fprintf(s, " [%s:%d]", f, f)
	}
}

// writeFullStack writes all frames except those that belong to the error
// wrapping functions.
func writeFullStack(s fmt.State, err error) {
	st := stackTrace(err)
	for _, f := range st {
		if isWrapperFrame(f) {
			continue
		}
		fmt.Fprintf(s, "\n%+v", f)
	}
}
