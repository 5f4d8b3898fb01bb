package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Root errors. Each carries a stable ABCI code that is returned to clients.
var (
	ErrUnauthorized = Register(2, "unauthorized")
	ErrNotFound     = Register(3, "not found")
	// ErrMsg marks a message that fails validation.
	ErrMsg = Register(4, "invalid message")
	// ErrModel marks a stored value that fails validation.
	ErrModel     = Register(5, "invalid model")
	ErrDuplicate = Register(6, "duplicate")
	// ErrHuman means the application was wired incorrectly. A well formed
	// deployment never returns it.
	ErrHuman = Register(7, "coding error")
	ErrEmpty = Register(9, "value is empty")
	// ErrState is returned when an operation is not allowed in the current
	// state, for example staking into a paused pool.
	ErrState = Register(10, "invalid state")
	ErrType  = Register(11, "invalid type")
	// ErrInsufficientAmount is returned when a balance or a stake does not
	// cover the requested amount.
	ErrInsufficientAmount = Register(12, "insufficient amount")
	ErrAmount             = Register(13, "invalid amount")
	ErrInput              = Register(14, "invalid input")
	// ErrOverflow is returned when a result does not fit its type. Reward
	// accounting never wraps around.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")
	ErrCurrency = Register(17, "currency")
	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(18, "database")

	// ErrPanic is produced by Recover. Its details never leave the node.
	ErrPanic = Register(111222, "panic")
)

// usedCodes keeps every registered root error. Code 1 is reserved for
// errors that do not come from this package.
var usedCodes = map[uint32]*Error{1: nil}

// Register declares a new root error. Extensions call it at package
// initialization and it panics if the code is taken.
func Register(code uint32, description string) *Error {
	if prev, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// Error is a root error. Runtime errors wrap one of them so that Is and the
// ABCI code keep working through any number of Wrap calls.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	if e.desc == "" {
		return "(nil)"
	}
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New is Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is reports whether err is kind or wraps it. Collections built with Append
// match when any member matches. A nil kind matches only nil errors,
// including typed nil pointers.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return errIsNil(err)
	}
	for err != nil {
		if err == kind {
			return true
		}
		switch e := err.(type) {
		case unpacker:
			for _, member := range e.Unpack() {
				if kind.Is(member) {
					return true
				}
			}
			return false
		case causer:
			err = e.Cause()
		default:
			return false
		}
	}
	return false
}

// Wrap adds description to err. The innermost Wrap attaches a stack trace.
// Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the creation point after the message for %v and the whole
// stack for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		fmt.Fprint(s, e.Error())
		if s.Flag('+') {
			writeFullStack(s, e)
		} else {
			writeCompactStack(s, e)
		}
	case 's':
		fmt.Fprint(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// Recover must be deferred. It turns a panic into an ErrPanic stored in err.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}
