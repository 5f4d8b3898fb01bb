package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If more than one non nil error is given, returned error instance exposes
// them all via the Unpack method. ABCI code and cause of such error is the
// one of the first error.
func Append(errs ...error) error {
	var res multiErr
	for _, err := range errs {
		if errIsNil(err) {
			continue
		}
		if m, ok := err.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, err)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	}
	return res
}

type multiErr []error

func (m multiErr) Error() string {
	if len(m) == 1 {
		return m[0].Error()
	}
	msgs := make([]string, len(m))
	for i, err := range m {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(m), strings.Join(msgs, "; "))
}

// Unpack implements the unpacker interface.
func (m multiErr) Unpack() []error {
	return m
}

// Cause returns the first error. This is consistent with the ABCI code
// reported.
func (m multiErr) Cause() error {
	return m[0]
}

func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}

// unpacker is implemented by errors that are a collection of errors.
type unpacker interface {
	Unpack() []error
}
