package errors

import (
	"fmt"
	"reflect"
)

const (
	// SuccessABCICode is the code of a response without an error.
	SuccessABCICode = 0

	// Errors that do not carry a registered kind share code 1. Outside of
	// debug mode their message is replaced by internalABCILog.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response describing err.
// Internal errors are reported with code 1 and, unless debug is set, without
// their original message. In debug mode the log carries the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// IsInternal returns true if err carries no registered kind.
func IsInternal(err error) bool {
	return !errIsNil(err) && abciCode(err) == internalABCICode
}

type coder interface {
	ABCICode() uint32
}

// abciCode unwraps err until a registered code is found.
func abciCode(err error) uint32 {
	for !errIsNil(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	if errIsNil(err) {
		return SuccessABCICode
	}
	return internalABCICode
}

// errIsNil also catches typed nil pointers stored in an error interface.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
