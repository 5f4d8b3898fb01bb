package cash

import "github.com/iov-one/stakeweave/errors"

var (
	// ErrInsufficientAllowance is returned when a spender tries to move
	// more coins than the owner approved.
	ErrInsufficientAllowance = errors.Register(200, "insufficient allowance")

	// ErrUnknownToken is returned for any operation on a coin whose
	// ticker was never registered.
	ErrUnknownToken = errors.Register(201, "unknown token")
)
