package pool

import "github.com/iov-one/stakeweave/errors"

var (
	// ErrPaused is returned when a stake holder operation is requested
	// while the pool is paused.
	ErrPaused = errors.Register(300, "pool paused")

	// ErrInsufficientStake is returned when more than staked is requested.
	ErrInsufficientStake = errors.Register(301, "insufficient stake")

	// ErrInvariant is returned when the pool accounting is found
	// inconsistent after an operation. This must never happen and
	// indicates a bug or a corrupted state.
	ErrInvariant = errors.Register(302, "pool invariant violated")
)
