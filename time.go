package weave

import (
	"encoding/json"
	"time"

	"github.com/iov-one/stakeweave/errors"
)

// UnixTime is a block time in whole seconds since the epoch. Reward
// accounting never needs a finer resolution.
type UnixTime int64

// AsUnixTime drops the sub second part of t.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// AddSeconds moves t forward.
func (t UnixTime) AddSeconds(s uint64) UnixTime {
	return t + UnixTime(s)
}

// SecondsUntil returns the seconds left until end, or zero once end is
// reached.
func (t UnixTime) SecondsUntil(end UnixTime) uint64 {
	if end > t {
		return uint64(end - t)
	}
	return 0
}

// UnmarshalJSON accepts both a number of seconds and an RFC 3339 string.
// Genesis files use the latter.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err != nil {
		var parsed time.Time
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time format")
		}
		secs = parsed.Unix()
	}
	if secs < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(secs)
	return nil
}

// Validate rejects times before the epoch.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrapf(errors.ErrState, "time %d before epoch", int64(t))
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().Format(time.RFC3339)
}
