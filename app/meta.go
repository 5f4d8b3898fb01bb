package app

import (
	"time"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
)

// Keys with the _wv: prefix hold application metadata. No bucket can use
// them as bucket names are alphanumeric.
var (
	chainIDKey   = []byte("_wv:chainID")
	blockTimeKey = []byte("_wv:blockTime")
)

func loadChainID(db weave.ReadOnlyKVStore) string {
	return string(db.Get(chainIDKey))
}

// saveChainID writes the chain id once. It cannot be changed afterwards.
func saveChainID(db weave.KVStore, chainID string) error {
	switch {
	case !weave.IsValidChainID(chainID):
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	case db.Has(chainIDKey):
		return errors.Wrap(errors.ErrDuplicate, "chain id already set")
	}
	db.Set(chainIDKey, []byte(chainID))
	return nil
}

// saveBlockTime persists the time of the block being built, so that
// queries against committed state can compute time dependent values.
func saveBlockTime(db weave.KVStore, t time.Time) {
	if t.IsZero() {
		return
	}
	raw, err := t.UTC().MarshalBinary()
	if err != nil {
		panic(errors.Wrap(err, "block time"))
	}
	db.Set(blockTimeKey, raw)
}

func loadBlockTime(db weave.ReadOnlyKVStore) (time.Time, bool) {
	raw := db.Get(blockTimeKey)
	if raw == nil {
		return time.Time{}, false
	}
	var t time.Time
	if err := t.UnmarshalBinary(raw); err != nil {
		return time.Time{}, false
	}
	return t, true
}
