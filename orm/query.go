package orm

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
)

// RegisterQuery exposes the raw key value store under "/". This is used by
// clients that know the full database key, such as the abci store helper.
func RegisterQuery(qr weave.QueryRouter) {
	qr.Register("/", weave.QueryHandlerFunc(rawQuery))
}

func rawQuery(ctx weave.Context, db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		if len(data) == 0 {
			return nil, errors.Wrap(errors.ErrEmpty, "key")
		}
		value := db.Get(data)
		if value == nil {
			return nil, nil
		}
		return []weave.Model{weave.Pair(data, value)}, nil
	case weave.PrefixQueryMod:
		return queryPrefix(db, data), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr weave.Iterator) []weave.Model {
	defer itr.Close()

	res := []weave.Model{}
	for ; itr.Valid(); itr.Next() {
		mod := weave.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		}
		res = append(res, mod)
	}
	return res
}

// queryPrefix returns all models stored under keys starting with given
// prefix.
func queryPrefix(db weave.ReadOnlyKVStore, prefix []byte) []weave.Model {
	return ConsumeIterator(db.Iterator(prefix, prefixRangeEnd(prefix)))
}

// prefixRangeEnd returns the first key that does not start with given
// prefix. It returns nil when no such key exists.
func prefixRangeEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
