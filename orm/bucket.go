/*
Package orm stores models in named sections of the key value store.

Every bucket owns the keys prefixed with its name and a colon and holds a
single model type. Buckets can be registered with a query router to serve
key lookups and prefix scans.
*/
package orm

import (
	"fmt"
	"regexp"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// bucket maps model keys into its own section of the store.
type bucket struct {
	name   string
	prefix []byte
}

func newBucket(name string) bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return bucket{name: name, prefix: []byte(name + ":")}
}

// dbKey returns a new slice holding the prefixed key.
func (b bucket) dbKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	out = append(out, b.prefix...)
	return append(out, key...)
}

// Register serves queries under /name, or /<bucket name> when name is
// empty.
func (b bucket) Register(name string, r weave.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query returns raw models with full database keys. A missing key gives an
// empty result.
func (b bucket) Query(_ weave.Context, db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	key := b.dbKey(data)
	switch mod {
	case weave.KeyQueryMod:
		if value := db.Get(key); value != nil {
			return []weave.Model{weave.Pair(key, value)}, nil
		}
		return nil, nil
	case weave.PrefixQueryMod:
		return queryPrefix(db, key), nil
	}
	return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
}
