package orm

import (
	"reflect"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
)

// Model is anything a ModelBucket can store.
type Model interface {
	weave.Persistent
	Validate() error
	Copy() CloneableData
}

// CloneableData is the return type of Model.Copy.
type CloneableData interface {
	weave.Persistent
	Validate() error
	Copy() CloneableData
}

// ModelBucket stores models of a single type.
type ModelBucket interface {
	// One loads the model stored under key into dest. It returns
	// ErrNotFound for a missing key and ErrType when dest is not of the
	// bucket model type.
	One(db weave.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns ErrNotFound when nothing is stored under key.
	Has(db weave.ReadOnlyKVStore, key []byte) error

	// Put validates m and stores it under key.
	Put(db weave.KVStore, key []byte, m Model) error

	// Delete returns ErrNotFound when nothing is stored under key.
	Delete(db weave.KVStore, key []byte) error

	// Visit calls fn for each model whose key starts with prefix, in key
	// order, until fn returns an error.
	Visit(db weave.ReadOnlyKVStore, prefix []byte, fn func(key []byte, m Model) error) error

	Register(name string, r weave.QueryRouter)
}

// NewModelBucket returns a bucket for models of the same type as m. It
// panics on an invalid name.
func NewModelBucket(name string, m Model) ModelBucket {
	return &modelBucket{bucket: newBucket(name), model: reflect.TypeOf(m)}
}

type modelBucket struct {
	bucket
	model reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db weave.ReadOnlyKVStore, key []byte, dest Model) error {
	if tp := reflect.TypeOf(dest); tp != mb.model {
		return errors.Wrapf(errors.ErrType, "%s cannot be loaded into %s", mb.model, tp)
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	raw := db.Get(mb.dbKey(key))
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model)
	}
	return mb.decode(raw, dest)
}

// decode resets dest before loading raw into it, so that fields missing
// from raw end up zero.
func (mb *modelBucket) decode(raw []byte, dest Model) error {
	reflect.ValueOf(dest).Elem().Set(reflect.Zero(mb.model.Elem()))
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot unmarshal %s: %s", mb.model, err)
	}
	return nil
}

func (mb *modelBucket) Has(db weave.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 || !db.Has(mb.dbKey(key)) {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model)
	}
	return nil
}

func (mb *modelBucket) Put(db weave.KVStore, key []byte, m Model) error {
	if tp := reflect.TypeOf(m); tp != mb.model {
		return errors.Wrapf(errors.ErrType, "cannot store %s in a %s bucket", tp, mb.model)
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	// A store cannot tell an empty value from a missing one.
	if len(raw) == 0 {
		return errors.Wrapf(errors.ErrModel, "%s serializes to an empty value", mb.model)
	}
	db.Set(mb.dbKey(key), raw)
	return nil
}

func (mb *modelBucket) Delete(db weave.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	db.Delete(mb.dbKey(key))
	return nil
}

func (mb *modelBucket) Visit(db weave.ReadOnlyKVStore, prefix []byte, fn func(key []byte, m Model) error) error {
	start := mb.dbKey(prefix)
	it := db.Iterator(start, prefixRangeEnd(start))
	defer it.Close()

	for ; it.Valid(); it.Next() {
		m := reflect.New(mb.model.Elem()).Interface().(Model)
		if err := mb.decode(it.Value(), m); err != nil {
			return err
		}
		key := append([]byte(nil), it.Key()[len(mb.prefix):]...)
		if err := fn(key, m); err != nil {
			return err
		}
	}
	return nil
}
