package store

import (
	"bytes"
	"fmt"

	"github.com/google/btree"
)

// BTreeCacheable gives any KVStore a btree backed CacheWrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an empty in-memory store. Nothing is persisted.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// ShowOpser lists the writes made to a store.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore is a MemStore that also reports every write made to it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}

// BTreeCacheWrap places a btree cache over a KVStore.
//
// Every write is recorded both in the btree, so that it is visible to all
// reads done through this cache, and in the batch, so that it can be flushed
// to the backing store with Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap caches writes to kv. Writes are only recorded in batch
// and reach kv when the batch is written. Pass the free list of a parent
// cache to share its nodes, or nil.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap nests another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the recorded writes to the parent and empties the cache.
func (b BTreeCacheWrap) Write() {
	b.batch.Write()
	b.Discard()
}

// Discard drops all cached writes.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
	if d, ok := b.batch.(interface{ discard() }); ok {
		d.discard()
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) {
	b.bt.ReplaceOrInsert(setItem{bkey{key}, value})
	b.batch.Set(key, value)
}

// Delete leaves a tombstone that hides the parent value.
func (b BTreeCacheWrap) Delete(key []byte) {
	b.bt.ReplaceOrInsert(deletedItem{bkey{key}})
	b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) []byte {
	switch it := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Get(key)
	case setItem:
		return it.value
	case deletedItem:
		return nil
	default:
		panic(fmt.Sprintf("unknown btree item: %#v", it))
	}
}

func (b BTreeCacheWrap) Has(key []byte) bool {
	switch it := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Has(key)
	case setItem:
		return true
	case deletedItem:
		return false
	default:
		panic(fmt.Sprintf("unknown btree item: %#v", it))
	}
}

func (b BTreeCacheWrap) Iterator(start, end []byte) Iterator {
	return newMergeIterator(ascendBtree(b.bt, start, end), b.back.Iterator(start, end), true)
}

func (b BTreeCacheWrap) ReverseIterator(start, end []byte) Iterator {
	return newMergeIterator(descendBtree(b.bt, start, end), b.back.ReverseIterator(start, end), false)
}

// Every item kept in the btree is ordered by its key.
type keyer interface {
	Key() []byte
}

type bkey struct {
	key []byte
}

func (k bkey) Key() []byte {
	return k.key
}

func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
