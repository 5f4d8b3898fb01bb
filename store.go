package weave

// ReadOnlyKVStore gives read access to a key value store. Nil keys are not
// allowed.
type ReadOnlyKVStore interface {
	// Get returns nil if the key is not present.
	Get(key []byte) []byte
	Has(key []byte) bool

	// Iterator walks [start, end) in ascending key order. A nil bound is
	// open. The range must not be written while the iterator is open.
	Iterator(start, end []byte) Iterator
	// ReverseIterator walks [start, end) in descending key order.
	ReverseIterator(start, end []byte) Iterator
}

// SetDeleter is the write half shared by KVStore and Batch. Passed slices
// must not be modified afterwards.
type SetDeleter interface {
	Set(key, value []byte)
	Delete(key []byte)
}

// KVStore is the store every handler writes to.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes and applies all of them on Write.
type Batch interface {
	SetDeleter
	Write()
}

// Iterator is a cursor over a key range:
//
//	it := db.Iterator(start, end)
//	defer it.Close()
//	for ; it.Valid(); it.Next() {
//		use(it.Key(), it.Value())
//	}
//
// Next, Key and Value panic once Valid returned false.
type Iterator interface {
	Valid() bool
	Next()
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can stage writes in a KVCacheWrap.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap stages writes on top of a parent store. Reads see the staged
// writes. Write applies them to the parent, Discard drops them. Cache wraps
// nest, which is how savepoints are built.
type KVCacheWrap interface {
	CacheableKVStore
	Write()
	Discard()
}

// CommitKVStore is the versioned root store of the application. Blocks are
// executed in a cache wrap which is written back before Commit persists a new
// version.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) []byte
	CacheWrap() KVCacheWrap

	// Commit persists the written state as a new version.
	Commit() CommitID
	// LoadLatestVersion opens the newest version that was fully written.
	LoadLatestVersion() error
	LatestVersion() CommitID
}

// CommitID identifies a committed version by height and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
