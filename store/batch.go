package store

// SliceIterator iterates over a prepared list of models.
type SliceIterator struct {
	data []Model
	pos  int
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool {
	return s.pos < len(s.data)
}

func (s *SliceIterator) Next() {
	s.current()
	s.pos++
}

func (s *SliceIterator) Key() []byte {
	return s.current().Key
}

func (s *SliceIterator) Value() []byte {
	return s.current().Value
}

func (s *SliceIterator) Close() {
	s.data = nil
}

func (s *SliceIterator) current() Model {
	if !s.Valid() {
		panic("iterator exhausted")
	}
	return s.data[s.pos]
}

// EmptyKVStore holds nothing and ignores writes. It is the bottom layer of
// MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) []byte     { return nil }
func (EmptyKVStore) Has([]byte) bool       { return false }
func (EmptyKVStore) Set(key, value []byte) {}
func (EmptyKVStore) Delete([]byte)         {}

func (EmptyKVStore) Iterator(start, end []byte) Iterator {
	return NewSliceIterator(nil)
}

func (EmptyKVStore) ReverseIterator(start, end []byte) Iterator {
	return NewSliceIterator(nil)
}

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// Op is a single recorded write.
type Op struct {
	key   []byte
	value []byte
	del   bool
}

func (o Op) Key() []byte    { return o.key }
func (o Op) IsDelete() bool { return o.del }

func (o Op) apply(out SetDeleter) {
	if o.del {
		out.Delete(o.key)
	} else {
		out.Set(o.key, o.value)
	}
}

// NonAtomicBatch records writes and replays them in order on Write. A crash
// in the middle of Write leaves a partial result, so it must only front
// in-memory stores or stores that are committed as a whole, like iavl.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) {
	b.ops = append(b.ops, Op{key: key, value: value})
}

func (b *NonAtomicBatch) Delete(key []byte) {
	b.ops = append(b.ops, Op{key: key, del: true})
}

func (b *NonAtomicBatch) Write() {
	for _, op := range b.ops {
		op.apply(b.out)
	}
	b.ops = nil
}

// ShowOps returns the pending writes in the order they were made.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}

func (b *NonAtomicBatch) discard() {
	b.ops = nil
}
