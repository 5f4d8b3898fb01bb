package app

import (
	"sync"

	weave "github.com/iov-one/stakeweave"
)

// CommitStore keeps two cache wraps over the committed state: one for
// DeliverTx and one for CheckTx. Commit flushes the deliver cache, drops
// the check cache and starts both over.
//
// Tendermint serves queries on a separate connection, so access to the
// committed store is guarded.
type CommitStore struct {
	mu      sync.RWMutex
	kv      weave.CommitKVStore
	deliver weave.KVCacheWrap
	check   weave.KVCacheWrap
}

// NewCommitStore panics if the latest version of kv cannot be loaded.
func NewCommitStore(kv weave.CommitKVStore) *CommitStore {
	if err := kv.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{kv: kv}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.kv.CacheWrap()
	cs.check = cs.kv.CacheWrap()
}

// CommitInfo returns the height and app hash of the last commit.
func (cs *CommitStore) CommitInfo() (int64, []byte) {
	cs.mu.RLock()
	id := cs.kv.LatestVersion()
	cs.mu.RUnlock()
	return id.Version, id.Hash
}

func (cs *CommitStore) Commit() weave.CommitID {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.deliver.Write()
	cs.check.Discard()
	id := cs.kv.Commit()
	cs.reset()
	return id
}

// Committed returns a snapshot of the last committed state. Writes to it
// are never persisted.
func (cs *CommitStore) Committed() weave.ReadOnlyKVStore {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.kv.CacheWrap()
}

func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	return cs.deliver
}
