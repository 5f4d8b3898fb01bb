package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/stakeweave/store/iavl"
)

// CommitKVStore opens a leveldb backed iavl store in a temporary directory,
// the same engine a node runs on. Call cleanup to remove the directory.
func CommitKVStore(t testing.TB) (iavl.CommitStore, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "stakeweave-")
	if err != nil {
		t.Fatalf("temporary directory: %s", err)
	}
	cleanup := func() { os.RemoveAll(dir) }
	db, err := iavl.NewCommitStore(dir, "state")
	if err != nil {
		cleanup()
		t.Fatalf("iavl store: %s", err)
	}
	return db, cleanup
}
