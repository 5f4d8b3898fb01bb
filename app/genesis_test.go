package app

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/store"
	"github.com/iov-one/stakeweave/weavetest/assert"
)

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		assert.Nil(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}

	cases := map[string]struct {
		path        string
		wantErr     *errors.Error
		wantChainID string
		wantKeys    int
		wantTime    weave.UnixTime
	}{
		"valid genesis": {
			path:        write("genesis.json", `{"chain_id": "test-chain-67", "genesis_time": "2019-03-01T12:00:00Z", "app_state": {"dummy": "secret", "conf": {}}}`),
			wantChainID: "test-chain-67",
			wantKeys:    2,
			wantTime:    1551441600,
		},
		"no genesis time": {
			path:        write("notime.json", `{"chain_id": "test-chain-67", "app_state": {}}`),
			wantChainID: "test-chain-67",
		},
		"missing file": {
			path:    filepath.Join(dir, "missing.json"),
			wantErr: errors.ErrInput,
		},
		"malformed file": {
			path:    write("bad.json", `{"chain_id": `),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			gen, err := LoadGenesis(tc.path)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.wantChainID, gen.ChainID)
			assert.Equal(t, tc.wantKeys, len(gen.AppOptions))
			assert.Equal(t, tc.wantTime, gen.Params().Time)
		})
	}
}

func TestChainID(t *testing.T) {
	db := store.MemStore()
	assert.Equal(t, "", loadChainID(db))

	err := saveChainID(db, "a")
	assert.IsErr(t, errors.ErrInput, err)

	assert.Nil(t, saveChainID(db, "test-chain-67"))
	assert.Equal(t, "test-chain-67", loadChainID(db))

	err = saveChainID(db, "other-chain-1")
	assert.IsErr(t, errors.ErrDuplicate, err)
	assert.Equal(t, "test-chain-67", loadChainID(db))
}
