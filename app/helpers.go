package app

import (
	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore reads the committed state of an application through its ABCI
// query interface. It needs the raw store queries registered by
// orm.RegisterQuery. Query failures panic, as ReadOnlyKVStore has no way to
// report them.
type ABCIStore struct {
	app abci.Application
}

var _ weave.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

func (a *ABCIStore) Get(key []byte) []byte {
	res := a.query("/", key)
	var values ResultSet
	if err := values.Unmarshal(res.Value); err != nil {
		panic(errors.Wrap(err, "values"))
	}
	if len(values.Results) == 0 {
		return nil
	}
	return values.Results[0]
}

func (a *ABCIStore) Has(key []byte) bool {
	return len(a.Get(key)) != 0
}

// Iterator supports only the full range, nil to nil.
func (a *ABCIStore) Iterator(start, end []byte) weave.Iterator {
	return store.NewSliceIterator(a.all(start, end))
}

// ReverseIterator supports only the full range, nil to nil.
func (a *ABCIStore) ReverseIterator(start, end []byte) weave.Iterator {
	models := a.all(start, end)
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models)
}

func (a *ABCIStore) all(start, end []byte) []weave.Model {
	if start != nil || end != nil {
		panic("only the full range can be iterated")
	}
	res := a.query("/?"+weave.PrefixQueryMod, nil)
	models, err := toModels(res.Key, res.Value)
	if err != nil {
		panic(err)
	}
	return models
}

func (a *ABCIStore) query(path string, data []byte) abci.ResponseQuery {
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		panic(res.Log)
	}
	return res
}

func toModels(keys, values []byte) ([]weave.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return JoinResults(&k, &v)
}
