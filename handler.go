package weave

import (
	"encoding/json"
)

// Handler processes the messages it is registered for. Check validates and
// authorizes a transaction for the mempool, Deliver executes it.
type Handler interface {
	Checker
	Deliverer
}

type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around the rest of the stack. It must call next to pass
// the transaction on and may change the context, the store or the result.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds message types to handlers. The path of the message is the
// routing key.
type Registry interface {
	Handle(Msg, Handler)
}

// Options is the app_state of a genesis file, one entry per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the entry under key into obj. A missing entry leaves
// obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, GenesisParams, KVStore) error
}

// GenesisParams holds chain wide genesis values.
type GenesisParams struct {
	Time UnixTime
}
