package gconf

import (
	"encoding/json"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
)

// ReadStore is the part of a store needed by Load.
type ReadStore interface {
	Get([]byte) []byte
}

// Store is the part of a store needed by Save.
type Store interface {
	ReadStore
	Set([]byte, []byte)
}

// Configuration is the settings object of one package.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// Key returns where the configuration of pkg is stored.
func Key(pkg string) []byte {
	return append([]byte("_c:"), pkg...)
}

// Save writes conf as the configuration of pkg if it is valid.
func Save(db Store, pkg string, conf Configuration) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	db.Set(Key(pkg), raw)
	return nil
}

// Load reads the configuration of pkg into dst. It returns ErrNotFound if
// none was saved.
func Load(db ReadStore, pkg string, dst Configuration) error {
	raw := db.Get(Key(pkg))
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrState, "unmarshal %s configuration: %s", pkg, err)
	}
	return nil
}

// InitConfig saves the conf.<pkg> genesis section as the configuration of
// pkg. A missing section gives ErrNotFound.
func InitConfig(db Store, opts weave.Options, pkg string, conf Configuration) error {
	var sections map[string]json.RawMessage
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return errors.Wrapf(errors.ErrInput, "conf section: %s", err)
	}
	raw, ok := sections[pkg]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis has no %s configuration", pkg)
	}
	if err := json.Unmarshal(raw, conf); err != nil {
		if errors.IsInternal(err) {
			return errors.Wrapf(errors.ErrInput, "%s configuration: %s", pkg, err)
		}
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	return Save(db, pkg, conf)
}
