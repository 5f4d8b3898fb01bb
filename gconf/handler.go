package gconf

import (
	"reflect"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/x"
)

// OwnedConfig is a configuration that names who may change it.
type OwnedConfig interface {
	Configuration
	GetOwner() weave.Address
}

// UpdateConfigurationHandler applies the Patch field of a message to the
// stored configuration of one package. Zero value fields of the patch leave
// the stored value unchanged.
type UpdateConfigurationHandler struct {
	pkg       string
	config    OwnedConfig
	auth      x.Authenticator
	initAdmin func(weave.ReadOnlyKVStore) (weave.Address, error)
}

var _ weave.Handler = (*UpdateConfigurationHandler)(nil)

// NewUpdateConfigurationHandler returns a handler for messages that carry a
// Patch of the same type as config. Updates must be signed by the current
// owner. initAdmin, when not nil, names who may create a configuration that
// was never stored.
func NewUpdateConfigurationHandler(
	pkg string,
	config OwnedConfig,
	auth x.Authenticator,
	initAdmin func(weave.ReadOnlyKVStore) (weave.Address, error),
) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:       pkg,
		config:    config,
		auth:      auth,
		initAdmin: initAdmin,
	}
}

func (h UpdateConfigurationHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	res := &weave.DeliverResult{}
	res.AddTag("configuration", h.pkg)
	res.AddTag("owner", h.config.GetOwner().String())
	return res, nil
}

func (h UpdateConfigurationHandler) apply(ctx weave.Context, db weave.KVStore, tx weave.Tx) error {
	if err := h.authorize(ctx, db); err != nil {
		return err
	}
	p, err := patchOf(tx)
	if err != nil {
		return err
	}
	if err := merge(h.config, p); err != nil {
		return err
	}
	return Save(db, h.pkg, h.config)
}

// authorize loads the stored configuration into h.config and checks the
// signature of its owner.
func (h UpdateConfigurationHandler) authorize(ctx weave.Context, db weave.KVStore) error {
	err := Load(db, h.pkg, h.config)
	if errors.ErrNotFound.Is(err) {
		// Start from a zero configuration, not from a previous call.
		v := reflect.ValueOf(h.config).Elem()
		v.Set(reflect.Zero(v.Type()))
		if h.initAdmin == nil {
			return errors.Wrapf(errors.ErrUnauthorized, "no %s configuration to update", h.pkg)
		}
		admin, err := h.initAdmin(db)
		if err != nil {
			return errors.Wrap(err, "init admin")
		}
		return x.RequireAddress(ctx, h.auth, admin)
	}
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}
	return x.RequireAddress(ctx, h.auth, h.config.GetOwner())
}

// merge copies every non zero field of src into dst. Both must point to the
// same struct type.
func merge(dst, src OwnedConfig) error {
	if reflect.TypeOf(dst) != reflect.TypeOf(src) {
		return errors.Wrapf(errors.ErrMsg, "patch of type %T cannot update %T", src, dst)
	}
	d := reflect.ValueOf(dst).Elem()
	s := reflect.ValueOf(src).Elem()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if reflect.DeepEqual(f.Interface(), reflect.Zero(f.Type()).Interface()) {
			continue
		}
		d.Field(i).Set(f)
	}
	return nil
}

// patchOf returns the validated Patch field of the transaction message.
func patchOf(tx weave.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported message %T", msg)
	}
	f := v.Elem().FieldByName("Patch")
	if !f.IsValid() || f.Kind() != reflect.Ptr {
		return nil, errors.Wrapf(errors.ErrType, "%T has no Patch field", msg)
	}
	if f.IsNil() {
		return nil, errors.Wrap(errors.ErrEmpty, "patch")
	}
	p, ok := f.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "patch of type %s", f.Type())
	}
	return p, nil
}
