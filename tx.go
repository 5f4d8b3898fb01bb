package weave

import (
	"reflect"

	"github.com/iov-one/stakeweave/errors"
)

// Msg is a request to change the state. Authentication data lives in the
// Tx that carries it, so a Msg only describes the action.
type Msg interface {
	Persistent

	// Path routes the message to its handler, for example "pool/stake".
	// Several message types may share a path.
	Path() string

	// Validate checks the message without looking at the state.
	Validate() error
}

// Marshaller serializes itself. It may fail on invalid data.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can be stored and loaded. Unmarshal needs a pointer receiver,
// which is why Marshaller is kept as a separate interface.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is what a client submits: a single Msg plus whatever the decorators
// need to authenticate it. Each application defines its own Tx type.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// GetPath returns the path of the carried message or "(missing)".
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg copies the message of tx into destination and validates it.
// Destination is a pointer to the expected message type.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "nil message")
	}
	if err := setMsg(msg, destination); err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

// setMsg assigns msg to the value pointed by destination. Destination must
// be a pointer to the message type, or a pointer to a pointer of the message
// type.
func setMsg(msg Msg, destination interface{}) error {
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	src := reflect.ValueOf(msg)
	target := dest.Elem()
	switch {
	case src.Type().AssignableTo(target.Type()):
		target.Set(src)
	case src.Kind() == reflect.Ptr && src.Elem().Type().AssignableTo(target.Type()):
		target.Set(src.Elem())
	default:
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", target.Interface(), msg)
	}
	return nil
}
