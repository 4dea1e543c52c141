package orm

import (
	"github.com/fxamacker/cbor"
	"github.com/iov-one/quorum/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	Validate() error
}

// Marshal serializes a model into its canonical binary form.
func Marshal(m Model) ([]byte, error) {
	raw, err := cbor.Marshal(m, cbor.CanonicalEncOptions())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal loads the binary representation into given model. Result is not
// validated.
func Unmarshal(raw []byte, dest Model) error {
	if err := cbor.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}
