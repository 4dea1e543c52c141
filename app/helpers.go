package app

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// RawQueryPath gives read access to any key of the committed state.
const RawQueryPath = "/"

// RegisterRawQuery registers the raw store access query handler. Only key
// queries are supported.
func RegisterRawQuery(qr quorum.QueryRouter) {
	qr.Register(RawQueryPath, quorum.QueryHandlerFunc(rawQuery))
}

func rawQuery(db quorum.ReadOnlyKVStore, mod string, key []byte) ([]quorum.Model, error) {
	if mod != quorum.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
	}
	value, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return []quorum.Model{quorum.Pair(key, value)}, nil
}

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore
type ABCIStore struct {
	app abci.Application
}

var _ quorum.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading the committed state of given
// application.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: RawQueryPath,
		Data: key,
	})
	if query.Code != 0 {
		return nil, errors.ABCIError(query.Code, query.Log)
	}
	value, err := UnmarshalResults(query.Value)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	switch len(value.Results) {
	case 0:
		return nil, nil
	case 1:
		return value.Results[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d results for a single key", len(value.Results))
	}
}

// Has returns true if the given key is in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}
