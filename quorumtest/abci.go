package quorumtest

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is implemented by both *testing.T and *testing.B. Use it instead of
// the pointer type to allow notation to accept both objects.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// ABCIRunner provides a translation layer between an ABCI interface and
// protobuf encoded transactions. It takes care of serializing messages and
// creating blocks.
type ABCIRunner struct {
	chainID string
	height  int64
	t       Tester
	app     abci.Application
}

// NewABCIRunner creates a runner that can be used to process deliver and
// check transaction requests. Block level operations are expected to
// succeed, any failure results in test failure.
func NewABCIRunner(t Tester, app abci.Application, chainID string) *ABCIRunner {
	return &ABCIRunner{
		chainID: chainID,
		t:       t,
		app:     app,
	}
}

// TxRunner is available within a block.
type TxRunner interface {
	DeliverTx(proto.Message) (*abci.ResponseDeliverTx, error)
	CheckTx(proto.Message) error
}

var _ TxRunner = (*ABCIRunner)(nil)

// Height returns the height of the last created block.
func (r *ABCIRunner) Height() int64 {
	return r.height
}

// InitChain serialize to JSON given genesis and loads it. Loading a genesis is
// causing a block creation.
func (r *ABCIRunner) InitChain(genesis interface{}) {
	r.t.Helper()

	raw, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		r.t.Fatalf("cannot JSON serialize genesis: %s", err)
	}

	// Load the genesis in a separate block.
	changed := r.InBlock(func(TxRunner) error {
		r.app.InitChain(abci.RequestInitChain{
			Time:          time.Now(),
			ChainId:       r.chainID,
			AppStateBytes: raw,
		})
		return nil
	})

	if !changed {
		r.t.Fatalf("genesis did not change the state")
	}
}

// CheckTx serializes given transaction and runs the ABCI check. A non zero
// response code is returned as the registered error.
func (r *ABCIRunner) CheckTx(tx proto.Message) error {
	raw, err := proto.Marshal(tx)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	resp := r.app.CheckTx(raw)
	if resp.Code != 0 {
		return errors.ABCIError(resp.Code, resp.Log)
	}
	return nil
}

// DeliverTx serializes given transaction and runs the ABCI deliver. A non
// zero response code is returned as the registered error.
func (r *ABCIRunner) DeliverTx(tx proto.Message) (*abci.ResponseDeliverTx, error) {
	raw, err := proto.Marshal(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	resp := r.app.DeliverTx(raw)
	if resp.Code != 0 {
		return &resp, errors.ABCIError(resp.Code, resp.Log)
	}
	return &resp, nil
}

// InBlock begins a block and runs given function. All transactions executed
// within given function are part of newly created block. Upon success the
// block is finished and changes committed.
// InBlock returns true if the application state was modified.
//
// Any failure is ending the test instantly.
func (r *ABCIRunner) InBlock(executeTx func(TxRunner) error) bool {
	r.t.Helper()

	r.height++

	initialHash := r.app.Info(abci.RequestInfo{}).LastBlockAppHash

	// BeginBlock will panic on error.
	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: r.chainID,
			Height:  r.height,
		},
	})

	if err := executeTx(r); err != nil {
		r.t.Fatalf("operation failed with %+v", err)
	}

	r.app.EndBlock(abci.RequestEndBlock{
		Height: r.height,
	})

	// Commit data contains the new app hash. It differs from the initial
	// hash only if the state was modified.
	finalHash := r.app.Commit().Data
	return !bytes.Equal(initialHash, finalHash)
}

// Query runs an ABCI query and returns the decoded models.
func (r *ABCIRunner) Query(path string, data []byte) ([]quorum.Model, error) {
	resp := r.app.Query(abci.RequestQuery{
		Path: path,
		Data: data,
	})
	if resp.Code != 0 {
		return nil, errors.ABCIError(resp.Code, resp.Log)
	}
	var keys, values resultSet
	if err := proto.Unmarshal(resp.Key, &keys); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := proto.Unmarshal(resp.Value, &values); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrap(errors.ErrState, "mismatched result set size")
	}
	models := make([]quorum.Model, len(keys.Results))
	for i := range models {
		models[i] = quorum.Pair(keys.Results[i], values.Results[i])
	}
	return models, nil
}

var _ quorum.ReadOnlyKVStore = (*ABCIRunner)(nil)

// Get reads a single key of the committed state.
func (r *ABCIRunner) Get(key []byte) ([]byte, error) {
	models, err := r.Query("/", key)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].Value, nil
}

// Has returns true if the key is present in the committed state.
func (r *ABCIRunner) Has(key []byte) (bool, error) {
	v, err := r.Get(key)
	return v != nil, err
}

// resultSet mirrors the query result encoding of the application.
type resultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results"`
}

func (r *resultSet) Reset()         { *r = resultSet{} }
func (r *resultSet) String() string { return proto.CompactTextString(r) }
func (*resultSet) ProtoMessage()    {}
