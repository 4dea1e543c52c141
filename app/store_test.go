package app

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

func TestStoreAppChainID(t *testing.T) {
	db, cleanup := quorumtest.CommitKVStore(t)
	defer cleanup()

	s := NewStoreApp("test", db, QueryRouter(), context.Background())
	assert.Equal(t, "", s.GetChainID())

	s.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{}`)})
	assert.Equal(t, testChainID, s.GetChainID())
	s.Commit()

	// Genesis can be loaded only once.
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "other-chain", AppStateBytes: []byte(`{}`)})
	})

	// Chain id is restored from the store.
	restored := NewStoreApp("test", db, QueryRouter(), context.Background())
	assert.Equal(t, testChainID, restored.GetChainID())
	assert.Equal(t, testChainID, quorum.GetChainID(restored.BlockContext()))

	info := restored.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, "test", info.Data)
}

func TestStoreAppInitChainErrors(t *testing.T) {
	cases := map[string]struct {
		chainID  string
		appState []byte
		wantErr  *errors.Error
	}{
		"missing app state": {
			chainID: testChainID,
			wantErr: errors.ErrState,
		},
		"invalid app state": {
			chainID:  testChainID,
			appState: []byte(`[1, 2]`),
			wantErr:  errors.ErrInput,
		},
		"invalid chain id": {
			chainID:  "x",
			appState: []byte(`{}`),
			wantErr:  errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, cleanup := quorumtest.CommitKVStore(t)
			defer cleanup()
			s := NewStoreApp("test", db, QueryRouter(), context.Background())

			err := s.parseAppState(tc.appState, tc.chainID, nil)
			assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			assert.Equal(t, "", s.GetChainID())
		})
	}
}

func TestStoreAppQuery(t *testing.T) {
	db, cleanup := quorumtest.CommitKVStore(t)
	defer cleanup()
	s := NewStoreApp("test", db, QueryRouter(), context.Background())

	require.NoError(t, s.DeliverStore().Set([]byte("foo"), []byte("bar")))

	// Uncommitted data is not visible.
	res := s.Query(abci.RequestQuery{Path: "/", Data: []byte("foo")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	values, err := UnmarshalResults(res.Value)
	require.NoError(t, err)
	assert.Empty(t, values.Results)

	s.Commit()

	res = s.Query(abci.RequestQuery{Path: "/", Data: []byte("foo")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, int64(1), res.Height)
	keys, err := UnmarshalResults(res.Key)
	require.NoError(t, err)
	values, err = UnmarshalResults(res.Value)
	require.NoError(t, err)
	models, err := JoinResults(keys, values)
	require.NoError(t, err)
	assert.Equal(t, []quorum.Model{quorum.Pair([]byte("foo"), []byte("bar"))}, models)

	value, err := NewABCIStore(NewBaseApp(s, TxDecoder, Stack(nil), false)).Get([]byte("foo"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), value)

	res = s.Query(abci.RequestQuery{Path: "/?prefix", Data: []byte("f")})
	assert.True(t, errors.ErrInput.Is(errors.ABCIError(res.Code, res.Log)))

	res = s.Query(abci.RequestQuery{Path: "/unknown"})
	assert.True(t, errors.ErrNotFound.Is(errors.ABCIError(res.Code, res.Log)))
}

func TestJoinResultsMismatch(t *testing.T) {
	_, err := JoinResults(&ResultSet{Results: [][]byte{{1}}}, &ResultSet{})
	assert.True(t, errors.ErrState.Is(err))
}
