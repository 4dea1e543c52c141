package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	const genesis = `
	{
		"cash": [
			{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "coins": "1000 IOV"},
			{"address": "hex:ABCAE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "coins": {"whole": 2, "fractional": 5, "ticker": "IOV"}}
		]
	}`

	var opts quorum.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	ctrl := NewController()
	addr, err := quorum.ParseAddress("E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0")
	require.NoError(t, err)
	got, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(1000, 0, "IOV"), got)

	addr, err = quorum.ParseAddress("ABCAE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0")
	require.NoError(t, err)
	got, err = ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(2, 5, "IOV"), got)
}

func TestGenesisErrors(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"missing address": {
			genesis: `{"cash": [{"coins": "1 IOV"}]}`,
			wantErr: errors.ErrInput,
		},
		"zero coins": {
			genesis: `{"cash": [{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "coins": {"ticker": "IOV"}}]}`,
			wantErr: errors.ErrAmount,
		},
		"not a list": {
			genesis: `{"cash": {"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"}}`,
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts quorum.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))
			err := Initializer{}.FromGenesis(opts, store.MemStore())
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}
