package cash

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryWallet(t *testing.T) {
	db := store.MemStore()
	alice := quorumtest.Addr("alice")
	require.NoError(t, NewController().Issue(db, alice, coin.NewCoin(3, 0, "IOV")))

	qr := quorum.NewQueryRouter()
	qr.RegisterAll(RegisterQuery)
	h := qr.Handler("/wallets")
	require.NotNil(t, h)

	res, err := h.Query(db, quorum.KeyQueryMod, alice)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var w Wallet
	require.NoError(t, orm.Unmarshal(res[0].Value, &w))
	assert.Equal(t, coin.NewCoin(3, 0, "IOV"), w.Coins)

	res, err = h.Query(db, quorum.KeyQueryMod, quorumtest.Addr("bob"))
	require.NoError(t, err)
	assert.Empty(t, res)

	_, err = h.Query(db, quorum.PrefixQueryMod, nil)
	assert.True(t, errors.ErrInput.Is(err))
}
