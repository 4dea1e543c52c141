package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/iov-one/quorum/x/vault"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const testChainID = "test-chain-1"

func iov(n int64) *coin.Coin {
	return coin.NewCoinp(n, 0, "IOV")
}

// client signs transactions of a single key, tracking its sequence.
type client struct {
	t   *testing.T
	key *crypto.PrivateKey
	seq int64
}

func (c *client) addr() quorum.Address {
	return c.key.PublicKey().Address()
}

func (c *client) tx(msg quorum.Msg) *Tx {
	c.t.Helper()
	tx := &Tx{}
	require.NoError(c.t, tx.SetMsg(msg))
	sig, err := sigs.SignTx(c.key, tx, testChainID, c.seq)
	require.NoError(c.t, err)
	tx.Signature = sig
	c.seq++
	return tx
}

func newTestApp(t *testing.T) (*quorumtest.ABCIRunner, *Metrics, map[string]*client) {
	t.Helper()
	clients := map[string]*client{
		"alice": {t: t, key: quorumtest.NewKey()},
		"bob":   {t: t, key: quorumtest.NewKey()},
		"carol": {t: t, key: quorumtest.NewKey()},
	}

	metrics := NewMetrics(prometheus.NewRegistry())
	application, err := Application("test", Stack(metrics), TxDecoder, "", false)
	require.NoError(t, err)
	runner := quorumtest.NewABCIRunner(t, application, testChainID)
	runner.InitChain(map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: clients["alice"].addr(), Coins: *iov(1000)},
			{Address: clients["bob"].addr(), Coins: *iov(10)},
			{Address: clients["carol"].addr(), Coins: *iov(10)},
		},
		"vault": vault.Config{
			Name:     "vault",
			Owners:   []quorum.Address{clients["alice"].addr(), clients["bob"].addr()},
			Required: 2,
			Ticker:   "IOV",
		},
	})
	return runner, metrics, clients
}

func queryBalance(t *testing.T, r *quorumtest.ABCIRunner, path string, data []byte) coin.Coin {
	t.Helper()
	models, err := r.Query(path, data)
	require.NoError(t, err)
	if len(models) == 0 {
		return coin.Coin{}
	}
	var w cash.Wallet
	require.NoError(t, orm.Unmarshal(models[0].Value, &w))
	return w.Coins
}

func TestApplicationVaultFlow(t *testing.T) {
	runner, metrics, c := newTestApp(t)
	alice, bob, carol := c["alice"], c["bob"], c["carol"]
	target := quorumtest.Addr("target")

	runner.InBlock(func(r quorumtest.TxRunner) error {
		_, err := r.DeliverTx(alice.tx(&vault.DepositMsg{Amount: iov(500)}))
		require.NoError(t, err)

		res, err := r.DeliverTx(alice.tx(&vault.SubmitMsg{Target: target, Value: iov(300)}))
		require.NoError(t, err)
		id, err := vault.ParseID(res.Data)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), id)

		err = r.CheckTx(carol.tx(&vault.ApproveMsg{ActionID: 0}))
		assert.True(t, vault.ErrNotOwner.Is(err), "unexpected error: %+v", err)
		// Check state is reset on commit.
		carol.seq = 0
		return nil
	})

	assert.Equal(t, *iov(500), queryBalance(t, runner, "/vault/balance", nil))

	runner.InBlock(func(r quorumtest.TxRunner) error {
		_, err := r.DeliverTx(alice.tx(&vault.ApproveMsg{ActionID: 0}))
		require.NoError(t, err)

		_, err = r.DeliverTx(carol.tx(&vault.ExecuteMsg{ActionID: 0}))
		assert.True(t, vault.ErrInsufficientApprovals.Is(err), "unexpected error: %+v", err)

		_, err = r.DeliverTx(bob.tx(&vault.ApproveMsg{ActionID: 0}))
		require.NoError(t, err)

		// Anyone can execute an action that reached the quorum.
		res, err := r.DeliverTx(carol.tx(&vault.ExecuteMsg{ActionID: 0}))
		require.NoError(t, err)
		assert.NotEmpty(t, res.Tags)

		_, err = r.DeliverTx(carol.tx(&vault.ExecuteMsg{ActionID: 0}))
		assert.True(t, vault.ErrAlreadyExecuted.Is(err), "unexpected error: %+v", err)
		return nil
	})

	assert.Equal(t, *iov(200), queryBalance(t, runner, "/vault/balance", nil))
	assert.Equal(t, *iov(300), queryBalance(t, runner, "/wallets", target))
	assert.Equal(t, *iov(500), queryBalance(t, runner, "/wallets", alice.addr()))

	models, err := runner.Query("/vault/actions", vault.ActionKey(0))
	require.NoError(t, err)
	require.Len(t, models, 1)
	var a vault.Action
	require.NoError(t, orm.Unmarshal(models[0].Value, &a))
	assert.True(t, a.Executed)

	// Failed deliveries still consumed the sequence of carol.
	models, err = runner.Query("/sigs", carol.addr())
	require.NoError(t, err)
	require.Len(t, models, 1)
	var user sigs.User
	require.NoError(t, orm.Unmarshal(models[0].Value, &user))
	assert.Equal(t, carol.seq, user.Sequence)

	assert.Equal(t, float64(200), testutil.ToFloat64(metrics.balance.WithLabelValues("IOV")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ops.WithLabelValues("deliver", vault.PathExecute, "0")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ops.WithLabelValues("check", vault.PathApprove, "1100")))
}

func TestApplicationRejectsReplay(t *testing.T) {
	runner, _, c := newTestApp(t)
	alice := c["alice"]

	tx := alice.tx(&vault.DepositMsg{Amount: iov(1)})
	runner.InBlock(func(r quorumtest.TxRunner) error {
		_, err := r.DeliverTx(tx)
		require.NoError(t, err)
		_, err = r.DeliverTx(tx)
		assert.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)
		return nil
	})
	assert.Equal(t, *iov(1), queryBalance(t, runner, "/vault/balance", nil))
}

func TestApplicationRejectsGarbage(t *testing.T) {
	application, err := Application("test", Stack(nil), TxDecoder, "", false)
	require.NoError(t, err)

	res := application.DeliverTx([]byte("not a transaction"))
	assert.NotEqual(t, uint32(0), res.Code)

	check := application.CheckTx(nil)
	assert.NotEqual(t, uint32(0), check.Code)
}

func TestApplicationChecksBeforeFirstBlock(t *testing.T) {
	alice := &client{t: t, key: quorumtest.NewKey()}
	genesis, err := json.Marshal(map[string]interface{}{
		"vault": vault.Config{
			Name:     "vault",
			Owners:   []quorum.Address{alice.addr()},
			Required: 1,
			Ticker:   "IOV",
		},
	})
	require.NoError(t, err)

	application, err := Application("test", Stack(nil), TxDecoder, "", false)
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: genesis})
	application.Commit()

	raw, err := MarshalTx(alice.tx(&vault.SubmitMsg{Target: quorumtest.Addr("target")}))
	require.NoError(t, err)
	res := application.CheckTx(raw)
	assert.Equal(t, uint32(0), res.Code, res.Log)
}
