package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

const testChainID = "quorumcli-test"

// appClient serves tendermint RPC calls from an application running in
// process. Every broadcast transaction is committed in its own block.
type appClient struct {
	app    abci.Application
	height int64
}

func (c *appClient) ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error) {
	return &ctypes.ResultABCIQuery{
		Response: c.app.Query(abci.RequestQuery{Path: path, Data: data}),
	}, nil
}

func (c *appClient) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	res := &ctypes.ResultBroadcastTxCommit{CheckTx: c.app.CheckTx(tx)}
	if res.CheckTx.Code != 0 {
		return res, nil
	}
	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: testChainID, Height: c.height},
	})
	res.DeliverTx = c.app.DeliverTx(tx)
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	res.Height = c.height
	return res, nil
}

func (c *appClient) Genesis() (*ctypes.ResultGenesis, error) {
	return &ctypes.ResultGenesis{Genesis: &tmtypes.GenesisDoc{ChainID: testChainID}}, nil
}

func tempKey(t *testing.T, dir, name string) (string, quorum.Address) {
	t.Helper()
	path := filepath.Join(dir, name+".key")
	require.NoError(t, cmdKeygen(nil, ioutil.Discard, []string{"-key", path}))

	var out bytes.Buffer
	require.NoError(t, cmdKeyaddr(nil, &out, []string{"-key", path}))
	addr, err := quorum.ParseAddress(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	return path, addr
}

// setupApp starts an application guarded by a single owner and replaces the
// RPC client with one served by that application.
func setupApp(t *testing.T, owner quorum.Address) func() {
	t.Helper()
	application, err := app.Application("test", app.Stack(nil), app.TxDecoder, "", false)
	require.NoError(t, err)

	genesis, err := json.Marshal(map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: owner, Coins: coin.NewCoin(100, 0, "IOV")},
		},
		"vault": vault.Config{
			Name:     "vault",
			Owners:   []quorum.Address{owner},
			Required: 1,
			Ticker:   "IOV",
		},
	})
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: genesis})
	application.Commit()

	client := &appClient{app: application, height: 1}
	prev := newClient
	newClient = func(string) tmClient { return client }
	return func() { newClient = prev }
}

// run executes a pipeline of commands, each one reading the output of the
// previous one.
func run(t *testing.T, cmds ...[]string) string {
	t.Helper()
	var input []byte
	for _, c := range cmds {
		var out bytes.Buffer
		fn, ok := commands[c[0]]
		require.True(t, ok, "unknown command %q", c[0])
		require.NoError(t, fn(bytes.NewReader(input), &out, c[1:]), "command %q", c[0])
		input = out.Bytes()
	}
	return string(input)
}

func TestVaultPipeline(t *testing.T) {
	dir, err := ioutil.TempDir("", "quorumcli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	keyPath, owner := tempKey(t, dir, "owner")
	_, other := tempKey(t, dir, "other")
	defer setupApp(t, owner)()

	sign := []string{"sign", "-key", keyPath}
	broadcast := []string{"broadcast"}

	run(t, []string{"deposit", "-amount", "10 IOV"}, sign, broadcast)

	out := run(t, []string{"submit", "-target", other.String(), "-value", "4 IOV"}, sign, broadcast)
	assert.Equal(t, "0\n", out)

	run(t, []string{"approve", "-id", "0"}, sign, broadcast)
	run(t, []string{"execute", "-id", "0"}, sign, broadcast)

	assert.Equal(t, coin.NewCoin(4, 0, "IOV"), queryWallet(t, "/wallets", "-addr", other.String()))
	assert.Equal(t, coin.NewCoin(6, 0, "IOV"), queryWallet(t, "/vault/balance"))

	var action struct {
		Value vault.Action `json:"value"`
	}
	out = run(t, []string{"query", "-path", "/vault/actions", "-id", "0"})
	require.NoError(t, json.Unmarshal([]byte(out), &action))
	assert.True(t, action.Value.Executed)
	assert.Equal(t, other, action.Value.Target)
}

func queryWallet(t *testing.T, path string, args ...string) coin.Coin {
	t.Helper()
	out := run(t, append([]string{"query", "-path", path}, args...))
	var res struct {
		Value cash.Wallet `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res.Value.Coins
}

func TestBroadcastReportsFailure(t *testing.T) {
	dir, err := ioutil.TempDir("", "quorumcli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	_, owner := tempKey(t, dir, "owner")
	strangerKey, _ := tempKey(t, dir, "stranger")
	defer setupApp(t, owner)()

	var signed bytes.Buffer
	tx := run(t, []string{"approve", "-id", "0"})
	require.NoError(t, cmdSignTransaction(strings.NewReader(tx), &signed, []string{"-key", strangerKey}))

	err = cmdBroadcast(&signed, ioutil.Discard, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an owner")
}

func TestSignOffline(t *testing.T) {
	dir, err := ioutil.TempDir("", "quorumcli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	keyPath, _ := tempKey(t, dir, "owner")

	prev := newClient
	newClient = func(string) tmClient {
		t.Fatal("node must not be contacted")
		return nil
	}
	defer func() { newClient = prev }()

	out := run(t,
		[]string{"revoke", "-id", "7"},
		[]string{"sign", "-key", keyPath, "-chain-id", testChainID, "-seq", "3"},
	)
	tx, _, err := readTx(strings.NewReader(out))
	require.NoError(t, err)
	require.NotNil(t, tx.Signature)
	assert.Equal(t, int64(3), tx.Signature.Sequence)
	assert.Equal(t, uint64(7), tx.RevokeMsg.ActionID)

	// Signing twice is not allowed.
	err = cmdSignTransaction(strings.NewReader(out), ioutil.Discard,
		[]string{"-key", keyPath, "-chain-id", testChainID, "-seq", "4"})
	assert.Error(t, err)
}

func TestTransactionView(t *testing.T) {
	out := run(t, []string{"execute", "-id", "2"}, []string{"view"})
	assert.Contains(t, out, `"execute_msg"`)
	assert.Contains(t, out, `"action_id": 2`)
}

func TestKeygenRefusesOverwrite(t *testing.T) {
	dir, err := ioutil.TempDir("", "quorumcli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path, _ := tempKey(t, dir, "owner")
	assert.Error(t, cmdKeygen(nil, ioutil.Discard, []string{"-key", path}))
}

func TestReadTxLimit(t *testing.T) {
	_, _, err := readTx(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	assert.Error(t, err)

	_, _, err = readTx(bytes.NewReader(nil))
	assert.Error(t, err)
}
