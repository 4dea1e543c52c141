/*
Package app contains the ABCI application framework along with the
standard wiring of the vault application.

StoreApp and BaseApp implement the abci.Application interface on top of
a CommitKVStore. Application and GenerateApp assemble the decorator
chain, the message router and the query router used by quorumd.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/commands/server"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store/iavl"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/iov-one/quorum/x/utils"
	"github.com/iov-one/quorum/x/vault"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Name is returned by abci Info.
const Name = "quorum"

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. A nil metrics decorator is skipped.
func Chain(metrics *Metrics) Decorators {
	return ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		metrics,
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the sequence
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// VaultRouter returns a router dispatching all vault messages.
func VaultRouter(opts ...vault.Option) *Router {
	r := NewRouter()
	vault.RegisterRoutes(r, opts...)
	return r
}

// QueryRouter returns a default query router, allowing access to the
// vault, the wallets, the signature sequences and the raw store.
func QueryRouter() quorum.QueryRouter {
	r := quorum.NewQueryRouter()
	r.RegisterAll(
		vault.RegisterQuery,
		cash.RegisterQuery,
		sigs.RegisterQuery,
		RegisterRawQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(metrics *Metrics, opts ...vault.Option) quorum.Handler {
	return Chain(metrics).WithHandler(VaultRouter(opts...))
}

// Initializers returns the genesis initializers of all extensions. Wallets
// are funded before the vault is created.
func Initializers() quorum.Initializer {
	return quorum.ChainInitializers(
		cash.Initializer{},
		vault.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h quorum.Handler,
	tx quorum.TxDecoder, dbPath string, debug bool) (BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return BaseApp{}, err
	}
	store := NewStoreApp(name, kv, QueryRouter(), ctx).WithInit(Initializers())
	return NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (quorum.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	db, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "abci.db")
	}

	metrics := NewMetrics(prometheus.DefaultRegisterer)
	vaultLogger := options.Logger.With("module", "vault")
	stack := Stack(metrics, vault.WithLogger(vaultLogger))
	application, err := Application(Name, stack, TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}

	// set the logger and return
	application.WithLogger(options.Logger)
	return application, nil
}
