package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/quorum/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// AppStateKey is the key in the genesis json where all info
	// on initializing the app can be found
	AppStateKey = "app_state"
	// DirConfig is the tendermint configuration directory of a home
	DirConfig = "config"
	// GenesisTimeKey is used by tendermint to order genesis files
	GenesisTimeKey     = "genesis_time"
	flagIgnoreAppState = "i"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will initialize all files for tendermint,
// along with proper app_state.
// The application can pass in a function to generate
// proper state. And may want to use GenerateCoinKey
// to create default account(s).
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	ignoreAppState := initFlags.Bool(flagIgnoreAppState, false, "ignore existing app_state in genesis")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	// no app_state, leave like tendermint
	if gen == nil {
		return nil
	}

	// Now, we want to add the custom app_state
	appState, err := gen(initFlags.Args())
	if err != nil {
		return err
	}

	// And add them to the genesis file
	genFile := filepath.Join(home, DirConfig, "genesis.json")
	if err := addGenesisOptions(genFile, appState, *ignoreAppState); err != nil {
		return err
	}
	logger.Info("App initialized", "genesis", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, appState json.RawMessage, overwrite bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "%s, run tendermint init first", filename)
		}
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %s: %s", filename, err)
	}

	if v, ok := doc[AppStateKey]; ok && len(v) > 0 && string(v) != "null" && !overwrite {
		return errors.Wrapf(errors.ErrState, "app_state already set in %s, use -%s to overwrite", filename, flagIgnoreAppState)
	}

	doc[AppStateKey] = appState
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, fmt.Sprintf("cannot serialize genesis: %s", err))
	}
	return ioutil.WriteFile(filename, out, 0600)
}
