package vault

import (
	"github.com/iov-one/quorum"
)

const optKey = "vault"

// DefaultName is used when the genesis does not name the vault.
const DefaultName = "vault"

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ quorum.Initializer = Initializer{}

// FromGenesis creates the vault described by the "vault" option. Without
// the option no vault is created.
func (Initializer) FromGenesis(opts quorum.Options, db quorum.KVStore) error {
	if _, ok := opts[optKey]; !ok {
		return nil
	}
	var cfg Config
	if err := opts.ReadOptions(optKey, &cfg); err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	return Initialize(db, cfg)
}
