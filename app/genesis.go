package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/vault"
)

// DefaultTicker is the currency of a development chain.
const DefaultTicker = "IOV"

// GenInitOptions will produce the app state of a development chain: a
// vault guarded by the given owners, each of them holding a rich wallet.
//
// Arguments are the ticker followed by the owner addresses. If no owner is
// given, a single owner key is generated and its private key printed.
// The quorum is a simple majority of the owners.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := DefaultTicker
	if len(args) > 0 {
		ticker = args[0]
	}
	if !coin.IsCC(ticker) {
		return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
	}

	var owners []quorum.Address
	for _, raw := range argsTail(args) {
		addr, err := quorum.ParseAddress(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "owner %q", raw)
		}
		owners = append(owners, addr)
	}
	if len(owners) == 0 {
		// if no owner provided, auto-generate one
		// and print out the private key
		addr, key, err := GenerateOwnerKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(key)
		owners = append(owners, addr)
	}

	accounts := make([]cash.GenesisAccount, len(owners))
	for i, o := range owners {
		accounts[i] = cash.GenesisAccount{
			Address: o,
			Coins:   coin.NewCoin(123456789, 0, ticker),
		}
	}
	cfg := vault.Config{
		Name:     vault.DefaultName,
		Owners:   owners,
		Required: uint32(len(owners)/2 + 1),
		Ticker:   ticker,
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "vault configuration")
	}

	type dict map[string]interface{}
	state, err := json.Marshal(dict{
		"cash":  accounts,
		"vault": cfg,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return state, nil
}

func argsTail(args []string) []string {
	if len(args) < 2 {
		return nil
	}
	return args[1:]
}

// GenerateOwnerKey returns the address of a new key along with the hex
// encoded private key, as accepted by quorumcli.
func GenerateOwnerKey() (quorum.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	addr := privKey.PublicKey().Address()
	return addr, hex.EncodeToString(privKey.Ed25519), nil
}
