package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/iov-one/quorum/x/vault"
)

// resultParser returns a model that a query result for given path can be
// decoded into.
var resultParser = map[string]func() orm.Model{
	"/vault/config":    func() orm.Model { return &vault.Config{} },
	"/vault/actions":   func() orm.Model { return &vault.Action{} },
	"/vault/approvals": func() orm.Model { return &vault.Approval{} },
	"/vault/balance":   func() orm.Model { return &cash.Wallet{} },
	"/wallets":         func() orm.Model { return &cash.Wallet{} },
	"/sigs":            func() orm.Model { return &sigs.User{} },
}

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Query the application state and print the results as JSON, one per line.

Supported paths are /vault/config, /vault/actions, /vault/approvals,
/vault/balance, /wallets and /sigs. Query data is built from the -id and
-addr flags, or given as hex with -data.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use QUORUMCLI_TM_ADDR environment variable to set it.")
		pathFl   = fl.String("path", "/vault/config", "Query path.")
		idFl     = fl.Int64("id", -1, "Action ID, used by /vault/actions and /vault/approvals.")
		addrFl   = flAddress(fl, "addr", "", "Address, used by /vault/approvals, /wallets and /sigs.")
		dataFl   = flHex(fl, "data", "", "Raw hex encoded query data.")
		prefixFl = fl.Bool("prefix", false, "Run a prefix query.")
	)
	fl.Parse(args)

	parse, ok := resultParser[*pathFl]
	if !ok {
		flagDie("unsupported path %q", *pathFl)
	}

	data := queryData(*idFl, *addrFl, *dataFl)
	path := *pathFl
	if *prefixFl {
		path += "?" + quorum.PrefixQueryMod
	}

	models, err := abciQuery(newClient(*tmAddrFl), path, data)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(output)
	for _, m := range models {
		obj := parse()
		if err := orm.Unmarshal(m.Value, obj); err != nil {
			return fmt.Errorf("cannot decode %X: %s", m.Key, err)
		}
		err := enc.Encode(struct {
			Key   string      `json:"key"`
			Value interface{} `json:"value"`
		}{
			Key:   hex.EncodeToString(m.Key),
			Value: obj,
		})
		if err != nil {
			return fmt.Errorf("cannot JSON serialize: %s", err)
		}
	}
	return nil
}

// queryData builds the query data. Raw data takes precedence, otherwise
// the action ID is followed by the address.
func queryData(id int64, addr quorum.Address, raw []byte) []byte {
	if len(raw) != 0 {
		return raw
	}
	var data []byte
	if id >= 0 {
		data = append(data, vault.ActionKey(uint64(id))...)
	}
	return append(data, addr...)
}
