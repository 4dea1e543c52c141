package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/vault"
)

func cmdBroadcast(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and broadcast it. The
command waits until the transaction is included in a block.

The ID of a submitted action is written out.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use QUORUMCLI_TM_ADDR environment variable to set it.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}
	raw, err := app.MarshalTx(tx)
	if err != nil {
		return fmt.Errorf("cannot serialize transaction: %s", err)
	}

	resp, err := newClient(*tmAddrFl).BroadcastTxCommit(raw)
	if err != nil {
		return fmt.Errorf("cannot broadcast transaction: %s", err)
	}
	if c := resp.CheckTx; c.Code != 0 {
		return fmt.Errorf("check failed: %s", errors.ABCIError(c.Code, c.Log))
	}
	if d := resp.DeliverTx; d.Code != 0 {
		return fmt.Errorf("deliver failed: %s", errors.ABCIError(d.Code, d.Log))
	}

	if tx.SubmitMsg != nil {
		id, err := vault.ParseID(resp.DeliverTx.Data)
		if err != nil {
			return fmt.Errorf("cannot decode action ID: %s", err)
		}
		_, err = fmt.Fprintln(output, id)
		return err
	}
	return nil
}
