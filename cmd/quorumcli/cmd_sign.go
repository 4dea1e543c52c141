package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The chain ID and the sequence are fetched from the node unless both are
provided.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use QUORUMCLI_TM_ADDR environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use QUORUMCLI_PRIV_KEY environment variable to set it.")
		chainFl = fl.String("chain-id", "", "Chain ID. Fetched from the node if not provided.")
		seqFl   = fl.Int64("seq", -1, "Signature sequence. Fetched from the node if not provided.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}
	if tx.Signature != nil {
		return fmt.Errorf("transaction is already signed")
	}

	chain, seq := *chainFl, *seqFl
	if chain == "" || seq < 0 {
		c := newClient(*tmAddrFl)
		if chain == "" {
			if chain, err = chainID(c); err != nil {
				return err
			}
		}
		if seq < 0 {
			if seq, err = nextSequence(c, key.PublicKey().Address()); err != nil {
				return fmt.Errorf("cannot get the next sequence number: %s", err)
			}
		}
	}

	sig, err := sigs.SignTx(key, tx, chain, seq)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signature = sig

	_, err = writeTx(output, tx)
	return err
}
