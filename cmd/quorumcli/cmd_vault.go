package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/x/vault"
)

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction moving coins from the signer wallet into the vault.
`)
		fl.PrintDefaults()
	}
	var (
		amountFl = flCoin(fl, "amount", "", "Amount to deposit, for example \"10 IOV\".")
	)
	fl.Parse(args)

	return writeMsg(output, &vault.DepositMsg{Amount: amountFl})
}

func cmdSubmit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction proposing a new action. Only owners can submit. Once
executed, the value is transferred to the target and the payload is passed to
the contract bound to the target, if any.
`)
		fl.PrintDefaults()
	}
	var (
		targetFl  = flAddress(fl, "target", "", "Address that receives the value.")
		valueFl   = flCoin(fl, "value", "", "Value transferred on execution. Can be omitted.")
		payloadFl = flHex(fl, "payload", "", "Hex encoded call data.")
	)
	fl.Parse(args)

	msg := &vault.SubmitMsg{
		Target:  *targetFl,
		Payload: *payloadFl,
	}
	if !valueFl.IsZero() {
		msg.Value = valueFl
	}
	return writeMsg(output, msg)
}

func cmdApprove(input io.Reader, output io.Writer, args []string) error {
	id, err := parseActionID("Create a transaction approving an action. Only owners can approve.", args)
	if err != nil {
		return err
	}
	return writeMsg(output, &vault.ApproveMsg{ActionID: id})
}

func cmdRevoke(input io.Reader, output io.Writer, args []string) error {
	id, err := parseActionID("Create a transaction withdrawing an approval of an action that was not executed.", args)
	if err != nil {
		return err
	}
	return writeMsg(output, &vault.RevokeMsg{ActionID: id})
}

func cmdExecute(input io.Reader, output io.Writer, args []string) error {
	id, err := parseActionID(`Create a transaction executing an action that reached the quorum.

Execution is not restricted to owners, any signer can execute an approved action.`, args)
	if err != nil {
		return err
	}
	return writeMsg(output, &vault.ExecuteMsg{ActionID: id})
}

func parseActionID(description string, args []string) (uint64, error) {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "\n%s\n", description)
		fl.PrintDefaults()
	}
	var (
		idFl = fl.Int64("id", -1, "Action ID, as returned when it was submitted.")
	)
	fl.Parse(args)

	if *idFl < 0 {
		flagDie("action ID is required")
	}
	return uint64(*idFl), nil
}

func writeMsg(output io.Writer, msg quorum.Msg) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	var tx app.Tx
	if err := tx.SetMsg(msg); err != nil {
		return err
	}
	_, err := writeTx(output, &tx)
	return err
}
