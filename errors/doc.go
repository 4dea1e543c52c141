/*
Package errors implements custom error interfaces for quorum.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when an extension has a failure mode that the
client must be able to tell apart from everything else. x/vault is a good
package to look at: every rejected state transition has its own registered
error.

If you want to register a custom error use Register(code, description).
Code is the ABCI error code, which allows distinguishing errors on the client
side and acting accordingly.

Create runtime errors by wrapping a registered one:

	errors.Wrap(errors.ErrNotFound, "wallet")
	errors.Wrapf(ErrTxNotExist, "action %d", id)

A stack trace is attached at the first wrap only. Do not declare wrapped
errors as package level variables or the trace will point at the
initialization code.

Once you have an error, use fmt to format it:

	%s is just the error message
	%+v is the message with the full stack trace

Test for an error kind with the Is method of the registered error:

	if ErrAlreadyExecuted.Is(err) { ... }
*/
package errors
