package vault

import (
	"github.com/iov-one/quorum/errors"
)

// vault takes 1100-1106
var (
	// ErrNotOwner is returned when the caller is not one of the vault
	// owners.
	ErrNotOwner = errors.Register(1100, "not an owner")

	// ErrTxNotExist is returned when an action with given id was never
	// submitted.
	ErrTxNotExist = errors.Register(1101, "action does not exist")

	ErrAlreadyApproved       = errors.Register(1102, "already approved")
	ErrNotApprovedYet        = errors.Register(1103, "not approved yet")
	ErrAlreadyExecuted       = errors.Register(1104, "already executed")
	ErrInsufficientApprovals = errors.Register(1105, "insufficient approvals")

	// ErrExecutionFailed is returned when the effect of an action could not
	// be delivered to its target. The whole execution is rolled back.
	ErrExecutionFailed = errors.Register(1106, "execution failed")
)
