package sigs

import (
	"github.com/iov-one/quorum/errors"
)

// ErrInvalidSequence is returned when a signature is using a sequence that
// does not match the signer state.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
