package quorumtest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
)

var keySeq uint64

// NewKey returns a new private key. Keys are derived from a process wide
// counter, so every call returns a different key and test runs are
// reproducible.
func NewKey() *crypto.PrivateKey {
	n := atomic.AddUint64(&keySeq, 1)
	seed := make([]byte, 32)
	binary.BigEndian.PutUint64(seed[24:], n)
	copy(seed, "quorumtest")
	return crypto.PrivKeyEd25519FromSeed(seed)
}

// NewCondition returns the signature condition of a new key.
func NewCondition() quorum.Condition {
	return NewKey().PublicKey().Condition()
}

// NewAddress returns the address of a new key.
func NewAddress() quorum.Address {
	return NewCondition().Address()
}
