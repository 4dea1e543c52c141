package sigs

import (
	"bytes"

	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is 2^53 - 1.
const maxSequenceValue = (1 << 53) - 1

// User is the signer state. Pubkey is set with the first signature and
// never changes afterwards.
type User struct {
	Pubkey   []byte `json:"pubkey"`
	Sequence int64  `json:"sequence"`
}

// Validate returns an error if the user state is not consistent.
func (u *User) Validate() error {
	var errs error
	if u.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	} else if u.Sequence > 0 && len(u.Pubkey) == 0 {
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	if len(u.Pubkey) != 0 {
		pub := crypto.PublicKey{Ed25519: u.Pubkey}
		errs = errors.AppendField(errs, "Pubkey", pub.Validate())
	}
	return errs
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *User) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// SetPubkey assigns the key on the first use. It is illegal to change an
// already set key.
func (u *User) SetPubkey(pubkey *crypto.PublicKey) error {
	if len(u.Pubkey) == 0 {
		u.Pubkey = pubkey.Ed25519
		return nil
	}
	if !bytes.Equal(u.Pubkey, pubkey.Ed25519) {
		return errors.Wrap(errors.ErrImmutable, "pubkey")
	}
	return nil
}
