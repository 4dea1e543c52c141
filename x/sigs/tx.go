package sigs

import (
	"fmt"

	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
)

// SignedTx represents a transaction that contains a signature.
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without the signature.
	GetSignBytes() ([]byte, error)

	// GetSignature returns the signature of the transaction author.
	GetSignature() *StdSignature
}

// StdSignature is attached to every transaction.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,3,opt,name=signature" json:"signature,omitempty"`
}

// Reset implements proto.Message.
func (s *StdSignature) Reset() { *s = StdSignature{} }

// String implements proto.Message.
func (s *StdSignature) String() string {
	return fmt.Sprintf("StdSignature{Sequence: %d, Pubkey: %s}", s.Sequence, s.Pubkey)
}

// ProtoMessage implements proto.Message.
func (*StdSignature) ProtoMessage() {}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if s.Signature == nil || len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature bytes")
	}
	return nil
}
