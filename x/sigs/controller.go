package sigs

import (
	"encoding/binary"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"golang.org/x/crypto/blake2b"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

var bucket = orm.NewModelBucket(BucketName)

// GetUser returns the state of the signer with given address. It returns
// ErrNotFound for an address that never signed anything.
func GetUser(db quorum.ReadOnlyKVStore, addr quorum.Address) (*User, error) {
	var u User
	if err := bucket.One(db, addr, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// VerifyTxSignature checks the signature of the tx and returns the address
// of the signer.
func VerifyTxSignature(db quorum.KVStore, tx SignedTx, chainID string) (quorum.Address, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return VerifySignature(db, tx.GetSignature(), bz, chainID)
}

// VerifySignature checks one signature against signbytes,
// check chain and updates state in the store
func VerifySignature(db quorum.KVStore, sig *StdSignature, signBytes []byte, chainID string) (quorum.Address, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	addr := sig.Pubkey.Address()

	user, err := GetUser(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		user = &User{}
	case err != nil:
		return nil, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	if err := user.SetPubkey(sig.Pubkey); err != nil {
		return nil, err
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if err := bucket.Put(db, addr, user); err != nil {
		return nil, err
	}
	return addr, nil
}

/*
BuildSignBytes combines all info on the actual tx before signing

We use the following format:

version | len(chainID) | chainID      | nonce             | signBytes
4bytes  | uint8        | ascii string | int64 (bigendian) | serialized transaction

This is then prehashed with blake2b-512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !quorum.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	output := make([]byte, 0, 4+1+len(chainID)+8+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, chainID...)
	output = append(output, nonce...)
	output = append(output, signBytes...)

	hashed := blake2b.Sum512(output)
	return hashed[:], nil
}

// SignTx creates a signature for the given tx
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	signBytes, err := BuildSignBytes(bz, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(signBytes)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}

// NextSequence returns the sequence the next signature of given address
// must use.
func NextSequence(db quorum.ReadOnlyKVStore, addr quorum.Address) (int64, error) {
	user, err := GetUser(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return user.Sequence, nil
}
