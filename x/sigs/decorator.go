package sigs

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

//----------------- Decorator ----------------
//
// This is just a binding from the functionality into the
// Application stack, not much business logic here.

// Decorator verifies the signature and puts the signer into the context
type Decorator struct{}

var _ quorum.Decorator = Decorator{}

// NewDecorator returns an authentication decorator, which appends the
// chain id before checking the signature. A signature is always required.
func NewDecorator() Decorator {
	return Decorator{}
}

// Check verifies the signature before calling down the stack.
func (d Decorator) Check(ctx quorum.Context, store quorum.KVStore, tx quorum.Tx, next quorum.Checker) (*quorum.CheckResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

// Deliver verifies the signature before calling down the stack.
func (d Decorator) Deliver(ctx quorum.Context, store quorum.CacheableKVStore, tx quorum.Tx, next quorum.Deliverer) (*quorum.DeliverResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (Decorator) authenticate(ctx quorum.Context, store quorum.KVStore, tx quorum.Tx) (quorum.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "transaction cannot be signed")
	}
	signer, err := VerifyTxSignature(store, stx, quorum.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signature")
	}
	return quorum.WithSigner(ctx, signer), nil
}
