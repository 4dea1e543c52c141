package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type txMock struct {
	*signedTx
}

func (txMock) GetMsg() (quorum.Msg, error) { return nil, nil }

type unsignedTx struct{}

func (unsignedTx) GetMsg() (quorum.Msg, error) { return nil, nil }

// signerHandler records the signer found in the context.
type signerHandler struct {
	signer quorum.Address
}

func (h *signerHandler) Check(ctx quorum.Context, store quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	h.signer, _ = quorum.GetSigner(ctx)
	return &quorum.CheckResult{}, nil
}

func (h *signerHandler) Deliver(ctx quorum.Context, store quorum.CacheableKVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	h.signer, _ = quorum.GetSigner(ctx)
	return &quorum.DeliverResult{}, nil
}

func TestDecorator(t *testing.T) {
	key := quorumtest.NewKey()
	addr := key.PublicKey().Address()
	ctx := quorum.WithChainID(context.Background(), chainID)
	db := store.MemStore()
	d := NewDecorator()

	var h signerHandler
	tx := txMock{sign(t, key, []byte("deposit"), chainID, 0)}
	_, err := d.Check(ctx, db, tx, &h)
	require.NoError(t, err)
	assert.Equal(t, addr, h.signer)

	// Check consumed the sequence in this store, so the replay fails.
	_, err = d.Deliver(ctx, db, tx, &h)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	h = signerHandler{}
	_, err = d.Deliver(ctx, db, txMock{sign(t, key, []byte("deposit"), chainID, 1)}, &h)
	require.NoError(t, err)
	assert.Equal(t, addr, h.signer)

	_, err = d.Check(ctx, db, unsignedTx{}, &h)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = d.Check(ctx, db, txMock{&signedTx{payload: []byte("x")}}, &h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}
