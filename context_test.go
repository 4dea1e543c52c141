package quorum_test

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextHeight(t *testing.T) {
	bg := context.Background()
	_, ok := quorum.GetHeight(bg)
	assert.False(t, ok)

	ctx := quorum.WithHeight(bg, 7)
	h, ok := quorum.GetHeight(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), h)

	assert.Panics(t, func() { quorum.WithHeight(ctx, 8) })
}

func TestContextChainID(t *testing.T) {
	bg := context.Background()
	assert.Panics(t, func() { quorum.GetChainID(bg) })
	assert.Panics(t, func() { quorum.WithChainID(bg, "no") })

	ctx := quorum.WithChainID(bg, "test-chain")
	assert.Equal(t, "test-chain", quorum.GetChainID(ctx))
	assert.Panics(t, func() { quorum.WithChainID(ctx, "other-chain") })
}

func TestContextLogger(t *testing.T) {
	bg := context.Background()
	assert.Equal(t, quorum.DefaultLogger, quorum.GetLogger(bg))

	logger := log.NewNopLogger().With("module", "test")
	ctx := quorum.WithLogger(bg, logger)
	assert.Equal(t, logger, quorum.GetLogger(ctx))

	ctx = quorum.WithLogInfo(ctx, "op", "submit")
	assert.NotNil(t, quorum.GetLogger(ctx))
}
