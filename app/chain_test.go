package app

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder appends its name to a shared log on every call.
type recorder struct {
	name string
	log  *[]string
}

func (r recorder) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx, next quorum.Checker) (*quorum.CheckResult, error) {
	*r.log = append(*r.log, r.name)
	return next.Check(ctx, db, tx)
}

func (r recorder) Deliver(ctx quorum.Context, db quorum.CacheableKVStore, tx quorum.Tx, next quorum.Deliverer) (*quorum.DeliverResult, error) {
	*r.log = append(*r.log, r.name)
	return next.Deliver(ctx, db, tx)
}

func TestChainDecoratorsOrder(t *testing.T) {
	var log []string
	var nilMetrics *Metrics

	h := &countingHandler{}
	stack := ChainDecorators(
		recorder{"a", &log},
		nil,
		nilMetrics,
		recorder{"b", &log},
	).Chain(
		recorder{"c", &log},
	).WithHandler(h)

	tx := txMock{msgMock{"test/a"}}
	_, err := stack.Deliver(context.Background(), store.MemStore(), tx)
	require.NoError(t, err)
	_, err = stack.Check(context.Background(), store.MemStore(), tx)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, log)
	assert.Equal(t, 1, h.delivers)
	assert.Equal(t, 1, h.checks)
}
