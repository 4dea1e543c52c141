package utils

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { h.Check(ctx, s, nil) })
	assert.Panics(t, func() { h.Deliver(ctx, s, nil) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestSavepoint(t *testing.T) {
	key, value := []byte("key"), []byte("value")

	cases := map[string]struct {
		save      Savepoint
		check     bool
		fail      bool
		wantWrite bool
	}{
		"inactive savepoint keeps writes of a failed check": {
			save:      NewSavepoint(),
			check:     true,
			fail:      true,
			wantWrite: true,
		},
		"check savepoint discards writes of a failed check": {
			save:  NewSavepoint().OnCheck(),
			check: true,
			fail:  true,
		},
		"deliver savepoint discards writes of a failed deliver": {
			save: NewSavepoint().OnDeliver(),
			fail: true,
		},
		"check savepoint does not affect deliver": {
			save:      NewSavepoint().OnCheck(),
			fail:      true,
			wantWrite: true,
		},
		"successful deliver is written": {
			save:      NewSavepoint().OnCheck().OnDeliver(),
			wantWrite: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var err error
			if tc.fail {
				err = errors.ErrState
			}
			h := writeHandler{key: key, value: value, err: err}
			db := store.MemStore()
			ctx := context.Background()

			if tc.check {
				_, err = tc.save.Check(ctx, db, nil, h)
			} else {
				_, err = tc.save.Deliver(ctx, db, nil, h)
			}
			assert.Equal(t, tc.fail, err != nil)

			got, err := db.Get(key)
			require.NoError(t, err)
			if tc.wantWrite {
				assert.Equal(t, value, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestLogging(t *testing.T) {
	l := NewLogging()
	ctx := context.Background()
	h := writeHandler{key: []byte("a"), value: []byte("b")}

	_, err := l.Check(ctx, store.MemStore(), nil, h)
	assert.NoError(t, err)
	_, err = l.Deliver(ctx, store.MemStore(), nil, writeHandler{err: errors.ErrState, key: []byte("a"), value: []byte("b")})
	assert.True(t, errors.ErrState.Is(err))
}

type panicHandler struct{}

var _ quorum.Handler = panicHandler{}

func (p panicHandler) Check(ctx quorum.Context, store quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	panic("check panic")
}

func (p panicHandler) Deliver(ctx quorum.Context, store quorum.CacheableKVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	panic("deliver panic")
}

// writeHandler writes the key, value pair and returns the error (may be nil)
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ quorum.Handler = writeHandler{}

func (h writeHandler) Check(ctx quorum.Context, store quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, h.err
}

func (h writeHandler) Deliver(ctx quorum.Context, store quorum.CacheableKVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &quorum.DeliverResult{}, h.err
}
