package vault

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/iov-one/quorum/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractReceivesCall(t *testing.T) {
	ctx := context.Background()
	target := quorumtest.Addr("contract")

	var calls []Call
	contracts := NewRegistry()
	contracts.Register(target, ContractFunc(func(ctx context.Context, sess *Session, call Call) error {
		calls = append(calls, call)
		assert.Equal(t, target, sess.Caller())

		// The transfer is already visible to the contract.
		balance, err := sess.Balance()
		require.NoError(t, err)
		assert.Equal(t, iov(7), balance)
		return nil
	}))

	ctrl, db := newTestVault(t, 1, iov(10), WithContracts(contracts))
	id, err := ctrl.Submit(ctx, db, alice, target, iov(3), []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, ctrl.Approve(ctx, db, alice, id))
	require.NoError(t, ctrl.Execute(ctx, db, dave, id))

	require.Len(t, calls, 1)
	assert.Equal(t, Call{From: ctrl.Address(), To: target, Value: iov(3), Payload: []byte("hello")}, calls[0])

	got, err := cash.NewController().Balance(db, target)
	require.NoError(t, err)
	assert.Equal(t, iov(3), got)
}

func TestPayloadToPlainAddressIsIgnored(t *testing.T) {
	ctx := context.Background()
	ctrl, db := newTestVault(t, 1, iov(10))
	id, err := ctrl.Submit(ctx, db, alice, carol, iov(1), []byte("nobody listens"))
	require.NoError(t, err)
	require.NoError(t, ctrl.Approve(ctx, db, bob, id))
	require.NoError(t, ctrl.Execute(ctx, db, bob, id))
}

func TestContractFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	target := quorumtest.Addr("contract")

	fail := true
	contracts := NewRegistry()
	contracts.Register(target, ContractFunc(func(ctx context.Context, sess *Session, call Call) error {
		// Changes made before failing must be discarded as well.
		if _, err := sess.Deposit(iov(1)); err != nil {
			return err
		}
		if fail {
			return errors.Wrap(errors.ErrState, "not today")
		}
		return nil
	}))

	ctrl, db := newTestVault(t, 1, iov(10), WithContracts(contracts))
	id, err := ctrl.Submit(ctx, db, alice, target, iov(5), nil)
	require.NoError(t, err)
	require.NoError(t, ctrl.Approve(ctx, db, alice, id))

	rec := store.NewRecordingStore(db)
	err = ctrl.Execute(ctx, rec, alice, id)
	assert.True(t, ErrExecutionFailed.Is(err), "got %+v", err)
	assert.Empty(t, rec.KVPairs())

	a, err := ctrl.Action(db, id)
	require.NoError(t, err)
	assert.False(t, a.Executed)
	balance, err := ctrl.Balance(db)
	require.NoError(t, err)
	assert.Equal(t, iov(10), balance)

	// Once the contract accepts the call the action can be executed.
	fail = false
	require.NoError(t, ctrl.Execute(ctx, db, alice, id))
	balance, err = ctrl.Balance(db)
	require.NoError(t, err)
	assert.Equal(t, iov(6), balance)
}

func TestReentrantExecute(t *testing.T) {
	ctx := context.Background()
	target := quorumtest.Addr("contract")

	var reentryErr error
	contracts := NewRegistry()
	contracts.Register(target, ContractFunc(func(ctx context.Context, sess *Session, call Call) error {
		reentryErr = sess.Execute(0)
		return nil
	}))

	ctrl, db := newTestVault(t, 1, iov(10), WithContracts(contracts))
	id, err := ctrl.Submit(ctx, db, alice, target, iov(5), nil)
	require.NoError(t, err)
	require.NoError(t, ctrl.Approve(ctx, db, alice, id))
	require.NoError(t, ctrl.Execute(ctx, db, alice, id))

	assert.True(t, ErrAlreadyExecuted.Is(reentryErr), "got %+v", reentryErr)

	// Value was delivered exactly once.
	got, err := cash.NewController().Balance(db, target)
	require.NoError(t, err)
	assert.Equal(t, iov(5), got)
}

// A contract owning the vault keeps proposing and executing new actions
// targeting itself, until the call depth limit stops it.
func TestCallDepthLimit(t *testing.T) {
	ctx := context.Background()
	self := quorumtest.Addr("recursive")

	var depthErr error
	contracts := NewRegistry()
	contracts.Register(self, ContractFunc(func(ctx context.Context, sess *Session, call Call) error {
		id, err := sess.Submit(self, coin.Coin{}, nil)
		if err != nil {
			return err
		}
		if err := sess.Approve(id); err != nil {
			return err
		}
		if err := sess.Execute(id); err != nil {
			depthErr = err
		}
		return nil
	}))

	cfg := Config{Name: "deep", Owners: []quorum.Address{self}, Required: 1, Ticker: "IOV"}
	ctrl, err := NewController(cfg, WithContracts(contracts))
	require.NoError(t, err)
	db := store.MemStore()
	require.NoError(t, Initialize(db, cfg))

	id, err := ctrl.Submit(ctx, db, self, self, coin.Coin{}, nil)
	require.NoError(t, err)
	require.NoError(t, ctrl.Approve(ctx, db, self, id))
	require.NoError(t, ctrl.Execute(ctx, db, dave, id))

	assert.True(t, ErrExecutionFailed.Is(depthErr), "got %+v", depthErr)

	n, err := ctrl.ActionCount(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(MaxCallDepth+1), n)

	actions, err := ctrl.Actions(db, 0, 0)
	require.NoError(t, err)
	for i, a := range actions {
		assert.Equal(t, i < MaxCallDepth, a.Executed, "action %d", i)
	}
}

func TestCustomDeliverer(t *testing.T) {
	ctx := context.Background()
	var delivered []Action
	d := DelivererFunc(func(ctx context.Context, db quorum.CacheableKVStore, vault quorum.Address, a *Action) error {
		delivered = append(delivered, *a)
		return nil
	})

	ctrl, db := newTestVault(t, 1, iov(10), WithDeliverer(d))
	id, err := ctrl.Submit(ctx, db, alice, carol, iov(5), nil)
	require.NoError(t, err)
	require.NoError(t, ctrl.Approve(ctx, db, alice, id))
	require.NoError(t, ctrl.Execute(ctx, db, alice, id))

	require.Len(t, delivered, 1)
	assert.True(t, delivered[0].Executed)

	// The deliverer did not move any coins.
	balance, err := ctrl.Balance(db)
	require.NoError(t, err)
	assert.Equal(t, iov(10), balance)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	c := ContractFunc(func(context.Context, *Session, Call) error { return nil })
	r.Register(carol, c)

	_, ok := r.Lookup(carol)
	assert.True(t, ok)
	_, ok = r.Lookup(dave)
	assert.False(t, ok)

	assert.Panics(t, func() { r.Register(carol, c) })
	assert.Panics(t, func() { r.Register(quorum.Address("bad"), c) })
}

// recordingLedger remembers every transfer before passing it on.
type recordingLedger struct {
	cash.Controller
	transfers []string
}

func (l *recordingLedger) Transfer(db quorum.KVStore, src, dst quorum.Address, amount coin.Coin) error {
	l.transfers = append(l.transfers, src.String()+">"+dst.String()+" "+amount.String())
	return l.Controller.Transfer(db, src, dst, amount)
}

func TestCustomLedger(t *testing.T) {
	ctx := context.Background()
	ledger := &recordingLedger{Controller: cash.NewController()}
	ctrl, db := newTestVault(t, 1, coin.Coin{}, WithLedger(ledger))
	require.NoError(t, cash.NewController().Issue(db, dave, iov(10)))

	balance, err := ctrl.Deposit(ctx, db, dave, iov(4))
	require.NoError(t, err)
	assert.Equal(t, iov(4), balance)

	id, err := ctrl.Submit(ctx, db, alice, carol, iov(3), nil)
	require.NoError(t, err)
	require.NoError(t, ctrl.Approve(ctx, db, alice, id))
	require.NoError(t, ctrl.Execute(ctx, db, bob, id))

	vaultAddr := ctrl.Address().String()
	assert.Equal(t, []string{
		dave.String() + ">" + vaultAddr + " 4 IOV",
		vaultAddr + ">" + carol.String() + " 3 IOV",
	}, ledger.transfers)

	got, err := ledger.Balance(db, carol)
	require.NoError(t, err)
	assert.Equal(t, iov(3), got)
}
