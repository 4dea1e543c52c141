package vault

import (
	"context"
	"sync"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
)

// Engine owns a vault and its store. Operations are serialized, each one
// runs to completion before the next begins. Events of an operation are
// published to the listeners once it is committed.
type Engine struct {
	mu   sync.Mutex
	db   quorum.CacheableKVStore
	ctrl *Controller

	lmu       sync.RWMutex
	listeners []Listener
}

// New creates a vault in given store. Creation fails and no engine is
// returned if the configuration is invalid or the store already holds a
// vault.
func New(db quorum.CacheableKVStore, cfg Config, opts ...Option) (*Engine, error) {
	ctrl, err := NewController(cfg, opts...)
	if err != nil {
		return nil, err
	}
	cache := db.CacheWrap()
	if err := Initialize(cache, ctrl.Config()); err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, err
	}
	return &Engine{db: db, ctrl: ctrl}, nil
}

// Load opens a vault that was previously created in given store.
func Load(db quorum.CacheableKVStore, opts ...Option) (*Engine, error) {
	ctrl, err := LoadController(db, opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{db: db, ctrl: ctrl}, nil
}

// Subscribe registers a listener notified about every committed event.
func (e *Engine) Subscribe(l Listener) {
	e.lmu.Lock()
	e.listeners = append(e.listeners, l)
	e.lmu.Unlock()
}

// Controller returns the controller used by this engine.
func (e *Engine) Controller() *Controller {
	return e.ctrl
}

// Deposit moves coins from the sender wallet into the vault and returns the
// resulting balance.
func (e *Engine) Deposit(ctx context.Context, sender quorum.Address, amount coin.Coin) (coin.Coin, error) {
	var balance coin.Coin
	err := e.run(ctx, func(ctx context.Context) (err error) {
		balance, err = e.ctrl.Deposit(ctx, e.db, sender, amount)
		return err
	})
	return balance, err
}

// Submit proposes a new action and returns its id.
func (e *Engine) Submit(ctx context.Context, caller, target quorum.Address, value coin.Coin, payload []byte) (uint64, error) {
	var id uint64
	err := e.run(ctx, func(ctx context.Context) (err error) {
		id, err = e.ctrl.Submit(ctx, e.db, caller, target, value, payload)
		return err
	})
	return id, err
}

// Approve records the approval of the caller.
func (e *Engine) Approve(ctx context.Context, caller quorum.Address, id uint64) error {
	return e.run(ctx, func(ctx context.Context) error {
		return e.ctrl.Approve(ctx, e.db, caller, id)
	})
}

// Revoke withdraws the approval of the caller.
func (e *Engine) Revoke(ctx context.Context, caller quorum.Address, id uint64) error {
	return e.run(ctx, func(ctx context.Context) error {
		return e.ctrl.Revoke(ctx, e.db, caller, id)
	})
}

// Execute delivers an action that reached the quorum. The caller does not
// have to be an owner.
func (e *Engine) Execute(ctx context.Context, caller quorum.Address, id uint64) error {
	return e.run(ctx, func(ctx context.Context) error {
		return e.ctrl.Execute(ctx, e.db, caller, id)
	})
}

// Owners returns the owner list.
func (e *Engine) Owners() []quorum.Address {
	return e.ctrl.Owners()
}

// Required returns the quorum.
func (e *Engine) Required() uint32 {
	return e.ctrl.Required()
}

// Address returns the address of the vault account.
func (e *Engine) Address() quorum.Address {
	return e.ctrl.Address()
}

// Action returns the action with given id.
func (e *Engine) Action(id uint64) (*Action, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Action(e.db, id)
}

// IsApproved returns the approval flag of an owner for an action.
func (e *Engine) IsApproved(id uint64, owner quorum.Address) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.IsApproved(e.db, id, owner)
}

// ApprovalCount returns the number of owners approving an action.
func (e *Engine) ApprovalCount(id uint64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.ApprovalCount(e.db, id)
}

// Balance returns the pooled balance.
func (e *Engine) Balance() (coin.Coin, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Balance(e.db)
}

// ActionCount returns the number of submitted actions.
func (e *Engine) ActionCount() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.ActionCount(e.db)
}

// Actions returns up to limit actions starting with id offset.
func (e *Engine) Actions(offset, limit uint64) ([]Action, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Actions(e.db, offset, limit)
}

// run executes fn as a single critical section and publishes its events
// once the lock is released.
func (e *Engine) run(ctx context.Context, fn func(context.Context) error) error {
	var buf EventBuffer
	e.mu.Lock()
	err := fn(WithEventBuffer(ctx, &buf))
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.publish(buf.Events())
	return nil
}

func (e *Engine) publish(events []Event) {
	e.lmu.RLock()
	listeners := e.listeners
	e.lmu.RUnlock()
	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}
