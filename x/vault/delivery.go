package vault

import (
	"context"
	"sync"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
)

// Deliverer performs the external effect of an executed action. It is
// called after the action was marked as executed, within the same atomic
// operation. Returning an error rolls back the whole execution.
type Deliverer interface {
	Deliver(ctx context.Context, db quorum.CacheableKVStore, vault quorum.Address, a *Action) error
}

// DelivererFunc allows to use a function as a Deliverer.
type DelivererFunc func(ctx context.Context, db quorum.CacheableKVStore, vault quorum.Address, a *Action) error

// Deliver calls the function.
func (fn DelivererFunc) Deliver(ctx context.Context, db quorum.CacheableKVStore, vault quorum.Address, a *Action) error {
	return fn(ctx, db, vault, a)
}

// Call is what a contract receives when an action targeting it is executed.
type Call struct {
	From    quorum.Address
	To      quorum.Address
	Value   coin.Coin
	Payload []byte
}

// Contract is code bound to an address. It is invoked when an executed
// action targets that address.
type Contract interface {
	Receive(ctx context.Context, sess *Session, call Call) error
}

// ContractFunc allows to use a function as a Contract.
type ContractFunc func(ctx context.Context, sess *Session, call Call) error

// Receive calls the function.
func (fn ContractFunc) Receive(ctx context.Context, sess *Session, call Call) error {
	return fn(ctx, sess, call)
}

// Registry maps addresses to contracts.
type Registry struct {
	mu        sync.RWMutex
	contracts map[string]Contract
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{contracts: make(map[string]Contract)}
}

// Register binds a contract to an address. It panics if the address is
// invalid or already taken.
func (r *Registry) Register(addr quorum.Address, c Contract) {
	if err := addr.Validate(); err != nil {
		panic(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contracts[string(addr)]; ok {
		panic(errors.Wrapf(errors.ErrDuplicate, "contract %s", addr))
	}
	r.contracts[string(addr)] = c
}

// Lookup returns the contract bound to given address.
func (r *Registry) Lookup(addr quorum.Address) (Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[string(addr)]
	return c, ok
}

// LedgerDeliverer moves the value from the vault wallet to the target
// wallet and, if the target is a contract, hands it the call.
// A payload sent to an address without a contract is ignored.
type LedgerDeliverer struct {
	ledger    cash.Controller
	contracts *Registry
}

var _ Deliverer = (*LedgerDeliverer)(nil)

// NewLedgerDeliverer returns a deliverer using given ledger and contracts.
func NewLedgerDeliverer(ledger cash.Controller, contracts *Registry) *LedgerDeliverer {
	return &LedgerDeliverer{ledger: ledger, contracts: contracts}
}

// Deliver implements Deliverer.
func (d *LedgerDeliverer) Deliver(ctx context.Context, db quorum.CacheableKVStore, vault quorum.Address, a *Action) error {
	if !a.Value.IsZero() {
		if err := d.ledger.Transfer(db, vault, a.Target, a.Value); err != nil {
			return errors.Wrap(err, "transfer")
		}
	}
	contract, ok := d.contracts.Lookup(a.Target)
	if !ok {
		return nil
	}
	sess, err := newSession(ctx, db, a.Target)
	if err != nil {
		return err
	}
	call := Call{
		From:    vault,
		To:      a.Target,
		Value:   a.Value,
		Payload: append([]byte(nil), a.Payload...),
	}
	return contract.Receive(ctx, sess, call)
}

// Session gives a contract access to the vault while the action targeting
// it is being executed. All operations run inside the in-flight
// transaction with the contract address as the caller. Each of them is
// atomic on its own, and all of them are discarded if the outer execution
// fails.
type Session struct {
	ctx    context.Context
	db     quorum.CacheableKVStore
	caller quorum.Address
	ctrl   *Controller
}

func withSessionFactory(ctx context.Context, c *Controller) context.Context {
	return context.WithValue(ctx, ctxKeySession, c)
}

func newSession(ctx context.Context, db quorum.CacheableKVStore, caller quorum.Address) (*Session, error) {
	c, ok := ctx.Value(ctxKeySession).(*Controller)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "no vault in the delivery context")
	}
	return &Session{ctx: ctx, db: db, caller: caller, ctrl: c}, nil
}

// Caller returns the address operations of this session are made with.
func (s *Session) Caller() quorum.Address {
	return s.caller
}

// Deposit moves coins from the contract wallet into the vault.
func (s *Session) Deposit(amount coin.Coin) (coin.Coin, error) {
	return s.ctrl.Deposit(s.ctx, s.db, s.caller, amount)
}

// Submit proposes a new action. The contract must be an owner.
func (s *Session) Submit(target quorum.Address, value coin.Coin, payload []byte) (uint64, error) {
	return s.ctrl.Submit(s.ctx, s.db, s.caller, target, value, payload)
}

// Approve approves an action. The contract must be an owner.
func (s *Session) Approve(id uint64) error {
	return s.ctrl.Approve(s.ctx, s.db, s.caller, id)
}

// Revoke revokes an approval. The contract must be an owner.
func (s *Session) Revoke(id uint64) error {
	return s.ctrl.Revoke(s.ctx, s.db, s.caller, id)
}

// Execute executes an action.
func (s *Session) Execute(id uint64) error {
	return s.ctrl.Execute(s.ctx, s.db, s.caller, id)
}

// Action returns the current state of an action.
func (s *Session) Action(id uint64) (*Action, error) {
	return s.ctrl.Action(s.db, id)
}

// Balance returns the vault balance as seen by the in-flight transaction.
func (s *Session) Balance() (coin.Coin, error) {
	return s.ctrl.Balance(s.db)
}
