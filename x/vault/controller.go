package vault

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
	"github.com/tendermint/tendermint/libs/log"
)

// MaxCallDepth limits how deep contracts may call back into the vault from
// within an execution.
const MaxCallDepth = 8

// Controller implements the vault operations. It holds no state other than
// the immutable configuration, all data is read from and written to the
// store passed to each call.
//
// Every operation runs in its own cache wrap of the given store. It is
// written only when the operation succeeds, so a failed call never leaves a
// partial change behind.
type Controller struct {
	cfg     Config
	owners  OwnerSet
	address quorum.Address
	ledger  cash.Controller
	deliver Deliverer
	logger  log.Logger
}

// NewController returns a controller for the given configuration. It fails
// if the owner list is empty, contains duplicates or the quorum is not
// within 1 and the number of owners.
func NewController(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "vault configuration")
	}
	owners, err := NewOwnerSet(cfg.Owners)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	cfg.Owners = owners.Owners()
	return &Controller{
		cfg:     cfg,
		owners:  owners,
		address: cfg.Address(),
		ledger:  o.ledger,
		deliver: o.deliverer,
		logger:  o.logger,
	}, nil
}

// LoadController returns a controller for the vault configured in given
// store.
func LoadController(db quorum.ReadOnlyKVStore, opts ...Option) (*Controller, error) {
	cfg, err := LoadConfig(db)
	if err != nil {
		return nil, err
	}
	return NewController(*cfg, opts...)
}

// LoadConfig returns the configuration persisted by Initialize.
func LoadConfig(db quorum.ReadOnlyKVStore) (*Config, error) {
	var cfg Config
	switch err := configBucket.One(db, configKey, &cfg); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(errors.ErrState, "vault not initialized")
	case err != nil:
		return nil, err
	}
	return &cfg, nil
}

// Initialize persists the vault configuration. It can be done only once.
func Initialize(db quorum.KVStore, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "vault configuration")
	}
	switch ok, err := configBucket.Has(db, configKey); {
	case err != nil:
		return err
	case ok:
		return errors.Wrap(errors.ErrState, "vault already initialized")
	}
	return configBucket.Put(db, configKey, &cfg)
}

// Config returns a copy of the vault configuration.
func (c *Controller) Config() Config {
	cfg := c.cfg
	cfg.Owners = c.owners.Owners()
	return cfg
}

// Owners returns the current owner list.
func (c *Controller) Owners() []quorum.Address {
	return c.owners.Owners()
}

// IsOwner returns true if given address belongs to the owner set.
func (c *Controller) IsOwner(addr quorum.Address) bool {
	return c.owners.Contains(addr)
}

// Required returns the quorum.
func (c *Controller) Required() uint32 {
	return c.cfg.Required
}

// Address returns the address of the account holding the pooled balance.
func (c *Controller) Address() quorum.Address {
	return c.address
}

// Deposit moves coins from the sender wallet into the vault. No approval is
// needed. A deposit of zero moves nothing but is still recorded with an
// event. It returns the resulting vault balance.
func (c *Controller) Deposit(ctx context.Context, db quorum.CacheableKVStore, sender quorum.Address, amount coin.Coin) (coin.Coin, error) {
	var balance coin.Coin
	err := c.atomic(ctx, db, func(ctx context.Context, db quorum.KVCacheWrap) error {
		if err := sender.Validate(); err != nil {
			return errors.Wrap(err, "sender")
		}
		switch {
		case amount.IsZero():
			amount.Ticker = c.cfg.Ticker
		case amount.Ticker != c.cfg.Ticker:
			return errors.Wrapf(errors.ErrCurrency, "vault holds %s, got %q", c.cfg.Ticker, amount.Ticker)
		case !amount.IsPositive():
			return errors.Wrapf(errors.ErrAmount, "negative deposit %s", amount)
		default:
			if err := c.ledger.Transfer(db, sender, c.address, amount); err != nil {
				return errors.Wrap(err, "deposit")
			}
		}
		b, err := c.Balance(db)
		if err != nil {
			return err
		}
		balance = b
		emit(ctx, DepositEvent{
			Sender:  sender,
			Amount:  amount,
			Balance: balance,
		})
		c.log(ctx).Debug("vault deposit", "sender", sender, "amount", amount, "balance", balance)
		return nil
	})
	return balance, err
}

// Submit appends a new action and returns its id. Only owners can submit.
// No approval is set, not even for the submitter, and no coins are moved.
func (c *Controller) Submit(ctx context.Context, db quorum.CacheableKVStore, caller, target quorum.Address, value coin.Coin, payload []byte) (uint64, error) {
	var id uint64
	err := c.atomic(ctx, db, func(ctx context.Context, db quorum.KVCacheWrap) error {
		if !c.owners.Contains(caller) {
			return errors.Wrapf(ErrNotOwner, "submit by %s", caller)
		}
		action := Action{
			Target:  target,
			Value:   value,
			Payload: append([]byte(nil), payload...),
		}
		if err := action.Validate(); err != nil {
			return err
		}
		if !value.IsZero() && value.Ticker != c.cfg.Ticker {
			return errors.Field("Value", errors.ErrCurrency, "vault holds %s", c.cfg.Ticker)
		}
		seq, err := actionSeq.NextInt(db)
		if err != nil {
			return err
		}
		id = uint64(seq - 1)
		if err := actionBucket.Put(db, ActionKey(id), &action); err != nil {
			return err
		}
		emit(ctx, SubmitEvent{
			ID:      id,
			Target:  action.Target,
			Value:   action.Value,
			Payload: action.Payload,
		})
		c.log(ctx).Debug("vault submit", "id", id, "caller", caller, "target", target, "value", value)
		return nil
	})
	return id, err
}

// Approve records the consent of the caller. Executed actions can be
// approved as well, it has no further effect.
func (c *Controller) Approve(ctx context.Context, db quorum.CacheableKVStore, caller quorum.Address, id uint64) error {
	return c.atomic(ctx, db, func(ctx context.Context, db quorum.KVCacheWrap) error {
		if !c.owners.Contains(caller) {
			return errors.Wrapf(ErrNotOwner, "approve by %s", caller)
		}
		if _, err := c.Action(db, id); err != nil {
			return err
		}
		approved, err := c.approved(db, id, caller)
		if err != nil {
			return err
		}
		if approved {
			return errors.Wrapf(ErrAlreadyApproved, "action %d by %s", id, caller)
		}
		if err := approvalBucket.Put(db, ApprovalKey(id, caller), &Approval{Approved: true}); err != nil {
			return err
		}
		emit(ctx, ApproveEvent{Owner: caller, ID: id})
		c.log(ctx).Debug("vault approve", "id", id, "caller", caller)
		return nil
	})
}

// Revoke withdraws the consent of the caller given to an action that was
// not executed yet.
func (c *Controller) Revoke(ctx context.Context, db quorum.CacheableKVStore, caller quorum.Address, id uint64) error {
	return c.atomic(ctx, db, func(ctx context.Context, db quorum.KVCacheWrap) error {
		if !c.owners.Contains(caller) {
			return errors.Wrapf(ErrNotOwner, "revoke by %s", caller)
		}
		action, err := c.Action(db, id)
		if err != nil {
			return err
		}
		if action.Executed {
			return errors.Wrapf(ErrAlreadyExecuted, "action %d", id)
		}
		approved, err := c.approved(db, id, caller)
		if err != nil {
			return err
		}
		if !approved {
			return errors.Wrapf(ErrNotApprovedYet, "action %d by %s", id, caller)
		}
		if err := approvalBucket.Put(db, ApprovalKey(id, caller), &Approval{Approved: false}); err != nil {
			return err
		}
		emit(ctx, RevokeEvent{Owner: caller, ID: id})
		c.log(ctx).Debug("vault revoke", "id", id, "caller", caller)
		return nil
	})
}

// Execute delivers the action once enough owners approved it.
//
// The caller is not required to be an owner. Anyone may finalize an action
// that already reached the quorum.
//
// The action is marked as executed before its value and payload are
// delivered, so a target calling back into Execute for the same id fails
// with ErrAlreadyExecuted. If the delivery fails, the whole execution
// including the executed flag is rolled back.
func (c *Controller) Execute(ctx context.Context, db quorum.CacheableKVStore, caller quorum.Address, id uint64) error {
	return c.atomic(ctx, db, func(ctx context.Context, db quorum.KVCacheWrap) error {
		action, err := c.Action(db, id)
		if err != nil {
			return err
		}
		if action.Executed {
			return errors.Wrapf(ErrAlreadyExecuted, "action %d", id)
		}
		n, err := c.ApprovalCount(db, id)
		if err != nil {
			return err
		}
		if n < int(c.cfg.Required) {
			return errors.Wrapf(ErrInsufficientApprovals, "%d of %d", n, c.cfg.Required)
		}

		action.Executed = true
		if err := actionBucket.Put(db, ActionKey(id), action); err != nil {
			return err
		}

		depth := callDepth(ctx)
		if depth >= MaxCallDepth {
			return errors.Wrapf(ErrExecutionFailed, "call depth %d exceeded", MaxCallDepth)
		}
		dctx := withSessionFactory(withCallDepth(ctx, depth+1), c)
		if err := c.deliver.Deliver(dctx, db, c.address, action); err != nil {
			return errors.Wrapf(ErrExecutionFailed, "action %d: %s", id, err)
		}

		emit(ctx, ExecuteEvent{ID: id})
		c.log(ctx).Info("vault execute", "id", id, "caller", caller, "target", action.Target, "value", action.Value)
		return nil
	})
}

// Action returns the action with given id or ErrTxNotExist.
func (c *Controller) Action(db quorum.ReadOnlyKVStore, id uint64) (*Action, error) {
	var a Action
	switch err := actionBucket.One(db, ActionKey(id), &a); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrTxNotExist, "action %d", id)
	case err != nil:
		return nil, err
	}
	return &a, nil
}

// IsApproved returns the approval flag of an owner for an action.
func (c *Controller) IsApproved(db quorum.ReadOnlyKVStore, id uint64, owner quorum.Address) (bool, error) {
	if _, err := c.Action(db, id); err != nil {
		return false, err
	}
	return c.approved(db, id, owner)
}

func (c *Controller) approved(db quorum.ReadOnlyKVStore, id uint64, owner quorum.Address) (bool, error) {
	var a Approval
	switch err := approvalBucket.One(db, ApprovalKey(id, owner), &a); {
	case errors.ErrNotFound.Is(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return a.Approved, nil
}

// ApprovalCount returns the number of owners currently approving an action.
func (c *Controller) ApprovalCount(db quorum.ReadOnlyKVStore, id uint64) (int, error) {
	if _, err := c.Action(db, id); err != nil {
		return 0, err
	}
	var n int
	for _, o := range c.owners.list {
		ok, err := c.approved(db, id, o)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// Balance returns the pooled balance.
func (c *Controller) Balance(db quorum.ReadOnlyKVStore) (coin.Coin, error) {
	b, err := c.ledger.Balance(db, c.address)
	if err != nil {
		return coin.Coin{}, err
	}
	if b.IsZero() {
		return coin.NewCoin(0, 0, c.cfg.Ticker), nil
	}
	return b, nil
}

// ActionCount returns the number of submitted actions. Valid ids are
// 0 <= id < ActionCount.
func (c *Controller) ActionCount(db quorum.ReadOnlyKVStore) (uint64, error) {
	n, err := actionSeq.Latest(db)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// Actions returns up to limit actions, starting with the given id. The id of
// an action is its position in the result plus the offset.
func (c *Controller) Actions(db quorum.ReadOnlyKVStore, offset, limit uint64) ([]Action, error) {
	total, err := c.ActionCount(db)
	if err != nil {
		return nil, err
	}
	if offset >= total {
		return nil, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	res := make([]Action, 0, end-offset)
	for id := offset; id < end; id++ {
		a, err := c.Action(db, id)
		if err != nil {
			return nil, err
		}
		res = append(res, *a)
	}
	return res, nil
}

// atomic runs fn in a cache wrap of db. Changes and events are kept only if
// fn succeeds.
func (c *Controller) atomic(ctx context.Context, db quorum.CacheableKVStore, fn func(context.Context, quorum.KVCacheWrap) error) error {
	cache := db.CacheWrap()
	var buf EventBuffer
	if err := fn(WithEventBuffer(ctx, &buf), cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	emit(ctx, buf.Events()...)
	return nil
}

func (c *Controller) log(ctx context.Context) log.Logger {
	if c.logger != nil {
		return c.logger
	}
	return quorum.GetLogger(ctx)
}
