package vault

import (
	"context"
	"strconv"
	"sync"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r quorum.Registry, opts ...Option) {
	h := &handler{opts: opts}
	r.Handle(PathDeposit, h)
	r.Handle(PathSubmit, h)
	r.Handle(PathApprove, h)
	r.Handle(PathRevoke, h)
	r.Handle(PathExecute, h)
}

// handler routes all vault messages to the controller. The controller is
// loaded from the store on first use, the configuration never changes
// afterwards.
type handler struct {
	opts []Option

	mu   sync.Mutex
	ctrl *Controller
}

var _ quorum.Handler = (*handler)(nil)

func (h *handler) controller(db quorum.ReadOnlyKVStore) (*Controller, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctrl != nil {
		return h.ctrl, nil
	}
	ctrl, err := LoadController(db, h.opts...)
	if err != nil {
		return nil, err
	}
	h.ctrl = ctrl
	return ctrl, nil
}

// Check validates the message and rejects operations restricted to owners
// when the signer is not one of them.
func (h *handler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	msg, signer, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	ctrl, err := h.controller(db)
	if err != nil {
		return nil, err
	}
	switch msg.(type) {
	case *SubmitMsg, *ApproveMsg, *RevokeMsg:
		if !ctrl.IsOwner(signer) {
			return nil, errors.Wrapf(ErrNotOwner, "%s", signer)
		}
	}
	return &quorum.CheckResult{}, nil
}

// Deliver runs the operation and reports its events as tags.
func (h *handler) Deliver(ctx quorum.Context, db quorum.CacheableKVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	ctrl, err := h.controller(db)
	if err != nil {
		return nil, err
	}

	var buf EventBuffer
	ctx = WithEventBuffer(ctx, &buf)
	res := &quorum.DeliverResult{}

	switch msg := msg.(type) {
	case *DepositMsg:
		balance, err := ctrl.Deposit(ctx, db, signer, *msg.Amount)
		if err != nil {
			return nil, err
		}
		res.Log = balance.String()
	case *SubmitMsg:
		a := msg.Action()
		id, err := ctrl.Submit(ctx, db, signer, a.Target, a.Value, a.Payload)
		if err != nil {
			return nil, err
		}
		res.Data = ActionKey(id)
	case *ApproveMsg:
		if err := ctrl.Approve(ctx, db, signer, msg.ActionID); err != nil {
			return nil, err
		}
	case *RevokeMsg:
		if err := ctrl.Revoke(ctx, db, signer, msg.ActionID); err != nil {
			return nil, err
		}
	case *ExecuteMsg:
		if err := ctrl.Execute(ctx, db, signer, msg.ActionID); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message %T", msg)
	}

	res.Tags = EventTags(buf.Events())
	return res, nil
}

func (h *handler) validate(ctx context.Context, tx quorum.Tx) (quorum.Msg, quorum.Address, error) {
	signer, ok := quorum.GetSigner(ctx)
	if !ok {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load message")
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid message")
	}
	return msg, signer, nil
}

// EventTags converts events into tags indexed by tendermint. Every event
// contributes a vault.op tag; action ids and addresses are added when the
// event carries them.
func EventTags(events []Event) []common.KVPair {
	var tags []common.KVPair
	add := func(k, v string) {
		tags = append(tags, common.KVPair{Key: []byte(k), Value: []byte(v)})
	}
	for _, ev := range events {
		add("vault.op", ev.Kind())
		switch ev := ev.(type) {
		case DepositEvent:
			add("vault.sender", ev.Sender.String())
		case SubmitEvent:
			add("vault.action", formatID(ev.ID))
			add("vault.target", ev.Target.String())
		case ApproveEvent:
			add("vault.action", formatID(ev.ID))
			add("vault.owner", ev.Owner.String())
		case RevokeEvent:
			add("vault.action", formatID(ev.ID))
			add("vault.owner", ev.Owner.String())
		case ExecuteEvent:
			add("vault.action", formatID(ev.ID))
		}
	}
	return tags
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ParseID decodes an action id from its database key.
func ParseID(raw []byte) (uint64, error) {
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "action id of %d bytes", len(raw))
	}
	n, err := orm.DecodeSequence(raw)
	return uint64(n), err
}
