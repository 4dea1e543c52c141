package vault

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
)

// Event is a notification about a committed vault operation.
type Event interface {
	Kind() string
}

// Event kinds.
const (
	KindDeposit = "deposit"
	KindSubmit  = "submit"
	KindApprove = "approve"
	KindRevoke  = "revoke"
	KindExecute = "execute"
)

// DepositEvent is emitted when coins are moved into the vault.
type DepositEvent struct {
	Sender  quorum.Address
	Amount  coin.Coin
	Balance coin.Coin
}

func (DepositEvent) Kind() string { return KindDeposit }

// SubmitEvent is emitted when a new action is proposed.
type SubmitEvent struct {
	ID      uint64
	Target  quorum.Address
	Value   coin.Coin
	Payload []byte
}

func (SubmitEvent) Kind() string { return KindSubmit }

// ApproveEvent is emitted when an owner approves an action.
type ApproveEvent struct {
	Owner quorum.Address
	ID    uint64
}

func (ApproveEvent) Kind() string { return KindApprove }

// RevokeEvent is emitted when an owner withdraws an approval.
type RevokeEvent struct {
	Owner quorum.Address
	ID    uint64
}

func (RevokeEvent) Kind() string { return KindRevoke }

// ExecuteEvent is emitted once an action was delivered.
type ExecuteEvent struct {
	ID uint64
}

func (ExecuteEvent) Kind() string { return KindExecute }

// Listener is notified about committed events.
type Listener func(Event)

// EventBuffer collects events of an operation until it is committed.
type EventBuffer struct {
	events []Event
}

// Events returns all collected events in the order they were emitted.
func (b *EventBuffer) Events() []Event {
	return b.events
}

func (b *EventBuffer) emit(e Event) {
	b.events = append(b.events, e)
}

type ctxKey int

const (
	ctxKeyEvents ctxKey = iota
	ctxKeyDepth
	ctxKeySession
)

// WithEventBuffer returns a context collecting the events of all vault
// operations that succeed within it.
func WithEventBuffer(ctx context.Context, b *EventBuffer) context.Context {
	return context.WithValue(ctx, ctxKeyEvents, b)
}

// emit forwards events to the buffer of the context, if any.
func emit(ctx context.Context, events ...Event) {
	b, ok := ctx.Value(ctxKeyEvents).(*EventBuffer)
	if !ok {
		return
	}
	for _, e := range events {
		b.emit(e)
	}
}

func callDepth(ctx context.Context) int {
	n, _ := ctx.Value(ctxKeyDepth).(int)
	return n
}

func withCallDepth(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, ctxKeyDepth, n)
}
