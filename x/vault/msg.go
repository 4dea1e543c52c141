package vault

import (
	"fmt"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
)

// Message paths.
const (
	PathDeposit = "vault/deposit"
	PathSubmit  = "vault/submit"
	PathApprove = "vault/approve"
	PathRevoke  = "vault/revoke"
	PathExecute = "vault/execute"
)

// DepositMsg moves coins from the signer wallet into the vault.
type DepositMsg struct {
	Amount *coin.Coin `protobuf:"bytes,1,opt,name=amount" json:"amount,omitempty"`
}

var _ quorum.Msg = (*DepositMsg)(nil)

func (m *DepositMsg) Reset()         { *m = DepositMsg{} }
func (m *DepositMsg) String() string { return fmt.Sprintf("DepositMsg{%s}", m.Amount) }
func (*DepositMsg) ProtoMessage()    {}

// Path implements quorum.Msg.
func (DepositMsg) Path() string { return PathDeposit }

// Validate implements quorum.Msg.
func (m *DepositMsg) Validate() error {
	if m.Amount == nil {
		return errors.Field("Amount", errors.ErrEmpty, "required")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Field("Amount", err, "invalid amount")
	}
	if !m.Amount.IsNonNegative() {
		return errors.Field("Amount", errors.ErrAmount, "must not be negative")
	}
	return nil
}

// SubmitMsg proposes a new action.
type SubmitMsg struct {
	Target  []byte     `protobuf:"bytes,1,opt,name=target,proto3" json:"target,omitempty"`
	Value   *coin.Coin `protobuf:"bytes,2,opt,name=value" json:"value,omitempty"`
	Payload []byte     `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
}

var _ quorum.Msg = (*SubmitMsg)(nil)

func (m *SubmitMsg) Reset() { *m = SubmitMsg{} }
func (m *SubmitMsg) String() string {
	return fmt.Sprintf("SubmitMsg{%s %s %X}", quorum.Address(m.Target), m.Value, m.Payload)
}
func (*SubmitMsg) ProtoMessage() {}

// Path implements quorum.Msg.
func (SubmitMsg) Path() string { return PathSubmit }

// Validate implements quorum.Msg.
func (m *SubmitMsg) Validate() error {
	a := m.Action()
	return a.Validate()
}

// Action returns the proposed action.
func (m *SubmitMsg) Action() Action {
	a := Action{
		Target:  quorum.Address(m.Target),
		Payload: m.Payload,
	}
	if m.Value != nil {
		a.Value = *m.Value
	}
	return a
}

// ApproveMsg approves an action.
type ApproveMsg struct {
	ActionID uint64 `protobuf:"varint,1,opt,name=action_id,json=actionId,proto3" json:"action_id,omitempty"`
}

func (m *ApproveMsg) Reset()         { *m = ApproveMsg{} }
func (m *ApproveMsg) String() string { return fmt.Sprintf("ApproveMsg{%d}", m.ActionID) }
func (*ApproveMsg) ProtoMessage()    {}

// Path implements quorum.Msg.
func (ApproveMsg) Path() string { return PathApprove }

// Validate implements quorum.Msg.
func (*ApproveMsg) Validate() error { return nil }

// RevokeMsg withdraws an approval.
type RevokeMsg struct {
	ActionID uint64 `protobuf:"varint,1,opt,name=action_id,json=actionId,proto3" json:"action_id,omitempty"`
}

func (m *RevokeMsg) Reset()         { *m = RevokeMsg{} }
func (m *RevokeMsg) String() string { return fmt.Sprintf("RevokeMsg{%d}", m.ActionID) }
func (*RevokeMsg) ProtoMessage()    {}

// Path implements quorum.Msg.
func (RevokeMsg) Path() string { return PathRevoke }

// Validate implements quorum.Msg.
func (*RevokeMsg) Validate() error { return nil }

// ExecuteMsg executes an action that reached the quorum.
type ExecuteMsg struct {
	ActionID uint64 `protobuf:"varint,1,opt,name=action_id,json=actionId,proto3" json:"action_id,omitempty"`
}

func (m *ExecuteMsg) Reset()         { *m = ExecuteMsg{} }
func (m *ExecuteMsg) String() string { return fmt.Sprintf("ExecuteMsg{%d}", m.ActionID) }
func (*ExecuteMsg) ProtoMessage()    {}

// Path implements quorum.Msg.
func (ExecuteMsg) Path() string { return PathExecute }

// Validate implements quorum.Msg.
func (*ExecuteMsg) Validate() error { return nil }
