package app

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/iov-one/quorum/x/vault"
)

// Tx is the transaction format accepted by the application. It carries
// exactly one vault message along with the signature of its author.
type Tx struct {
	Signature  *sigs.StdSignature `protobuf:"bytes,1,opt,name=signature" json:"signature,omitempty"`
	DepositMsg *vault.DepositMsg  `protobuf:"bytes,2,opt,name=deposit_msg,json=depositMsg" json:"deposit_msg,omitempty"`
	SubmitMsg  *vault.SubmitMsg   `protobuf:"bytes,3,opt,name=submit_msg,json=submitMsg" json:"submit_msg,omitempty"`
	ApproveMsg *vault.ApproveMsg  `protobuf:"bytes,4,opt,name=approve_msg,json=approveMsg" json:"approve_msg,omitempty"`
	RevokeMsg  *vault.RevokeMsg   `protobuf:"bytes,5,opt,name=revoke_msg,json=revokeMsg" json:"revoke_msg,omitempty"`
	ExecuteMsg *vault.ExecuteMsg  `protobuf:"bytes,6,opt,name=execute_msg,json=executeMsg" json:"execute_msg,omitempty"`
}

var _ quorum.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// Reset implements proto.Message.
func (tx *Tx) Reset() { *tx = Tx{} }

// String implements proto.Message.
func (tx *Tx) String() string {
	msg, err := tx.GetMsg()
	if err != nil {
		return fmt.Sprintf("Tx{invalid: %s}", err)
	}
	return fmt.Sprintf("Tx{%s}", msg)
}

// ProtoMessage implements proto.Message.
func (*Tx) ProtoMessage() {}

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (quorum.Msg, error) {
	var msgs []quorum.Msg
	if tx.DepositMsg != nil {
		msgs = append(msgs, tx.DepositMsg)
	}
	if tx.SubmitMsg != nil {
		msgs = append(msgs, tx.SubmitMsg)
	}
	if tx.ApproveMsg != nil {
		msgs = append(msgs, tx.ApproveMsg)
	}
	if tx.RevokeMsg != nil {
		msgs = append(msgs, tx.RevokeMsg)
	}
	if tx.ExecuteMsg != nil {
		msgs = append(msgs, tx.ExecuteMsg)
	}
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "transaction with %d messages", len(msgs))
	}
}

// SetMsg replaces the message of this transaction.
func (tx *Tx) SetMsg(msg quorum.Msg) error {
	tx.DepositMsg, tx.SubmitMsg, tx.ApproveMsg, tx.RevokeMsg, tx.ExecuteMsg = nil, nil, nil, nil, nil
	switch m := msg.(type) {
	case *vault.DepositMsg:
		tx.DepositMsg = m
	case *vault.SubmitMsg:
		tx.SubmitMsg = m
	case *vault.ApproveMsg:
		tx.ApproveMsg = m
	case *vault.RevokeMsg:
		tx.RevokeMsg = m
	case *vault.ExecuteMsg:
		tx.ExecuteMsg = m
	default:
		return errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
	}
	return nil
}

// GetSignature implements sigs.SignedTx.
func (tx *Tx) GetSignature() *sigs.StdSignature {
	return tx.Signature
}

// GetSignBytes returns the serialized transaction without the signature.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signature = nil
	bz, err := proto.Marshal(&unsigned)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// MarshalTx serializes the transaction for broadcasting.
func MarshalTx(tx *Tx) ([]byte, error) {
	bz, err := proto.Marshal(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (quorum.Tx, error) {
	var tx Tx
	if err := proto.Unmarshal(bz, &tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &tx, nil
}
