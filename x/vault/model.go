package vault

import (
	"fmt"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// MaxPayloadSize is the biggest payload an action may carry.
const MaxPayloadSize = 64 * 1024

var (
	configBucket   = orm.NewModelBucket("_v")
	actionBucket   = orm.NewModelBucket("action")
	approvalBucket = orm.NewModelBucket("approval")

	actionSeq = orm.NewSequence("action", "id")
)

var configKey = []byte("config")

// Config is set once when the vault is created and never changes.
type Config struct {
	Name     string           `json:"name"`
	Owners   []quorum.Address `json:"owners"`
	Required uint32           `json:"required"`
	Ticker   string           `json:"ticker"`
}

// Validate returns all problems of the configuration.
func (c *Config) Validate() error {
	var errs error
	if c.Name == "" {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrEmpty, "required"))
	}
	if !coin.IsCC(c.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", c.Ticker))
	}
	if _, err := NewOwnerSet(c.Owners); err != nil {
		errs = errors.Append(errs, err)
	}
	if c.Required == 0 || int(c.Required) > len(c.Owners) {
		errs = errors.Append(errs, errors.Field("Required", errors.ErrInput,
			"must be between 1 and %d, got %d", len(c.Owners), c.Required))
	}
	return errs
}

// Address returns the address of the vault account holding the pooled
// balance.
func (c *Config) Address() quorum.Address {
	return Condition(c.Name).Address()
}

// Condition returns the condition of a vault with given name.
func Condition(name string) quorum.Condition {
	return quorum.NewCondition("vault", "account", []byte(name))
}

// Action is a proposed outgoing operation.
type Action struct {
	Target   quorum.Address `json:"target"`
	Value    coin.Coin      `json:"value"`
	Payload  []byte         `json:"payload,omitempty"`
	Executed bool           `json:"executed"`
}

// Validate performs a stateless check of the action.
func (a *Action) Validate() error {
	var errs error
	if err := a.Target.Validate(); err != nil {
		errs = errors.Append(errs, errors.Field("Target", err, "invalid address"))
	}
	if !a.Value.IsZero() {
		if err := a.Value.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Value", err, "invalid amount"))
		} else if !a.Value.IsPositive() {
			errs = errors.Append(errs, errors.Field("Value", errors.ErrAmount, "must not be negative"))
		}
	}
	if len(a.Payload) > MaxPayloadSize {
		errs = errors.Append(errs, errors.Field("Payload", errors.ErrInput, "%d bytes exceeds the limit", len(a.Payload)))
	}
	return errs
}

// Approval is the consent of a single owner for a single action.
type Approval struct {
	Approved bool `json:"approved"`
}

// Validate implements orm.Model.
func (*Approval) Validate() error {
	return nil
}

// ActionKey returns the database key of an action.
func ActionKey(id uint64) []byte {
	return orm.EncodeSequence(int64(id))
}

// ApprovalKey returns the database key of the approval flag of a single
// owner.
func ApprovalKey(id uint64, owner quorum.Address) []byte {
	return append(ActionKey(id), owner...)
}

func fieldIndex(name string, i int) string {
	return fmt.Sprintf("%s.%d", name, i)
}
