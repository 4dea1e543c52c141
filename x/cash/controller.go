package cash

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// Controller is the functionality needed by other extensions to move coins.
type Controller interface {
	Balance(db quorum.ReadOnlyKVStore, addr quorum.Address) (coin.Coin, error)
	Transfer(db quorum.KVStore, src, dst quorum.Address, amount coin.Coin) error
	Issue(db quorum.KVStore, dst quorum.Address, amount coin.Coin) error
}

// BaseController is the default ledger implementation.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the cash bucket.
func NewController() BaseController {
	return BaseController{bucket: orm.NewModelBucket(BucketName)}
}

// Balance returns the coins held by given address. An address without a
// wallet holds a zero value coin.
func (c BaseController) Balance(db quorum.ReadOnlyKVStore, addr quorum.Address) (coin.Coin, error) {
	w, err := c.wallet(db, addr)
	if err != nil {
		return coin.Coin{}, err
	}
	return w.Coins, nil
}

func (c BaseController) wallet(db quorum.ReadOnlyKVStore, addr quorum.Address) (*Wallet, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, errors.Wrapf(err, "wallet %s", addr)
	}
}

// Transfer moves the given amount from src to dst.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) Transfer(db quorum.KVStore, src, dst quorum.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer %s", amount)
	}

	sender, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if !sender.Coins.IsGTE(amount) {
		if !sender.Coins.IsZero() && !sender.Coins.SameType(amount) {
			return errors.Wrapf(errors.ErrCurrency, "wallet holds %s", sender.Coins.Ticker)
		}
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: %s < %s", sender.Coins, amount)
	}
	if src.Equals(dst) {
		return nil
	}

	recipient, err := c.wallet(db, dst)
	if err != nil {
		return err
	}
	if sender.Coins, err = sender.Coins.Subtract(amount); err != nil {
		return err
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return errors.Wrapf(err, "recipient %s", dst)
	}
	if err := c.bucket.Put(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Put(db, dst, recipient)
}

// Issue attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) Issue(db quorum.KVStore, dst quorum.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive issue %s", amount)
	}
	w, err := c.wallet(db, dst)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Add(amount); err != nil {
		return errors.Wrapf(err, "wallet %s", dst)
	}
	return c.bucket.Put(db, dst, w)
}
