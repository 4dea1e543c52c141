package cash

import (
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
)

// BucketName is the key prefix of all wallets.
const BucketName = "cash"

// Wallet holds the coins of a single address.
type Wallet struct {
	Coins coin.Coin `json:"coins"`
}

// Validate returns an error if the wallet holds an invalid or negative
// amount. An empty wallet is valid.
func (w *Wallet) Validate() error {
	if w.Coins.IsZero() {
		return nil
	}
	if err := w.Coins.Validate(); err != nil {
		return errors.Field("Coins", err, "invalid amount")
	}
	if !w.Coins.IsNonNegative() {
		return errors.Field("Coins", errors.ErrAmount, "negative balance")
	}
	return nil
}
