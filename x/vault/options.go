package vault

import (
	"github.com/iov-one/quorum/x/cash"
	"github.com/tendermint/tendermint/libs/log"
)

// Option configures a Controller or an Engine.
type Option func(*options)

type options struct {
	deliverer Deliverer
	contracts *Registry
	ledger    cash.Controller
	logger    log.Logger
}

func newOptions(opts []Option) options {
	o := options{
		ledger: cash.NewController(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.contracts == nil {
		o.contracts = NewRegistry()
	}
	if o.deliverer == nil {
		o.deliverer = NewLedgerDeliverer(o.ledger, o.contracts)
	}
	return o
}

// WithDeliverer replaces the default delivery of executed actions.
func WithDeliverer(d Deliverer) Option {
	return func(o *options) { o.deliverer = d }
}

// WithContracts sets the contracts that receive the calls of executed
// actions. It has no effect together with WithDeliverer.
func WithContracts(r *Registry) Option {
	return func(o *options) { o.contracts = r }
}

// WithLedger sets the ledger holding the vault balance.
func WithLedger(c cash.Controller) Option {
	return func(o *options) { o.ledger = c }
}

// WithLogger sets the logger used when the context does not carry one.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}
