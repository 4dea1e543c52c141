package app

import (
	"strconv"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/vault"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that instruments every processed transaction. It
// counts operations per message path and result code, measures their
// duration and exposes the vault balance after every delivered vault
// operation.
type Metrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	balance  *prometheus.GaugeVec
	ledger   cash.Controller
}

var _ quorum.Decorator = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with given
// registerer. It panics if any of them is already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quorum",
			Name:      "operations_total",
			Help:      "Number of processed transactions by message path and result code.",
		}, []string{"call", "op", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quorum",
			Name:      "operation_duration_seconds",
			Help:      "Time spent processing a delivered transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"op"}),
		balance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "quorum",
			Name:      "vault_balance",
			Help:      "Balance of the vault after the last delivered operation.",
		}, []string{"ticker"}),
		ledger: cash.NewController(),
	}
	reg.MustRegister(m.ops, m.duration, m.balance)
	return m
}

// Check counts the operation.
func (m *Metrics) Check(ctx quorum.Context, store quorum.KVStore, tx quorum.Tx, next quorum.Checker) (*quorum.CheckResult, error) {
	res, err := next.Check(ctx, store, tx)
	m.count("check", tx, err)
	return res, err
}

// Deliver counts and times the operation. The vault balance gauge is
// refreshed after a successful vault operation.
func (m *Metrics) Deliver(ctx quorum.Context, store quorum.CacheableKVStore, tx quorum.Tx, next quorum.Deliverer) (*quorum.DeliverResult, error) {
	path := quorum.GetPath(tx)
	timer := prometheus.NewTimer(m.duration.WithLabelValues(path))
	res, err := next.Deliver(ctx, store, tx)
	timer.ObserveDuration()
	m.count("deliver", tx, err)

	if err == nil && strings.HasPrefix(path, "vault/") {
		if err := m.observeBalance(store); err != nil {
			quorum.GetLogger(ctx).Error("cannot read vault balance", "err", err)
		}
	}
	return res, err
}

func (m *Metrics) count(call string, tx quorum.Tx, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.ops.WithLabelValues(call, quorum.GetPath(tx), strconv.FormatUint(uint64(code), 10)).Inc()
}

func (m *Metrics) observeBalance(db quorum.ReadOnlyKVStore) error {
	cfg, err := vault.LoadConfig(db)
	if err != nil {
		return err
	}
	balance, err := m.ledger.Balance(db, cfg.Address())
	if err != nil {
		return err
	}
	m.balance.WithLabelValues(cfg.Ticker).Set(coinValue(balance))
	return nil
}

func coinValue(c coin.Coin) float64 {
	return float64(c.Whole) + float64(c.Fractional)/float64(coin.FracUnit)
}
