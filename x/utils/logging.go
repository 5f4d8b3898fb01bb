package utils

import (
	"time"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var txDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "tx_duration_seconds",
		Help:    "Time spent processing a transaction by the handler stack",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	},
	[]string{"phase", "path", "internal"},
)

// Logging logs every transaction with its path and duration and records
// the duration in the tx_duration_seconds histogram. Failures are logged as
// errors, delivered transactions at info and checked ones at debug level.
type Logging struct{}

var _ weave.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var log string
	if err == nil {
		log = res.Log
	}
	report(ctx, "check", tx, start, log, err)
	return res, err
}

func (Logging) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var log string
	if err == nil {
		log = res.Log
	}
	report(ctx, "deliver", tx, start, log, err)
	return res, err
}

func report(ctx weave.Context, phase string, tx weave.Tx, start time.Time, msg string, err error) {
	took := time.Since(start)
	path := weave.GetPath(tx)
	internal := "false"
	if errors.IsInternal(err) {
		internal = "true"
	}
	txDuration.WithLabelValues(phase, path, internal).Observe(took.Seconds())

	logger := weave.GetLogger(ctx).With("duration", took/time.Microsecond, "path", path)
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case phase == "check":
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
