package pool

import (
	"math/big"
	"strconv"

	"github.com/iov-one/stakeweave/coin"
	"github.com/iov-one/stakeweave/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_operations_total",
			Help: "Total number of delivered pool operations",
		},
		[]string{"operation", "code"},
	)
	stakedTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_staked_total",
			Help: "Total amount of stake currency deposited in the pool",
		},
	)
	rewardTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_reward_total",
			Help: "Amount of reward currency held for distribution and claims",
		},
	)
)

// observe counts a delivered operation by its result code.
func observe(operation string, err error) {
	code, _ := errors.ABCIInfo(err, false)
	operationsTotal.WithLabelValues(operation, strconv.FormatUint(uint64(code), 10)).Inc()
}

func reportState(st *State) {
	stakedTotal.Set(asFloat(st.StakedTotal))
	rewardTotal.Set(asFloat(st.RewardTotal))
}

func asFloat(a coin.Amount) float64 {
	f, _ := new(big.Float).SetInt(a.Int().ToBig()).Float64()
	return f
}
