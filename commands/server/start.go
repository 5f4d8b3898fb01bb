package server

import (
	"flag"
	"net/http"

	"github.com/iov-one/stakeweave/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// StartFlags are the options accepted by the start command.
type StartFlags struct {
	Bind    string
	Debug   bool
	Metrics string
}

func parseStartFlags(args []string) (StartFlags, error) {
	var f StartFlags
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&f.Bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.BoolVar(&f.Debug, flagDebug, false, "call stack returned on error")
	startFlags.StringVar(&f.Metrics, flagMetrics, "", "address the prometheus metrics are served on, empty to disable")
	if err := startFlags.Parse(args); err != nil {
		return f, errors.Wrap(errors.ErrInput, err.Error())
	}
	return f, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd initializes the application and serves it over the abci socket
// until the process is terminated.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	f, err := parseStartFlags(args)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, f.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", f.Bind)
	svr, err := server.NewServer(f.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot start server: %s", err)
	}

	var metrics *http.Server
	if f.Metrics != "" {
		metrics = serveMetrics(f.Metrics, logger.With("module", "metrics"))
	}

	cmn.TrapSignal(logger, func() {
		if metrics != nil {
			metrics.Close()
		}
		svr.Stop()
	})
	// TrapSignal exits the process from its own goroutine.
	select {}
}

// serveMetrics exposes the default prometheus registry in the background.
func serveMetrics(addr string, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", "err", err)
		}
	}()
	return srv
}
