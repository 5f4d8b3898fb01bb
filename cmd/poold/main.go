// Command poold runs a staking pool node behind a tendermint abci server.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/cmd/poold/app"
	"github.com/iov-one/stakeweave/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	homeDir  = flag.String("home", filepath.Join(os.ExpandEnv("$HOME"), ".poold"), "directory to store files under")
	logLevel = flag.String("log_level", "info", "minimal level of logged messages: debug, info, error or none")
)

type command struct {
	name string
	help string
	run  func(logger log.Logger, args []string) error
}

var commands = []command{
	{"init", "write the pool options into the genesis file", func(logger log.Logger, args []string) error {
		return server.InitCmd(app.GenInitOptions, logger, *homeDir, args)
	}},
	{"start", "run the abci server", func(logger log.Logger, args []string) error {
		return server.StartCmd(app.GenerateApp, logger, *homeDir, args)
	}},
	{"validate", "check that genesis files load into a fresh state", func(_ log.Logger, args []string) error {
		return server.ValidateGenesis(app.Initializers(), args)
	}},
	{"version", "print the version", func(log.Logger, []string) error {
		fmt.Println(weave.Version())
		return nil
	}},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "poold: staking pool reward distribution node\n\nUsage: poold [flags] <command> [args]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-10s %s\n", c.name, c.help)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n\n", err)
		usage()
		os.Exit(1)
	}
}

func run(args []string) error {
	level, err := log.AllowLevel(*logLevel)
	if err != nil {
		return err
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stdout)), level).With("module", "poold")

	if len(args) == 0 {
		return fmt.Errorf("missing command")
	}
	if args[0] == "help" {
		usage()
		return nil
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(logger, args[1:])
		}
	}
	return fmt.Errorf("unknown command: %s", args[0])
}
