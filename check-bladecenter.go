package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/nickjeffrey/check-ibm-bladecenter/bladecenter"
	"github.com/nickjeffrey/check-ibm-bladecenter/preflight"
	"github.com/nickjeffrey/check-ibm-bladecenter/snmp"
)

const (
	appName = "check_bladecenter"
	version = "1.0.0"
)

var (
	stdout io.Writer = os.Stdout
	osExit           = os.Exit
)

type opener func(cfg snmp.Config, log *zap.Logger) (snmp.Session, error)

func openSession(cfg snmp.Config, log *zap.Logger) (snmp.Session, error) {
	c, err := snmp.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	opts := &options{}
	app := terminating(newApp(opts))
	if _, err := app.Parse(os.Args[1:]); err != nil {
		exit(bladecenter.Unknownf("invalid arguments: %v", err))
		return
	}
	exit(run(context.Background(), opts, preflight.CommandPinger{}, openSession))
}

// terminating sends help and version text to stdout and ends the process
// as UNKNOWN once it is printed.
func terminating(app *kingpin.Application) *kingpin.Application {
	return app.UsageWriter(stdout).Terminate(func(int) {
		osExit(bladecenter.Unknown.ExitCode())
	})
}

func run(ctx context.Context, opts *options, pinger preflight.Pinger, open opener) bladecenter.Outcome {
	if err := opts.validate(); err != nil {
		return bladecenter.Unknownf("%v", err)
	}

	log := newLogger(opts.Verbose)
	defer func() { _ = log.Sync() }()
	log.Debug("starting",
		zap.String("host", opts.Host),
		zap.Uint16("port", opts.Port),
		zap.String("snmp_version", opts.SNMPVersion),
		zap.Duration("timeout", opts.Timeout))

	if err := preflight.Check(ctx, pinger, opts.Host, opts.PingTimeout, log); err != nil {
		return bladecenter.Unknownf("%v", err)
	}

	sess, err := open(opts.snmpConfig(), log)
	if err != nil {
		return bladecenter.Unknownf("could not open SNMP session to %s: %v", opts.Host, err)
	}
	return bladecenter.NewBattery(sess, log).Run()
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func exit(o bladecenter.Outcome) {
	fmt.Fprintln(stdout, o)
	osExit(o.Status.ExitCode())
}
