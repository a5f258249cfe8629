package main

import (
	"errors"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/nickjeffrey/check-ibm-bladecenter/snmp"
)

type options struct {
	Host        string
	Community   string
	Port        uint16
	SNMPVersion string
	Timeout     time.Duration
	Retries     int
	PingTimeout time.Duration
	Verbose     bool
}

func newApp(o *options) *kingpin.Application {
	app := kingpin.New(appName, "Check the health of an IBM BladeCenter chassis through its management module.")
	app.Version(version)
	app.HelpFlag.Short('h')

	app.Flag("host", "management module host name or address").Short('H').PlaceHolder("HOST").StringVar(&o.Host)
	app.Flag("community", "SNMP community string").Short('c').Default("public").StringVar(&o.Community)
	app.Flag("port", "SNMP port").Short('p').Default("161").Uint16Var(&o.Port)
	app.Flag("timeout", "SNMP request timeout").Short('t').Default("2s").DurationVar(&o.Timeout)
	app.Flag("retries", "SNMP retries per request").Short('r').Default("3").IntVar(&o.Retries)
	app.Flag("snmp-version", "SNMP version").Default("1").EnumVar(&o.SNMPVersion, "1", "2c")
	app.Flag("ping-timeout", "wait for the reachability ping").Default("1s").DurationVar(&o.PingTimeout)
	app.Flag("verbose", "trace every step on stderr").Short('v').BoolVar(&o.Verbose)
	return app
}

func (o *options) validate() error {
	if o.Host == "" {
		return errors.New("no host specified, use -H <host>")
	}
	return nil
}

func (o *options) snmpConfig() snmp.Config {
	return snmp.Config{
		Target:    o.Host,
		Port:      o.Port,
		Community: o.Community,
		Version:   o.SNMPVersion,
		Timeout:   o.Timeout,
		Retries:   o.Retries,
	}
}
