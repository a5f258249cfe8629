// Package snmp wraps a single read-only SNMP association to a BladeCenter
// management module.
package snmp

import (
	"errors"
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"
	"go.uber.org/zap"
)

// Session is what the check battery needs from the transport. Close must be
// safe to call more than once.
type Session interface {
	Get(oid string) (gosnmp.SnmpPDU, error)
	Close() error
}

type Config struct {
	Target    string
	Port      uint16
	Community string
	Version   string
	Timeout   time.Duration
	Retries   int
}

func (c Config) version() (gosnmp.SnmpVersion, error) {
	switch c.Version {
	case "", "1":
		return gosnmp.Version1, nil
	case "2c":
		return gosnmp.Version2c, nil
	default:
		return 0, fmt.Errorf("unsupported SNMP version %q", c.Version)
	}
}

// Client is a Session backed by gosnmp.
type Client struct {
	conn   *gosnmp.GoSNMP
	log    *zap.Logger
	closed bool
}

// Open establishes the association. It fails when the community is empty or
// the target cannot be dialled at the transport layer.
func Open(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.Community == "" {
		return nil, errors.New("empty SNMP community")
	}
	version, err := cfg.version()
	if err != nil {
		return nil, err
	}

	conn := &gosnmp.GoSNMP{
		Target:    cfg.Target,
		Port:      cfg.Port,
		Community: cfg.Community,
		Version:   version,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		MaxOids:   gosnmp.MaxOids,
		Logger:    gosnmp.NewLogger(zap.NewStdLog(log.Named("gosnmp"))),
	}
	if err := conn.Connect(); err != nil {
		return nil, fmt.Errorf("connect %s:%d: %w", cfg.Target, cfg.Port, err)
	}
	log.Debug("snmp session open",
		zap.String("target", cfg.Target),
		zap.Uint16("port", cfg.Port),
		zap.String("version", version.String()))

	return &Client{conn: conn, log: log}, nil
}

// Get issues one GET for oid and returns its varbind. Error-status responses
// and the noSuch*/endOfMibView exceptions are reported as errors.
func (c *Client) Get(oid string) (gosnmp.SnmpPDU, error) {
	if c.closed {
		return gosnmp.SnmpPDU{}, errors.New("session closed")
	}

	result, err := c.conn.Get([]string{oid})
	if err != nil {
		return gosnmp.SnmpPDU{}, err
	}
	if result.Error != gosnmp.NoError {
		return gosnmp.SnmpPDU{}, fmt.Errorf("agent returned %v", result.Error)
	}
	if len(result.Variables) == 0 {
		return gosnmp.SnmpPDU{}, errors.New("empty response")
	}

	pdu := result.Variables[0]
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return gosnmp.SnmpPDU{}, fmt.Errorf("agent returned %v", pdu.Type)
	}

	raw, _ := String(pdu)
	c.log.Debug("snmp get", zap.String("oid", oid), zap.Stringer("type", pdu.Type), zap.String("value", raw))
	return pdu, nil
}

func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.log.Debug("snmp session closed")
	return c.conn.Conn.Close()
}
