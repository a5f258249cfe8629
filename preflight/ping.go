// Package preflight checks that the management module answers ICMP before
// any SNMP traffic is sent.
package preflight

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNoReply     = errors.New("no ping reply")
	ErrUnknownHost = errors.New("cannot resolve host name")
	ErrNoRoute     = errors.New("no route to host")
)

var (
	unknownHostOutput = []string{
		"unknown host",
		"name or service not known",
		"cannot resolve",
		"temporary failure in name resolution",
		"no address associated with hostname",
	}
	noRouteOutput = []string{
		"no route to host",
		"network is unreachable",
		"destination host unreachable",
		"destination net unreachable",
	}
	lossOutput = []string{
		"100% packet loss",
		"100.0% packet loss",
	}
)

// Pinger sends a single echo request to host and returns whatever the
// underlying tool printed.
type Pinger interface {
	Ping(ctx context.Context, host string, wait time.Duration) (string, error)
}

// CommandPinger shells out to the system ping.
type CommandPinger struct {
	Path string
}

func (p CommandPinger) Ping(ctx context.Context, host string, wait time.Duration) (string, error) {
	path := p.Path
	if path == "" {
		path = "ping"
	}
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}

	cmd := exec.CommandContext(ctx, path, "-c", "1", "-W", strconv.Itoa(secs), host)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

// Check pings host once. It returns nil when a reply came back, otherwise an
// error wrapping ErrNoReply, ErrUnknownHost or ErrNoRoute, or a plain error if
// ping itself could not be run.
func Check(ctx context.Context, p Pinger, host string, wait time.Duration, log *zap.Logger) error {
	// leave the tool a little slack past its own deadline
	ctx, cancel := context.WithTimeout(ctx, wait+2*time.Second)
	defer cancel()

	output, err := p.Ping(ctx, host, wait)
	log.Debug("ping", zap.String("host", host), zap.String("output", strings.TrimSpace(output)), zap.Error(err))
	return classify(host, output, err)
}

func classify(host, output string, runErr error) error {
	lower := strings.ToLower(output)
	switch {
	case containsAny(lower, unknownHostOutput):
		return fmt.Errorf("%w %s", ErrUnknownHost, host)
	case containsAny(lower, noRouteOutput):
		return fmt.Errorf("%w %s", ErrNoRoute, host)
	case runErr == nil:
		return nil
	case containsAny(lower, lossOutput):
		return fmt.Errorf("%w from %s", ErrNoReply, host)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) || errors.Is(runErr, context.DeadlineExceeded) {
		return fmt.Errorf("%w from %s", ErrNoReply, host)
	}
	return fmt.Errorf("ping %s: %w", host, runErr)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
