package bladecenter

import (
	"fmt"

	"github.com/atc0005/go-nagios"
)

// ServiceName prefixes every line the plugin prints.
const ServiceName = "BladeCenter"

type Status int

const (
	OK       = Status(nagios.StateOKExitCode)
	Warning  = Status(nagios.StateWARNINGExitCode)
	Critical = Status(nagios.StateCRITICALExitCode)
	Unknown  = Status(nagios.StateUNKNOWNExitCode)
)

func (s Status) String() string {
	switch s {
	case OK:
		return nagios.StateOKLabel
	case Warning:
		return nagios.StateWARNINGLabel
	case Critical:
		return nagios.StateCRITICALLabel
	default:
		return nagios.StateUNKNOWNLabel
	}
}

// ExitCode maps anything outside the four states to UNKNOWN.
func (s Status) ExitCode() int {
	switch s {
	case OK, Warning, Critical:
		return int(s)
	default:
		return nagios.StateUNKNOWNExitCode
	}
}

// Outcome is the single verdict of a run.
type Outcome struct {
	Status  Status
	Message string
}

func (o Outcome) String() string {
	return fmt.Sprintf("%s %s - %s", ServiceName, o.Status, o.Message)
}

func halt(status Status, format string, args ...interface{}) *Outcome {
	return &Outcome{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Unknownf builds a terminal UNKNOWN outcome for failures outside the battery.
func Unknownf(format string, args ...interface{}) Outcome {
	return *halt(Unknown, format, args...)
}
