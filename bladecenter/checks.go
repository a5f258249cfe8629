package bladecenter

import (
	"fmt"
	"strings"

	"github.com/gosnmp/gosnmp"

	"github.com/nickjeffrey/check-ibm-bladecenter/sensor"
	"github.com/nickjeffrey/check-ibm-bladecenter/snmp"
)

const (
	ambientCritAbove  = 30.0
	ambientWarnAbove  = 28.0
	ambientWarnBelow  = 10.0
	internalCritAbove = 46.0
	internalWarnAbove = 43.0
	fanCritAbove      = 90
	fanWarnAbove      = 85
)

const allCommunicating = "all_communicating"

// State accumulates the normalized value of every check that passed. It feeds
// the OK summary and, for the bay bitmaps, the check that follows.
type State struct {
	Health                 string
	AmbientTemp            float64
	InternalTemp           float64
	FanSpeeds              map[string]int
	Backplane              string
	Blowers                sensor.Bitmap
	Blower1                string
	Blower2                string
	SwitchModulesInstalled sensor.Bitmap
	SwitchModules          string
	BladesInstalled        sensor.Bitmap
	Blades                 string
}

func newState() *State {
	return &State{FanSpeeds: make(map[string]int)}
}

func (st *State) summary() string {
	return fmt.Sprintf("mm_status:%s ambient_temp:%0.1fC internal_temp:%0.1fC blower1:%s blower2:%s backplane:%s switch_modules:%s blades:%s",
		st.Health, st.AmbientTemp, st.InternalTemp, st.Blower1, st.Blower2, st.Backplane, st.SwitchModules, st.Blades)
}

// reading is the varbind returned for one check's OID.
type reading struct {
	oid string
	pdu gosnmp.SnmpPDU
}

func (r reading) text() (string, error) {
	return snmp.String(r.pdu)
}

func (r reading) integer() (int64, error) {
	return snmp.Int(r.pdu)
}

func (r reading) malformed(err error) *Outcome {
	return halt(Unknown, "unexpected value from %s: %v", r.oid, err)
}

// check reads one OID and classifies it. eval returns the normalized value
// for tracing, or a non-nil Outcome to stop the battery.
type check struct {
	name string
	oid  string
	eval func(st *State, r reading) (string, *Outcome)
}

var healthTokens = map[int64]string{
	0:   "critical",
	2:   "nonCritical",
	4:   "systemLevel",
	255: "normal",
}

func checkHealth(st *State, r reading) (string, *Outcome) {
	code, err := r.integer()
	if err != nil {
		return "", r.malformed(err)
	}
	token, ok := healthTokens[code]
	if !ok {
		return "", halt(Unknown, "unexpected value from %s: management module status %d", r.oid, code)
	}

	switch code {
	case 0:
		return token, halt(Critical, "management module status is %s", token)
	case 2, 4:
		return token, halt(Warning, "management module status is %s", token)
	}
	st.Health = token
	return token, nil
}

func checkAmbientTemp(st *State, r reading) (string, *Outcome) {
	temp, o := readTemperature(r)
	if o != nil {
		return "", o
	}
	value := fmt.Sprintf("%0.1fC", temp)

	switch {
	case temp > ambientCritAbove:
		return value, halt(Critical, "ambient temperature is %s (critical above %0.0fC)", value, ambientCritAbove)
	case temp > ambientWarnAbove:
		return value, halt(Warning, "ambient temperature is %s (warning above %0.0fC)", value, ambientWarnAbove)
	case temp < ambientWarnBelow:
		return value, halt(Warning, "ambient temperature is %s (warning below %0.0fC)", value, ambientWarnBelow)
	}
	st.AmbientTemp = temp
	return value, nil
}

func checkInternalTemp(st *State, r reading) (string, *Outcome) {
	temp, o := readTemperature(r)
	if o != nil {
		return "", o
	}
	value := fmt.Sprintf("%0.1fC", temp)

	switch {
	case temp > internalCritAbove:
		return value, halt(Critical, "internal temperature is %s (critical above %0.0fC)", value, internalCritAbove)
	case temp > internalWarnAbove:
		return value, halt(Warning, "internal temperature is %s (warning above %0.0fC)", value, internalWarnAbove)
	}
	st.InternalTemp = temp
	return value, nil
}

func readTemperature(r reading) (float64, *Outcome) {
	raw, err := r.text()
	if err != nil {
		return 0, r.malformed(err)
	}
	temp, err := sensor.ParseTemperature(raw)
	if err != nil {
		return 0, r.malformed(err)
	}
	return temp, nil
}

func fanCheck(name, oid string) check {
	return check{
		name: name + " speed",
		oid:  oid,
		eval: func(st *State, r reading) (string, *Outcome) {
			raw, err := r.text()
			if err != nil {
				return "", r.malformed(err)
			}
			speed, err := sensor.ParseFanSpeed(raw)
			if err != nil {
				return "", r.malformed(err)
			}
			value := fmt.Sprintf("%d%%", speed)

			switch {
			case speed > fanCritAbove:
				return value, halt(Critical, "%s speed is %s of maximum (critical above %d%%)", name, value, fanCritAbove)
			case speed > fanWarnAbove:
				return value, halt(Warning, "%s speed is %s of maximum (warning above %d%%)", name, value, fanWarnAbove)
			}
			st.FanSpeeds[name] = speed
			return value, nil
		},
	}
}

func checkBackplane(st *State, r reading) (string, *Outcome) {
	code, err := r.integer()
	if err != nil {
		return "", r.malformed(err)
	}
	switch code {
	case 0:
		st.Backplane = "testSucceeded"
		return st.Backplane, nil
	case 1:
		return "testFailed", halt(Critical, "ethernet backplane test failed")
	default:
		return "", halt(Unknown, "unexpected value from %s: ethernet backplane test result %d", r.oid, code)
	}
}

func checkBlowersInstalled(st *State, r reading) (string, *Outcome) {
	raw, err := r.text()
	if err != nil {
		return "", r.malformed(err)
	}
	raw = strings.TrimSpace(raw)

	switch raw {
	case "11":
		st.Blowers = sensor.Bitmap(raw)
		return raw, nil
	case "00":
		return raw, halt(Critical, "both blowers are missing (blowers installed %s)", raw)
	case "01":
		return raw, halt(Warning, "blower 1 (left) is missing (blowers installed %s)", raw)
	case "10":
		return raw, halt(Warning, "blower 2 (right) is missing (blowers installed %s)", raw)
	default:
		return "", halt(Unknown, "unexpected value from %s: blowers installed %q", r.oid, raw)
	}
}

var blowerStates = map[int64]string{
	0: "unknown",
	1: "good",
	2: "warning",
	3: "bad",
}

func blowerStateCheck(blower int, oid string, store func(st *State, token string)) check {
	return check{
		name: fmt.Sprintf("blower %d status", blower),
		oid:  oid,
		eval: func(st *State, r reading) (string, *Outcome) {
			code, err := r.integer()
			if err != nil {
				return "", r.malformed(err)
			}
			token, ok := blowerStates[code]
			if !ok {
				return "", halt(Unknown, "unexpected value from %s: blower %d status %d", r.oid, blower, code)
			}

			switch code {
			case 1:
				store(st, token)
				return token, nil
			case 2:
				return token, halt(Warning, "blower %d status is %s", blower, token)
			case 3:
				return token, halt(Critical, "blower %d status is %s", blower, token)
			default:
				return token, halt(Unknown, "blower %d status is %s", blower, token)
			}
		},
	}
}

func installedCheck(name, oid string, store func(st *State, b sensor.Bitmap)) check {
	return check{
		name: name + " installed",
		oid:  oid,
		eval: func(st *State, r reading) (string, *Outcome) {
			raw, err := r.text()
			if err != nil {
				return "", r.malformed(err)
			}
			b, err := sensor.ParseBitmap(raw)
			if err != nil {
				return "", r.malformed(err)
			}
			store(st, b)
			return string(b), nil
		},
	}
}

// communicatingCheck compares the communicating bitmap against the installed
// one recorded by the preceding check.
func communicatingCheck(name, oid string, installed func(st *State) sensor.Bitmap, store func(st *State, verdict string)) check {
	return check{
		name: name + " communicating",
		oid:  oid,
		eval: func(st *State, r reading) (string, *Outcome) {
			raw, err := r.text()
			if err != nil {
				return "", r.malformed(err)
			}
			comm, err := sensor.ParseBitmap(raw)
			if err != nil {
				return "", r.malformed(err)
			}
			inst := installed(st)
			m, err := sensor.Compare(inst, comm)
			if err != nil {
				return "", r.malformed(err)
			}
			if !m.Empty() {
				return string(comm), halt(Warning, "%s installed %s but communicating %s (%s)", name, inst, comm, describe(m))
			}
			store(st, allCommunicating)
			return string(comm), nil
		},
	}
}

func describe(m sensor.Mismatch) string {
	var parts []string
	if len(m.Silent) > 0 {
		parts = append(parts, "not communicating: bay "+joinBays(m.Silent))
	}
	if len(m.Unexpected) > 0 {
		parts = append(parts, "communicating but not installed: bay "+joinBays(m.Unexpected))
	}
	return strings.Join(parts, "; ")
}

func joinBays(bays []int) string {
	s := make([]string, len(bays))
	for i, b := range bays {
		s[i] = fmt.Sprint(b)
	}
	return strings.Join(s, ",")
}
