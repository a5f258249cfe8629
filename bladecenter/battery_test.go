package bladecenter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSession struct {
	values map[string]gosnmp.SnmpPDU
	fail   map[string]error
	calls  []string
}

func (f *fakeSession) Get(oid string) (gosnmp.SnmpPDU, error) {
	f.calls = append(f.calls, "get "+oid)
	if err, ok := f.fail[oid]; ok {
		return gosnmp.SnmpPDU{}, err
	}
	pdu, ok := f.values[oid]
	if !ok {
		return gosnmp.SnmpPDU{}, errors.New("agent returned NoSuchObject")
	}
	return pdu, nil
}

func (f *fakeSession) Close() error {
	f.calls = append(f.calls, "close")
	return nil
}

func integer(v int) gosnmp.SnmpPDU {
	return gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: v}
}

func octets(s string) gosnmp.SnmpPDU {
	return gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte(s)}
}

func fanPack(n int) string {
	return fmt.Sprintf("%s.%d", oidFanPackSpeed, n)
}

func healthyChassis() map[string]gosnmp.SnmpPDU {
	return map[string]gosnmp.SnmpPDU{
		oidSystemHealth:      integer(255),
		oidAmbientTemp:       octets("24.50 Centigrade"),
		oidInternalTemp:      octets("31.00 Centigrade"),
		oidBlower1Speed:      octets("45% of maximum"),
		oidBlower2Speed:      octets("46% of maximum"),
		fanPack(1):           octets("60% of maximum"),
		fanPack(2):           octets("61% of maximum"),
		fanPack(3):           octets("60% of maximum"),
		fanPack(4):           octets("62% of maximum"),
		oidBackplaneTest:     integer(0),
		oidBlowersInstalled:  octets("11"),
		oidBlower1State:      integer(1),
		oidBlower2State:      integer(1),
		oidSwitchesInstalled: octets("1010"),
		oidSwitchesComm:      octets("1010"),
		oidBladesInstalled:   octets("11110000000000"),
		oidBladesComm:        octets("11110000000000"),
	}
}

func run(t *testing.T, override map[string]gosnmp.SnmpPDU) (Outcome, *fakeSession) {
	t.Helper()
	values := healthyChassis()
	for oid, pdu := range override {
		values[oid] = pdu
	}
	sess := &fakeSession{values: values}
	return NewBattery(sess, zap.NewNop()).Run(), sess
}

func TestRunHealthyChassis(t *testing.T) {
	outcome, sess := run(t, nil)

	assert.Equal(t, OK, outcome.Status)
	assert.Equal(t, "BladeCenter OK - mm_status:normal ambient_temp:24.5C internal_temp:31.0C blower1:good blower2:good backplane:testSucceeded switch_modules:all_communicating blades:all_communicating",
		outcome.String())

	// every OID read exactly once, in battery order, then closed
	require.Len(t, sess.calls, 18)
	seen := make(map[string]bool)
	for i, c := range checks() {
		assert.Equal(t, "get "+c.oid, sess.calls[i])
		assert.False(t, seen[c.oid], "%s read twice", c.oid)
		seen[c.oid] = true
	}
	assert.Equal(t, "close", sess.calls[17])
}

func TestRunTracesBayCounts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sess := &fakeSession{values: healthyChassis()}
	outcome := NewBattery(sess, zap.New(core)).Run()
	require.Equal(t, OK, outcome.Status)

	entries := logs.FilterMessage("chassis healthy").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 2, fields["blowers"])
	assert.EqualValues(t, 2, fields["switch_modules"])
	assert.EqualValues(t, 4, fields["blades"])
	assert.Equal(t, map[string]int{
		"fan bay 1":          45,
		"fan bay 2":          46,
		"power module 1 fan": 60,
		"power module 2 fan": 61,
		"power module 3 fan": 60,
		"power module 4 fan": 62,
	}, fields["fan_speeds"])
}

func TestFirstFailureWins(t *testing.T) {
	outcome, sess := run(t, map[string]gosnmp.SnmpPDU{
		oidSystemHealth: integer(0),
		oidAmbientTemp:  octets("35.00 Centigrade"),
	})

	assert.Equal(t, Critical, outcome.Status)
	assert.Equal(t, "BladeCenter CRITICAL - management module status is critical", outcome.String())
	assert.Equal(t, []string{"get " + oidSystemHealth, "close"}, sess.calls)
}

func TestReadFailureClosesSession(t *testing.T) {
	sess := &fakeSession{
		values: healthyChassis(),
		fail:   map[string]error{oidBlower1State: errors.New("request timeout (after 3 retries)")},
	}
	outcome := NewBattery(sess, zap.NewNop()).Run()

	assert.Equal(t, Unknown, outcome.Status)
	assert.Contains(t, outcome.Message, oidBlower1State)
	assert.Contains(t, outcome.Message, "request timeout")
	require.NotEmpty(t, sess.calls)
	assert.Equal(t, "get "+oidBlower1State, sess.calls[len(sess.calls)-2])
	assert.Equal(t, "close", sess.calls[len(sess.calls)-1])
}

func TestHealth(t *testing.T) {
	tests := []struct {
		code   int
		status Status
		msg    string
	}{
		{2, Warning, "management module status is nonCritical"},
		{4, Warning, "management module status is systemLevel"},
		{7, Unknown, "unexpected value from " + oidSystemHealth + ": management module status 7"},
	}
	for _, tt := range tests {
		outcome, _ := run(t, map[string]gosnmp.SnmpPDU{oidSystemHealth: integer(tt.code)})
		assert.Equal(t, tt.status, outcome.Status, "code %d", tt.code)
		assert.Equal(t, tt.msg, outcome.Message, "code %d", tt.code)
	}
}

func TestAmbientTemperatureBoundaries(t *testing.T) {
	tests := []struct {
		raw    string
		status Status
	}{
		{"28.00 Centigrade", OK},
		{"28.10 Centigrade", Warning},
		{"30.10 Centigrade", Critical},
		{"10.00 Centigrade", OK},
		{"9.90 Centigrade", Warning},
		{"75.20 Fahrenheit", OK},
		{"98.60 Fahrenheit", Critical},
	}
	for _, tt := range tests {
		outcome, _ := run(t, map[string]gosnmp.SnmpPDU{oidAmbientTemp: octets(tt.raw)})
		assert.Equal(t, tt.status, outcome.Status, "ambient %s: %s", tt.raw, outcome.Message)
	}
}

// Critical is strictly above 30C, so 30C itself only crosses the 28C warning.
func TestAmbientAtThirtyIsWarningSinceCriticalIsStrictlyAbove(t *testing.T) {
	outcome, _ := run(t, map[string]gosnmp.SnmpPDU{oidAmbientTemp: octets("30.00 Centigrade")})
	assert.Equal(t, Warning, outcome.Status)
	assert.Equal(t, "ambient temperature is 30.0C (warning above 28C)", outcome.Message)
}

func TestAmbientCriticalIsNotReportedAsWarning(t *testing.T) {
	outcome, _ := run(t, map[string]gosnmp.SnmpPDU{oidAmbientTemp: octets("35.00 Centigrade")})
	assert.Equal(t, "ambient temperature is 35.0C (critical above 30C)", outcome.Message)
}

func TestAmbientFahrenheitInSummary(t *testing.T) {
	outcome, _ := run(t, map[string]gosnmp.SnmpPDU{oidAmbientTemp: octets("75.20 Fahrenheit")})
	assert.Contains(t, outcome.Message, "ambient_temp:24.0C")
}

func TestInternalTemperature(t *testing.T) {
	tests := []struct {
		raw    string
		status Status
	}{
		{"43.00 Centigrade", OK},
		{"43.50 Centigrade", Warning},
		{"46.00 Centigrade", Warning},
		{"46.50 Centigrade", Critical},
	}
	for _, tt := range tests {
		outcome, _ := run(t, map[string]gosnmp.SnmpPDU{oidInternalTemp: octets(tt.raw)})
		assert.Equal(t, tt.status, outcome.Status, "internal %s: %s", tt.raw, outcome.Message)
	}
}

func TestMalformedTemperature(t *testing.T) {
	outcome, _ := run(t, map[string]gosnmp.SnmpPDU{oidInternalTemp: octets("Not Readable!")})
	assert.Equal(t, Unknown, outcome.Status)
	assert.Contains(t, outcome.Message, "unexpected value from "+oidInternalTemp)

	outcome, _ = run(t, map[string]gosnmp.SnmpPDU{oidAmbientTemp: {Type: gosnmp.ObjectIdentifier, Value: ".1.3"}})
	assert.Equal(t, Unknown, outcome.Status)
	assert.Contains(t, outcome.Message, oidAmbientTemp)
}

func TestNonFiniteTemperatureIsUnknown(t *testing.T) {
	for _, oid := range []string{oidAmbientTemp, oidInternalTemp} {
		for _, raw := range []string{"NaN Centigrade", "Inf Centigrade", "-Inf Fahrenheit"} {
			outcome, sess := run(t, map[string]gosnmp.SnmpPDU{oid: octets(raw)})
			assert.Equal(t, Unknown, outcome.Status, "%s %s: %s", oid, raw, outcome.Message)
			assert.Contains(t, outcome.Message, "unexpected value from "+oid)
			assert.Equal(t, "close", sess.calls[len(sess.calls)-1])
		}
	}
}

func TestFanSpeeds(t *testing.T) {
	tests := []struct {
		oid    string
		raw    string
		status Status
		msg    string
	}{
		{oidBlower1Speed, "85% of maximum", OK, ""},
		{oidBlower1Speed, "86% of maximum", Warning, "fan bay 1 speed is 86% of maximum (warning above 85%)"},
		{oidBlower2Speed, "90", Warning, "fan bay 2 speed is 90% of maximum (warning above 85%)"},
		{fanPack(3), "91% of maximum", Critical, "power module 3 fan speed is 91% of maximum (critical above 90%)"},
		{fanPack(4), "unknown", Unknown, ""},
	}
	for _, tt := range tests {
		outcome, _ := run(t, map[string]gosnmp.SnmpPDU{tt.oid: octets(tt.raw)})
		assert.Equal(t, tt.status, outcome.Status, "%s=%s", tt.oid, tt.raw)
		if tt.msg != "" {
			assert.Equal(t, tt.msg, outcome.Message)
		}
	}
}

func TestBackplane(t *testing.T) {
	outcome, _ := run(t, map[string]gosnmp.SnmpPDU{oidBackplaneTest: integer(1)})
	assert.Equal(t, Critical, outcome.Status)
	assert.Equal(t, "ethernet backplane test failed", outcome.Message)

	outcome, _ = run(t, map[string]gosnmp.SnmpPDU{oidBackplaneTest: integer(5)})
	assert.Equal(t, Unknown, outcome.Status)
}

func TestBlowersInstalled(t *testing.T) {
	tests := []struct {
		raw    string
		status Status
		msg    string
	}{
		{"11", OK, ""},
		{"10", Warning, "blower 2 (right) is missing (blowers installed 10)"},
		{"01", Warning, "blower 1 (left) is missing (blowers installed 01)"},
		{"00", Critical, "both blowers are missing (blowers installed 00)"},
		{"02", Unknown, "unexpected value from " + oidBlowersInstalled + `: blowers installed "02"`},
	}
	for _, tt := range tests {
		outcome, _ := run(t, map[string]gosnmp.SnmpPDU{oidBlowersInstalled: octets(tt.raw)})
		assert.Equal(t, tt.status, outcome.Status, "blowers %s", tt.raw)
		if tt.msg != "" {
			assert.Equal(t, tt.msg, outcome.Message)
		}
	}
}

func TestBlowerState(t *testing.T) {
	tests := []struct {
		oid    string
		code   int
		status Status
		msg    string
	}{
		{oidBlower1State, 2, Warning, "blower 1 status is warning"},
		{oidBlower2State, 2, Warning, "blower 2 status is warning"},
		{oidBlower2State, 3, Critical, "blower 2 status is bad"},
		{oidBlower1State, 0, Unknown, "blower 1 status is unknown"},
		{oidBlower2State, 9, Unknown, "unexpected value from " + oidBlower2State + ": blower 2 status 9"},
	}
	for _, tt := range tests {
		outcome, _ := run(t, map[string]gosnmp.SnmpPDU{tt.oid: integer(tt.code)})
		assert.Equal(t, tt.status, outcome.Status)
		assert.Equal(t, tt.msg, outcome.Message)
	}
}

func TestSwitchModulesCommunicating(t *testing.T) {
	outcome, _ := run(t, map[string]gosnmp.SnmpPDU{oidSwitchesComm: octets("1000")})
	assert.Equal(t, Warning, outcome.Status)
	assert.Equal(t, "switch modules installed 1010 but communicating 1000 (not communicating: bay 3)", outcome.Message)

	outcome, _ = run(t, map[string]gosnmp.SnmpPDU{oidSwitchesComm: octets("10")})
	assert.Equal(t, Unknown, outcome.Status)
	assert.Contains(t, outcome.Message, oidSwitchesComm)

	outcome, _ = run(t, map[string]gosnmp.SnmpPDU{oidSwitchesInstalled: octets("1x10")})
	assert.Equal(t, Unknown, outcome.Status)
	assert.Contains(t, outcome.Message, oidSwitchesInstalled)
}

func TestBladesCommunicating(t *testing.T) {
	outcome, sess := run(t, map[string]gosnmp.SnmpPDU{oidBladesComm: octets("11010000000001")})
	assert.Equal(t, Warning, outcome.Status)
	assert.Equal(t, "blades installed 11110000000000 but communicating 11010000000001 (not communicating: bay 3; communicating but not installed: bay 14)",
		outcome.Message)
	assert.Equal(t, "close", sess.calls[len(sess.calls)-1])
}
