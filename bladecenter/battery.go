// Package bladecenter evaluates the health of an IBM BladeCenter chassis from
// its management module. Checks run in a fixed order and the first one that
// is not OK decides the verdict.
package bladecenter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nickjeffrey/check-ibm-bladecenter/sensor"
	"github.com/nickjeffrey/check-ibm-bladecenter/snmp"
)

func checks() []check {
	list := []check{
		{name: "management module health", oid: oidSystemHealth, eval: checkHealth},
		{name: "ambient temperature", oid: oidAmbientTemp, eval: checkAmbientTemp},
		{name: "internal temperature", oid: oidInternalTemp, eval: checkInternalTemp},
		fanCheck("fan bay 1", oidBlower1Speed),
		fanCheck("fan bay 2", oidBlower2Speed),
	}
	for i := 1; i <= 4; i++ {
		list = append(list, fanCheck(fmt.Sprintf("power module %d fan", i), fmt.Sprintf("%s.%d", oidFanPackSpeed, i)))
	}

	return append(list,
		check{name: "ethernet backplane test", oid: oidBackplaneTest, eval: checkBackplane},
		check{name: "blowers installed", oid: oidBlowersInstalled, eval: checkBlowersInstalled},
		blowerStateCheck(1, oidBlower1State, func(st *State, token string) { st.Blower1 = token }),
		blowerStateCheck(2, oidBlower2State, func(st *State, token string) { st.Blower2 = token }),
		installedCheck("switch modules", oidSwitchesInstalled,
			func(st *State, b sensor.Bitmap) { st.SwitchModulesInstalled = b }),
		communicatingCheck("switch modules", oidSwitchesComm,
			func(st *State) sensor.Bitmap { return st.SwitchModulesInstalled },
			func(st *State, verdict string) { st.SwitchModules = verdict }),
		installedCheck("blades", oidBladesInstalled,
			func(st *State, b sensor.Bitmap) { st.BladesInstalled = b }),
		communicatingCheck("blades", oidBladesComm,
			func(st *State) sensor.Bitmap { return st.BladesInstalled },
			func(st *State, verdict string) { st.Blades = verdict }),
	)
}

// Battery owns the session for the length of one run.
type Battery struct {
	sess   snmp.Session
	log    *zap.Logger
	checks []check
}

func NewBattery(sess snmp.Session, log *zap.Logger) *Battery {
	return &Battery{sess: sess, log: log, checks: checks()}
}

// Run reads and evaluates every check in order, stopping at the first that
// is not OK. Each OID is read exactly once. The session is closed before Run
// returns on every path.
func (b *Battery) Run() Outcome {
	defer b.close()

	st := newState()
	for _, c := range b.checks {
		pdu, err := b.sess.Get(c.oid)
		if err != nil {
			b.log.Debug("read failed", zap.String("check", c.name), zap.String("oid", c.oid), zap.Error(err))
			return Unknownf("SNMP read of %s (%s) failed: %v", c.name, c.oid, err)
		}

		value, halted := c.eval(st, reading{oid: c.oid, pdu: pdu})
		if halted != nil {
			b.log.Debug("check halted",
				zap.String("check", c.name),
				zap.String("value", value),
				zap.Stringer("status", halted.Status))
			return *halted
		}
		b.log.Debug("check ok", zap.String("check", c.name), zap.String("value", value))
	}

	b.log.Debug("chassis healthy",
		zap.Any("fan_speeds", st.FanSpeeds),
		zap.Int("blowers", st.Blowers.Count()),
		zap.Int("switch_modules", st.SwitchModulesInstalled.Count()),
		zap.Int("blades", st.BladesInstalled.Count()))
	return Outcome{Status: OK, Message: st.summary()}
}

func (b *Battery) close() {
	if err := b.sess.Close(); err != nil {
		b.log.Warn("closing snmp session", zap.Error(err))
	}
}
