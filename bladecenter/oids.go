package bladecenter

// BLADE-MIB, management module enterprise tree .1.3.6.1.4.1.2.3.51.2
const (
	oidSystemHealth      = ".1.3.6.1.4.1.2.3.51.2.2.7.1.0"
	oidAmbientTemp       = ".1.3.6.1.4.1.2.3.51.2.2.1.5.1.0"
	oidInternalTemp      = ".1.3.6.1.4.1.2.3.51.2.2.1.1.2.0"
	oidBlower1Speed      = ".1.3.6.1.4.1.2.3.51.2.2.3.1.0"
	oidBlower2Speed      = ".1.3.6.1.4.1.2.3.51.2.2.3.2.0"
	oidFanPackSpeed      = ".1.3.6.1.4.1.2.3.51.2.2.6.1.1.5" // .1 to .4
	oidBackplaneTest     = ".1.3.6.1.4.1.2.3.51.2.2.5.2.8.0"
	oidBlower1State      = ".1.3.6.1.4.1.2.3.51.2.2.3.10.0"
	oidBlower2State      = ".1.3.6.1.4.1.2.3.51.2.2.3.11.0"
	oidSwitchesInstalled = ".1.3.6.1.4.1.2.3.51.2.22.4.29.0"
	oidBladesInstalled   = ".1.3.6.1.4.1.2.3.51.2.22.4.33.0"
	oidBlowersInstalled  = ".1.3.6.1.4.1.2.3.51.2.22.4.35.0"
	oidSwitchesComm      = ".1.3.6.1.4.1.2.3.51.2.22.4.37.0"
	oidBladesComm        = ".1.3.6.1.4.1.2.3.51.2.22.4.38.0"
)
