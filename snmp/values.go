package snmp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"
)

// String renders a varbind as text. OctetStrings are decoded as-is; numeric
// types are formatted in base 10.
func String(pdu gosnmp.SnmpPDU) (string, error) {
	switch pdu.Type {
	case gosnmp.OctetString:
		b, ok := pdu.Value.([]byte)
		if !ok {
			return "", fmt.Errorf("%s: octet string holds %T", pdu.Name, pdu.Value)
		}
		return strings.TrimRight(string(b), "\x00"), nil
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Gauge32, gosnmp.Counter64, gosnmp.Uinteger32, gosnmp.TimeTicks:
		return gosnmp.ToBigInt(pdu.Value).String(), nil
	default:
		return "", fmt.Errorf("%s: unexpected type %v", pdu.Name, pdu.Type)
	}
}

// Int reads a varbind as an integer. Some firmware levels answer integer
// objects with a numeric OctetString, which is accepted too.
func Int(pdu gosnmp.SnmpPDU) (int64, error) {
	switch pdu.Type {
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Gauge32, gosnmp.Counter64, gosnmp.Uinteger32, gosnmp.TimeTicks:
		return gosnmp.ToBigInt(pdu.Value).Int64(), nil
	case gosnmp.OctetString:
		s, err := String(pdu)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not an integer", pdu.Name, s)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%s: unexpected type %v", pdu.Name, pdu.Type)
	}
}
