package types

import "strings"

// HardwareStatus represents the reported state of the dispenser hardware
type HardwareStatus string

const (
	HardwareStatusReady   HardwareStatus = "READY"
	HardwareStatusAlarm   HardwareStatus = "ALARM"
	HardwareStatusOffline HardwareStatus = "OFFLINE"
	HardwareStatusUnknown HardwareStatus = "UNKNOWN"
)

// String returns the string representation of the hardware status
func (s HardwareStatus) String() string {
	return string(s)
}

// NormalizeHardwareStatus maps a raw status string reported by the device to a
// known status. Unrecognized values become HardwareStatusUnknown.
func NormalizeHardwareStatus(raw string) HardwareStatus {
	upper := strings.ToUpper(raw)
	switch {
	case strings.Contains(upper, "ALARM"):
		return HardwareStatusAlarm
	case strings.Contains(upper, "READY"):
		return HardwareStatusReady
	case strings.Contains(upper, "OFFLINE"):
		return HardwareStatusOffline
	default:
		return HardwareStatusUnknown
	}
}
