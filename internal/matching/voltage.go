package matching

import "strings"

// VoltageClass is the voltage rating token that prefixes catalog item names.
type VoltageClass string

const (
	Voltage220kV VoltageClass = "220kV"
	Voltage132kV VoltageClass = "132kV"
	Voltage33kV  VoltageClass = "33kV"
	VoltageLT    VoltageClass = "LT"
)

// voltageClasses is ordered from the highest class down, so a product naming
// several classes resolves to the highest one.
var voltageClasses = []struct {
	token string
	class VoltageClass
}{
	{token: "220kV", class: Voltage220kV},
	{token: "132kV", class: Voltage132kV},
	{token: "33kV", class: Voltage33kV},
}

// RequiredVoltage derives the voltage class from an RFP product name. Products
// naming no known class fall back to low tension.
func RequiredVoltage(product string) VoltageClass {
	for _, vc := range voltageClasses {
		if strings.Contains(product, vc.token) {
			return vc.class
		}
	}
	return VoltageLT
}
