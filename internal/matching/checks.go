package matching

import (
	"strings"

	"github.com/spigell/rfp-responder/internal/rfp"
)

const (
	CheckVoltage    = "Voltage"
	CheckInsulation = "Insulation"
	CheckStandards  = "Standards"
	CheckConductor  = "Conductor"
)

// Check is one specification attribute compared between an RFP and a catalog item.
// A failing critical check rejects the item.
type Check struct {
	Name     string
	Critical bool
	Evaluate func(r rfp.RFP, item rfp.CatalogItem) bool
}

// DefaultChecks returns the cable checks in display order.
//
// Insulation and conductor material carry no comparison data yet and always pass.
func DefaultChecks() []Check {
	return []Check{
		VoltageCheck(),
		{Name: CheckInsulation, Critical: false, Evaluate: alwaysPass},
		StandardsCheck(),
		{Name: CheckConductor, Critical: false, Evaluate: alwaysPass},
	}
}

// VoltageCheck passes when the item name starts with the RFP's required voltage class.
func VoltageCheck() Check {
	return Check{
		Name:     CheckVoltage,
		Critical: true,
		Evaluate: func(r rfp.RFP, item rfp.CatalogItem) bool {
			return strings.HasPrefix(item.Name, string(RequiredVoltage(r.Product)))
		},
	}
}

// StandardsCheck passes when the item supports every standard the RFP requires.
func StandardsCheck() Check {
	return Check{
		Name:     CheckStandards,
		Critical: true,
		Evaluate: func(r rfp.RFP, item rfp.CatalogItem) bool {
			return item.Supports(r.Standards)
		},
	}
}

func alwaysPass(rfp.RFP, rfp.CatalogItem) bool { return true }
