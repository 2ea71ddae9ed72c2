package rfp

import "time"

// SampleDataset returns the built-in demo portfolio of a cable manufacturer.
// Due dates are relative to the reference date.
func SampleDataset(ref time.Time) *Dataset {
	due := func(days int) time.Time {
		return Day(ref).AddDate(0, 0, days)
	}

	return &Dataset{
		RFPs: []RFP{
			{ID: "1", Buyer: "State Power PSU", DueDate: due(30), Product: "220kV HT XLPE Cable",
				Standards: []string{"IEC 60502", "IS 7098"}, Tests: []string{"Type", "Routine", "Acceptance"}},
			{ID: "2", Buyer: "Metro Rail Corporation", DueDate: due(65), Product: "33kV HT Cable",
				Standards: []string{"IEC 60502"}, Tests: []string{"Routine"}},
			{ID: "3", Buyer: "Steel Plant", DueDate: due(55), Product: "LT Control Cable",
				Standards: []string{"IS 694"}, Tests: []string{"Routine"}},
			{ID: "4", Buyer: "Transmission PSU", DueDate: due(80), Product: "132kV HT XLPE Cable",
				Standards: []string{"IEC 60502"}, Tests: []string{"Type", "Routine"}},
			{ID: "5", Buyer: "Solar Park Developer", DueDate: due(45), Product: "33kV HT Cable",
				Standards: []string{"IEC 60502"}, Tests: []string{"Routine"}},
			{ID: "6", Buyer: "Refinery Project", DueDate: due(70), Product: "LT Control Cable",
				Standards: []string{"IS 694"}, Tests: []string{"Routine"}},
			{ID: "7", Buyer: "Urban Infra Authority", DueDate: due(35), Product: "132kV HT XLPE Cable",
				Standards: []string{"IEC 60502"}, Tests: []string{"Type", "Routine"}},
			{ID: "8", Buyer: "Industrial EPC", DueDate: due(60), Product: "220kV HT XLPE Cable",
				Standards: []string{"IEC 60502", "IS 7098"}, Tests: []string{"Routine"}},
			{ID: "9", Buyer: "Airport Authority", DueDate: due(50), Product: "33kV HT Cable",
				Standards: []string{"IEC 60502"}, Tests: []string{"Routine"}},
			{ID: "10", Buyer: "IT Park Developer", DueDate: due(40), Product: "Optical Fiber Cable",
				Standards: []string{"IEC"}, Tests: []string{"Routine"}},
		},
		Portfolio: NewPortfolio(
			"220kV HT XLPE Cable",
			"132kV HT XLPE Cable",
			"33kV HT Cable",
			"LT Control Cable",
		),
		Catalog: []CatalogItem{
			{ID: "1", Name: "220kV-XLPE-CU", Standards: []string{"IEC 60502", "IS 7098"}},
			{ID: "2", Name: "220kV-XLPE-AL", Standards: []string{"IEC 60502"}},
			{ID: "3", Name: "132kV-XLPE-AL", Standards: []string{"IEC 60502"}},
			{ID: "4", Name: "33kV-XLPE-AL", Standards: []string{"IEC 60502"}},
			{ID: "5", Name: "LT-PVC-CU", Standards: []string{"IS 694"}},
			{ID: "6", Name: "LT-PVC-AL", Standards: []string{"IS 694"}},
		},
		Pricing: PricingTable{
			"1": 120000,
			"2": 110000,
			"3": 80000,
			"4": 45000,
			"5": 15000,
			"6": 12000,
		},
		TestCosts: TestCostTable{
			"Type":       500000,
			"Routine":    50000,
			"Acceptance": 200000,
		},
	}
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from ref to due. Negative when due is in the past.
func DaysBetween(ref, due time.Time) int {
	return int(Day(due).Sub(Day(ref)).Hours() / 24)
}
