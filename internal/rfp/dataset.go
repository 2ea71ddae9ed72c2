package rfp

import (
	"fmt"
	"maps"
	"slices"
)

// Dataset bundles the RFPs and the read-only reference data for one run.
type Dataset struct {
	RFPs      []RFP
	Catalog   []CatalogItem
	Portfolio Portfolio
	Pricing   PricingTable
	TestCosts TestCostTable
}

// Validate checks every record and table before the pipeline touches them.
func (d *Dataset) Validate() error {
	if d == nil {
		return invalid("dataset", "must not be nil")
	}

	seen := make(map[string]struct{}, len(d.RFPs))
	for _, r := range d.RFPs {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, ok := seen[r.ID]; ok {
			return invalid("rfp id", "duplicate id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	if len(d.Catalog) == 0 {
		return invalid("catalog", "must contain at least one item")
	}
	seen = make(map[string]struct{}, len(d.Catalog))
	for _, item := range d.Catalog {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, ok := seen[item.ID]; ok {
			return invalid("catalog item id", "duplicate id %q", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	for id, price := range d.Pricing {
		if price <= 0 {
			return invalid(TablePricing, "unit price for %q must be positive, got %d", id, price)
		}
	}
	for test, cost := range d.TestCosts {
		if cost <= 0 {
			return invalid(TableTestCosts, "cost for %q must be positive, got %d", test, cost)
		}
	}

	return nil
}

// Clone returns a deep copy, so later changes to d do not reach the copy.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}

	c := &Dataset{
		RFPs:      make([]RFP, 0, len(d.RFPs)),
		Catalog:   make([]CatalogItem, 0, len(d.Catalog)),
		Portfolio: maps.Clone(d.Portfolio),
		Pricing:   maps.Clone(d.Pricing),
		TestCosts: maps.Clone(d.TestCosts),
	}
	for _, r := range d.RFPs {
		r.Standards = slices.Clone(r.Standards)
		r.Tests = slices.Clone(r.Tests)
		c.RFPs = append(c.RFPs, r)
	}
	for _, item := range d.Catalog {
		item.Standards = slices.Clone(item.Standards)
		c.Catalog = append(c.Catalog, item)
	}

	return c
}

// FindRFP returns the RFP with the given ID.
func (d *Dataset) FindRFP(id string) (RFP, error) {
	for _, r := range d.RFPs {
		if r.ID == id {
			return r, nil
		}
	}
	return RFP{}, fmt.Errorf("rfp %q not found", id)
}

// Len returns the number of RFPs.
func (d *Dataset) Len() int {
	return len(d.RFPs)
}
