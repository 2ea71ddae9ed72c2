package rfp

import (
	"slices"
	"strings"
	"time"
)

const (
	TablePricing   = "pricing table"
	TableTestCosts = "test cost table"
)

// RFP is an incoming request for proposal.
type RFP struct {
	ID        string    `json:"id" mapstructure:"id"`
	Buyer     string    `json:"buyer" mapstructure:"buyer"`
	DueDate   time.Time `json:"due_date" mapstructure:"due-date"`
	Product   string    `json:"product" mapstructure:"product"`
	Standards []string  `json:"standards" mapstructure:"standards"`
	Tests     []string  `json:"tests" mapstructure:"tests"`
}

// CatalogItem is a sellable stock item. Its name starts with a voltage class token.
type CatalogItem struct {
	ID        string   `json:"id" mapstructure:"id"`
	Name      string   `json:"name" mapstructure:"name"`
	Standards []string `json:"standards" mapstructure:"standards"`
}

// PricingTable maps a catalog item ID to its unit price.
type PricingTable map[string]int64

// TestCostTable maps a test type to its fixed cost.
type TestCostTable map[string]int64

// Portfolio is the set of product names the seller offers.
type Portfolio map[string]struct{}

func NewPortfolio(products ...string) Portfolio {
	p := make(Portfolio, len(products))
	for _, product := range products {
		p[product] = struct{}{}
	}
	return p
}

// Contains reports an exact product name match.
func (p Portfolio) Contains(product string) bool {
	_, ok := p[product]
	return ok
}

// Products returns the portfolio products in sorted order.
func (p Portfolio) Products() []string {
	products := make([]string, 0, len(p))
	for product := range p {
		products = append(products, product)
	}
	slices.Sort(products)
	return products
}

func (r RFP) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return invalid("rfp id", "must not be empty")
	}
	if strings.TrimSpace(r.Product) == "" {
		return invalid("rfp "+r.ID+" product", "must not be empty")
	}
	if r.DueDate.IsZero() {
		return invalid("rfp "+r.ID+" due date", "must be set")
	}
	if len(r.Standards) == 0 {
		return invalid("rfp "+r.ID+" standards", "at least one required standard expected")
	}
	if len(r.Tests) == 0 {
		return invalid("rfp "+r.ID+" tests", "at least one required test type expected")
	}
	return nil
}

func (c CatalogItem) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return invalid("catalog item id", "must not be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return invalid("catalog item "+c.ID+" name", "must not be empty")
	}
	return nil
}

// Supports reports whether the item carries every given standard.
func (c CatalogItem) Supports(standards []string) bool {
	for _, s := range standards {
		if !slices.Contains(c.Standards, s) {
			return false
		}
	}
	return true
}

// UnitPrice looks up the price of a catalog item. A missing entry is a
// ConfigurationError, a non-positive one a ValidationError.
func (t PricingTable) UnitPrice(itemID string) (int64, error) {
	price, ok := t[itemID]
	if !ok {
		return 0, &ConfigurationError{Table: TablePricing, Key: itemID}
	}
	if price <= 0 {
		return 0, invalid(TablePricing, "unit price for %q must be positive, got %d", itemID, price)
	}
	return price, nil
}

// Total sums the costs of the given test types.
func (t TestCostTable) Total(tests []string) (int64, error) {
	var total int64
	for _, test := range tests {
		cost, ok := t[test]
		if !ok {
			return 0, &ConfigurationError{Table: TableTestCosts, Key: test}
		}
		if cost <= 0 {
			return 0, invalid(TableTestCosts, "cost for %q must be positive, got %d", test, cost)
		}
		total += cost
	}
	return total, nil
}
