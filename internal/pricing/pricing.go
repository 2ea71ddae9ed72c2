// Package pricing turns the chosen catalog match of an RFP into a commercial quote.
package pricing

import (
	"fmt"

	"github.com/spigell/rfp-responder/internal/matching"
	"github.com/spigell/rfp-responder/internal/rfp"
)

const (
	DefaultQuantity      = 10
	DefaultUpliftPercent = 10
	DefaultFullMatchPct  = 90.0
)

// Config holds the commercial parameters of a quote.
type Config struct {
	// Quantity of units quoted per RFP.
	Quantity int64 `mapstructure:"quantity"`
	// UpliftPercent is the risk premium applied below FullMatchPct.
	UpliftPercent int64 `mapstructure:"uplift-percent"`
	// FullMatchPct is the match percentage from which no uplift is charged.
	FullMatchPct float64 `mapstructure:"full-match-pct"`
}

// DefaultConfig returns the standard quoting parameters.
func DefaultConfig() Config {
	return Config{
		Quantity:      DefaultQuantity,
		UpliftPercent: DefaultUpliftPercent,
		FullMatchPct:  DefaultFullMatchPct,
	}
}

func (c Config) Validate() error {
	if c.Quantity <= 0 {
		return &rfp.ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be positive, got %d", c.Quantity)}
	}
	if c.UpliftPercent < 0 {
		return &rfp.ValidationError{Field: "uplift percent", Reason: fmt.Sprintf("must not be negative, got %d", c.UpliftPercent)}
	}
	return nil
}

// Quote is the cost breakdown of a bid.
type Quote struct {
	SKU           string `json:"sku"`
	UnitPrice     int64  `json:"unit_price"`
	Quantity      int64  `json:"quantity"`
	MaterialCost  int64  `json:"material_cost"`
	TestingCost   int64  `json:"testing_cost"`
	UpliftPercent int64  `json:"uplift_percent"`
	UpliftValue   int64  `json:"uplift_value"`
	FinalBidValue int64  `json:"final_bid_value"`
}

// Component is a labelled amount of a quote.
type Component struct {
	Label  string
	Amount int64
}

// Components lists the quote amounts in presentation order.
func (q Quote) Components() []Component {
	return []Component{
		{Label: "Unit Price", Amount: q.UnitPrice},
		{Label: "Quantity", Amount: q.Quantity},
		{Label: "Material Cost", Amount: q.MaterialCost},
		{Label: "Testing Cost", Amount: q.TestingCost},
		{Label: "Risk / MTO Uplift", Amount: q.UpliftValue},
		{Label: "Final Bid Value", Amount: q.FinalBidValue},
	}
}

// Composer prices match results.
type Composer struct {
	cfg Config
}

func New(cfg Config) (*Composer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Composer{cfg: cfg}, nil
}

// Config returns the parameters the composer quotes with.
func (c *Composer) Config() Config {
	return c.cfg
}

// Compose prices the matched item for the RFP. It fails with a
// ConfigurationError when the item has no price or a required test has no cost,
// and with a ValidationError for a malformed RFP or a non-positive table value.
func (c *Composer) Compose(match matching.Result, r rfp.RFP, prices rfp.PricingTable, tests rfp.TestCostTable) (Quote, error) {
	if err := r.Validate(); err != nil {
		return Quote{}, err
	}

	unitPrice, err := prices.UnitPrice(match.Item.ID)
	if err != nil {
		return Quote{}, fmt.Errorf("pricing %s: %w", match.Item.Name, err)
	}

	testing, err := tests.Total(r.Tests)
	if err != nil {
		return Quote{}, fmt.Errorf("testing costs for rfp %s: %w", r.ID, err)
	}

	material := unitPrice * c.cfg.Quantity

	var upliftPercent int64
	if match.MatchPct < c.cfg.FullMatchPct {
		upliftPercent = c.cfg.UpliftPercent
	}
	// Integer division truncates, amounts are never negative.
	uplift := (material + testing) * upliftPercent / 100

	return Quote{
		SKU:           match.Item.Name,
		UnitPrice:     unitPrice,
		Quantity:      c.cfg.Quantity,
		MaterialCost:  material,
		TestingCost:   testing,
		UpliftPercent: upliftPercent,
		UpliftValue:   uplift,
		FinalBidValue: material + testing + uplift,
	}, nil
}
