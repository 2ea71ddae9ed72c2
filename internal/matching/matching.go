// Package matching scores catalog items against the technical requirements of an RFP.
package matching

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/rfp-responder/internal/rfp"
)

// Feasibility is the verdict for a catalog item.
type Feasibility string

const (
	Feasible Feasibility = "Feasible"
	Reject   Feasibility = "Reject"
)

const noDeviations = "None"

// Outcome is the evaluated state of a single check.
type Outcome struct {
	Name     string `json:"name"`
	Critical bool   `json:"critical"`
	Passed   bool   `json:"passed"`
}

// Result is the match of one catalog item against one RFP.
type Result struct {
	Item        rfp.CatalogItem `json:"item"`
	Outcomes    []Outcome       `json:"outcomes"`
	MatchPct    float64         `json:"match_pct"`
	Deviations  []string        `json:"deviations"`
	Feasibility Feasibility     `json:"feasibility"`
}

// Passed reports the outcome of the named check.
func (r Result) Passed(name string) bool {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o.Passed
		}
	}
	return false
}

// DeviationsLabel joins the deviations for display, "None" when there are none.
func (r Result) DeviationsLabel() string {
	if len(r.Deviations) == 0 {
		return noDeviations
	}
	return strings.Join(r.Deviations, ", ")
}

// Matcher evaluates catalog items with a fixed list of checks.
type Matcher struct {
	checks []Check
	logger *zap.Logger
}

// New creates a matcher. DefaultChecks are used when no checks are given.
func New(logger *zap.Logger, checks ...Check) *Matcher {
	if len(checks) == 0 {
		checks = DefaultChecks()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{checks: checks, logger: logger}
}

// Checks returns the checks in evaluation order.
func (m *Matcher) Checks() []Check {
	return slices.Clone(m.checks)
}

// Match evaluates every catalog item against the RFP and returns one result per
// item ordered by match percentage, highest first. Equal percentages keep
// catalog order. Rejected items are kept; callers inspect Feasibility.
func (m *Matcher) Match(r rfp.RFP, catalog []rfp.CatalogItem) ([]Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, &rfp.ValidationError{Field: "catalog", Reason: "must contain at least one item"}
	}

	results := make([]Result, 0, len(catalog))
	for _, item := range catalog {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		results = append(results, m.evaluate(r, item))
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.MatchPct, a.MatchPct)
	})

	m.logger.Debug("catalog matched",
		zap.String("rfp_id", r.ID),
		zap.String("required_voltage", string(RequiredVoltage(r.Product))),
		zap.String("top_sku", results[0].Item.Name),
		zap.Float64("top_match_pct", results[0].MatchPct),
	)

	return results, nil
}

// Best returns the top-ranked result regardless of its feasibility.
func Best(results []Result) (Result, error) {
	if len(results) == 0 {
		return Result{}, errors.New("no match results")
	}
	return results[0], nil
}

func (m *Matcher) evaluate(r rfp.RFP, item rfp.CatalogItem) Result {
	res := Result{
		Item:        item,
		Outcomes:    make([]Outcome, 0, len(m.checks)),
		Deviations:  []string{},
		Feasibility: Feasible,
	}

	passed := 0
	for _, check := range m.checks {
		ok := check.Evaluate(r, item)
		res.Outcomes = append(res.Outcomes, Outcome{Name: check.Name, Critical: check.Critical, Passed: ok})

		if ok {
			passed++
			continue
		}

		res.Deviations = append(res.Deviations, deviation(check))
		if check.Critical {
			res.Feasibility = Reject
		}
	}

	res.MatchPct = math.Round(float64(passed)/float64(len(m.checks))*1000) / 10

	return res
}

func deviation(c Check) string {
	severity := "Acceptable"
	if c.Critical {
		severity = "Critical"
	}
	return fmt.Sprintf("%s (%s)", c.Name, severity)
}
