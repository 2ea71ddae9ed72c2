package pipeline

import (
	"encoding/json"
	"os"

	"github.com/spigell/rfp-responder/internal/matching"
	"github.com/spigell/rfp-responder/internal/pricing"
	"github.com/spigell/rfp-responder/internal/rfp"
	"github.com/spigell/rfp-responder/internal/scoring"
)

// Decision is the bid verdict for an RFP.
type Decision string

const (
	DecisionBid   Decision = "Bid"
	DecisionNoBid Decision = "No Bid"
)

// Recommendation is the final verdict for one selected RFP.
type Recommendation struct {
	RFP         rfp.RFP              `json:"rfp"`
	Item        rfp.CatalogItem      `json:"item"`
	MatchPct    float64              `json:"match_pct"`
	Feasibility matching.Feasibility `json:"feasibility"`
	Quote       pricing.Quote        `json:"quote"`
	Decision    Decision             `json:"decision"`
}

// Assemble builds one recommendation per selected RFP, in selection order.
//
// The top match is bid on even when its feasibility is Reject, provided its
// match percentage clears the threshold.
func (p *Pipeline) Assemble(selected []scoring.ScoredRFP) ([]Recommendation, error) {
	recommendations := make([]Recommendation, 0, len(selected))
	for _, s := range selected {
		best, quote, err := p.quote(s.RFP)
		if err != nil {
			return nil, err
		}

		recommendations = append(recommendations, Recommendation{
			RFP:         s.RFP,
			Item:        best.Item,
			MatchPct:    best.MatchPct,
			Feasibility: best.Feasibility,
			Quote:       quote,
			Decision:    Decide(best.MatchPct, p.cfg.BidThreshold),
		})
	}
	return recommendations, nil
}

// Decide returns Bid when the match percentage reaches the threshold.
func Decide(matchPct, threshold float64) Decision {
	if matchPct >= threshold {
		return DecisionBid
	}
	return DecisionNoBid
}

// CountDecision counts recommendations with the given decision.
func CountDecision(recommendations []Recommendation, d Decision) int {
	n := 0
	for _, r := range recommendations {
		if r.Decision == d {
			n++
		}
	}
	return n
}

// DumpToTmpFile writes the run state as JSON into a temporary file and returns its name.
func (s *State) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "rfp-run_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return file.Name(), nil
}
