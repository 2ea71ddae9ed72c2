// Package scoring ranks RFPs by urgency and portfolio relevance.
package scoring

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/spigell/rfp-responder/internal/rfp"
)

const (
	// HorizonDays is the due-date distance at which urgency decays to zero.
	HorizonDays = 90

	urgencyWeight   = 0.6
	relevanceWeight = 0.4

	highThreshold   = 0.75
	mediumThreshold = 0.60
)

// Priority is the tier assigned to a scored RFP.
type Priority string

const (
	PriorityHigh      Priority = "High"
	PriorityMedium    Priority = "Medium"
	PriorityLow       Priority = "Low"
	PriorityDiscarded Priority = "Discarded"
)

// ScoredRFP is an RFP with its opportunity score for one reference date.
type ScoredRFP struct {
	RFP      rfp.RFP  `json:"rfp"`
	DaysLeft int      `json:"days_left"`
	Urgency  float64  `json:"urgency"`
	Score    float64  `json:"score"`
	Priority Priority `json:"priority"`
	Relevant bool     `json:"relevant"`
}

// Score evaluates every RFP and returns them ordered by score, highest first.
// RFPs with equal scores keep their input order. A malformed RFP fails the
// whole call with a ValidationError.
func Score(rfps []rfp.RFP, portfolio rfp.Portfolio, ref time.Time) ([]ScoredRFP, error) {
	scored := make([]ScoredRFP, 0, len(rfps))
	for _, r := range rfps {
		s, err := ScoreOne(r, portfolio, ref)
		if err != nil {
			return nil, err
		}
		scored = append(scored, s)
	}

	slices.SortStableFunc(scored, func(a, b ScoredRFP) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return scored, nil
}

// ScoreOne scores a single RFP.
func ScoreOne(r rfp.RFP, portfolio rfp.Portfolio, ref time.Time) (ScoredRFP, error) {
	if err := r.Validate(); err != nil {
		return ScoredRFP{}, err
	}

	relevant := portfolio.Contains(r.Product)
	daysLeft := rfp.DaysBetween(ref, r.DueDate)
	urgency := Urgency(daysLeft)

	relevance := 0.0
	if relevant {
		relevance = 1
	}

	// Irrelevant RFPs still collect the urgency share of the score.
	score := round(urgencyWeight*urgency+relevanceWeight*relevance, 2)

	return ScoredRFP{
		RFP:      r,
		DaysLeft: daysLeft,
		Urgency:  urgency,
		Score:    score,
		Priority: Tier(score, relevant),
		Relevant: relevant,
	}, nil
}

// Urgency maps days left to [0, 1]: 1 when due today or overdue, 0 at HorizonDays or beyond.
func Urgency(daysLeft int) float64 {
	u := float64(HorizonDays-daysLeft) / HorizonDays
	return math.Min(1, math.Max(0, u))
}

// Tier assigns the priority tier. Irrelevant RFPs are discarded regardless of score.
func Tier(score float64, relevant bool) Priority {
	switch {
	case !relevant:
		return PriorityDiscarded
	case score >= highThreshold:
		return PriorityHigh
	case score >= mediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
