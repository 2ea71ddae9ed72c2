// Package pipeline wires the scoring, selection, matching and pricing stages
// into one bid/no-bid run.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/rfp-responder/internal/filtering"
	"github.com/spigell/rfp-responder/internal/logger"
	"github.com/spigell/rfp-responder/internal/matching"
	"github.com/spigell/rfp-responder/internal/pricing"
	"github.com/spigell/rfp-responder/internal/rfp"
	"github.com/spigell/rfp-responder/internal/scoring"
)

const DefaultBidThreshold = 70.0

// Config holds the tunable parameters of a run.
type Config struct {
	// BidThreshold is the minimum top match percentage for a Bid decision.
	BidThreshold float64        `mapstructure:"bid-threshold"`
	Pricing      pricing.Config `mapstructure:"pricing"`
}

func DefaultConfig() Config {
	return Config{
		BidThreshold: DefaultBidThreshold,
		Pricing:      pricing.DefaultConfig(),
	}
}

// Pipeline runs the stages over one dataset. It holds no state between runs.
type Pipeline struct {
	cfg      Config
	dataset  *rfp.Dataset
	matcher  *matching.Matcher
	composer *pricing.Composer
	logger   *zap.Logger
	now      func() time.Time
}

// New validates the dataset and configuration and builds a pipeline.
// The pipeline works on its own copy of the dataset. A nil logger disables logging.
func New(cfg Config, dataset *rfp.Dataset, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	dataset = dataset.Clone()
	if err := dataset.Validate(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	composer, err := pricing.New(cfg.Pricing)
	if err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}

	return &Pipeline{
		cfg:      cfg,
		dataset:  dataset,
		matcher:  matching.New(log),
		composer: composer,
		logger:   log,
		now:      time.Now,
	}, nil
}

// State is the outcome of one run, held by the caller.
type State struct {
	RunID           string              `json:"run_id"`
	RanAt           time.Time           `json:"ran_at"`
	ReferenceDate   time.Time           `json:"reference_date"`
	Capacity        int                 `json:"capacity"`
	Scored          []scoring.ScoredRFP `json:"scored"`
	Selected        []scoring.ScoredRFP `json:"selected"`
	Recommendations []Recommendation    `json:"recommendations"`
}

// Run scores every RFP, selects up to capacity of them and assembles a
// recommendation for each selected RFP. Any stage error aborts the run.
func (p *Pipeline) Run(capacity int, ref time.Time) (*State, error) {
	state := &State{
		RunID:         uuid.NewString(),
		RanAt:         p.now(),
		ReferenceDate: rfp.Day(ref),
		Capacity:      capacity,
	}
	log := p.logger.With(zap.String("run_id", state.RunID))

	scored, err := p.Score(ref)
	if err != nil {
		return nil, fmt.Errorf("scoring rfps: %w", err)
	}
	state.Scored = scored

	selected, err := filtering.Select(state.Scored, capacity, log)
	if err != nil {
		return nil, fmt.Errorf("selecting rfps: %w", err)
	}
	state.Selected = selected

	recommendations, err := p.Assemble(selected)
	if err != nil {
		return nil, err
	}
	state.Recommendations = recommendations

	log.Debug("pipeline completed",
		zap.Int("rfps", len(state.Scored)),
		zap.Int("selected", len(state.Selected)),
		zap.Int("bids", CountDecision(recommendations, DecisionBid)),
	)

	return state, nil
}

// Score ranks all RFPs of the dataset.
func (p *Pipeline) Score(ref time.Time) ([]scoring.ScoredRFP, error) {
	return scoring.Score(p.dataset.RFPs, p.dataset.Portfolio, ref)
}

// Matches evaluates the catalog against the RFP with the given ID.
func (p *Pipeline) Matches(rfpID string) ([]matching.Result, error) {
	r, err := p.dataset.FindRFP(rfpID)
	if err != nil {
		return nil, err
	}
	return p.matcher.Match(r, p.dataset.Catalog)
}

// Quote prices the top match of the RFP with the given ID.
func (p *Pipeline) Quote(rfpID string) (matching.Result, pricing.Quote, error) {
	r, err := p.dataset.FindRFP(rfpID)
	if err != nil {
		return matching.Result{}, pricing.Quote{}, err
	}
	return p.quote(r)
}

// Checks returns the specification checks the matcher evaluates.
func (p *Pipeline) Checks() []matching.Check {
	return p.matcher.Checks()
}

func (p *Pipeline) quote(r rfp.RFP) (matching.Result, pricing.Quote, error) {
	results, err := p.matcher.Match(r, p.dataset.Catalog)
	if err != nil {
		return matching.Result{}, pricing.Quote{}, fmt.Errorf("matching rfp %s: %w", r.ID, err)
	}

	best, err := matching.Best(results)
	if err != nil {
		return matching.Result{}, pricing.Quote{}, fmt.Errorf("matching rfp %s: %w", r.ID, err)
	}

	quote, err := p.composer.Compose(best, r, p.dataset.Pricing, p.dataset.TestCosts)
	if err != nil {
		return matching.Result{}, pricing.Quote{}, err
	}

	logger.WithFields(p.logger, logger.RFPFields(r.ID, r.Product, best.Item.Name)...).Debug("rfp quoted",
		zap.Float64("match_pct", best.MatchPct),
		zap.Int64("final_bid_value", quote.FinalBidValue),
	)

	return best, quote, nil
}
