// Package filtering narrows a ranked RFP list down to the ones the seller has
// capacity to pursue.
package filtering

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/rfp-responder/internal/scoring"
)

// Filter represents a single filtering step applied to scored RFPs.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(deps Deps, items []scoring.ScoredRFP) ([]scoring.ScoredRFP, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	Capacity int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DefaultSteps returns the selection steps in the order they must run.
func DefaultSteps() []Filter {
	return []Filter{
		NewRelevance(),
		NewPriority(scoring.PriorityLow),
		NewCapacity(),
	}
}

// Select keeps relevant RFPs that are not low priority, in ranked order, up to capacity.
// Fewer qualifying RFPs than capacity is not an error.
func Select(scored []scoring.ScoredRFP, capacity int, logger *zap.Logger) ([]scoring.ScoredRFP, error) {
	selected, _, err := Run(&Config{Capacity: capacity}, Deps{Logger: logger}, DefaultSteps(), scored)
	return selected, err
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the surviving RFPs.
// The input slice is never modified.
func Run(cfg *Config, deps Deps, steps []Filter, items []scoring.ScoredRFP) ([]scoring.ScoredRFP, []Step, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	current := make([]scoring.ScoredRFP, len(items))
	copy(current, items)

	reports := make([]Step, 0, len(steps))
	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(deps, current)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		info.Name = step.Name()
		deps.Logger.Debug("filter step",
			zap.String("name", info.Name),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		reports = append(reports, info)
		current = next
	}

	return current, reports, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func exclude(items []scoring.ScoredRFP, drop func(scoring.ScoredRFP) bool) ([]scoring.ScoredRFP, []string) {
	kept := make([]scoring.ScoredRFP, 0, len(items))
	var excluded []string
	for _, item := range items {
		if drop(item) {
			excluded = append(excluded, item.RFP.ID)
			continue
		}
		kept = append(kept, item)
	}
	return kept, excluded
}
