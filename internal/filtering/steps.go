package filtering

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/rfp-responder/internal/rfp"
	"github.com/spigell/rfp-responder/internal/scoring"
)

type relevanceFilter struct {
	disabled bool
	reason   string
}

// NewRelevance creates a filter that removes RFPs for products outside the portfolio.
func NewRelevance() Filter {
	return &relevanceFilter{}
}

func (f *relevanceFilter) Name() string { return "relevance" }

func (f *relevanceFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *relevanceFilter) IsEnabled() bool { return !f.disabled }

func (f *relevanceFilter) Validate(*Config) error { return nil }

func (f *relevanceFilter) Apply(deps Deps, items []scoring.ScoredRFP) ([]scoring.ScoredRFP, Step, error) {
	kept, excluded := exclude(items, func(s scoring.ScoredRFP) bool { return !s.Relevant })
	if len(excluded) > 0 {
		deps.Logger.Debug("excluding rfps outside the portfolio",
			zap.Strings("excluded_rfps", excluded),
			zap.Int("rfps_left", len(kept)),
		)
	}

	return kept, Step{Initial: len(items), Dropped: len(excluded), Left: len(kept)}, nil
}

func (f *relevanceFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type priorityFilter struct {
	excluded []scoring.Priority
	disabled bool
	reason   string
}

// NewPriority creates a filter that removes RFPs with any of the given priorities.
func NewPriority(excluded ...scoring.Priority) Filter {
	return &priorityFilter{excluded: excluded}
}

func (f *priorityFilter) Name() string { return "priority" }

func (f *priorityFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *priorityFilter) IsEnabled() bool { return !f.disabled }

func (f *priorityFilter) Validate(*Config) error { return nil }

func (f *priorityFilter) Apply(deps Deps, items []scoring.ScoredRFP) ([]scoring.ScoredRFP, Step, error) {
	kept, excluded := exclude(items, func(s scoring.ScoredRFP) bool {
		for _, p := range f.excluded {
			if s.Priority == p {
				return true
			}
		}
		return false
	})
	if len(excluded) > 0 {
		deps.Logger.Debug("excluding rfps by priority",
			zap.Strings("excluded_rfps", excluded),
			zap.Int("rfps_left", len(kept)),
		)
	}

	return kept, Step{Initial: len(items), Dropped: len(excluded), Left: len(kept)}, nil
}

func (f *priorityFilter) Status() Status {
	names := make([]string, 0, len(f.excluded))
	for _, p := range f.excluded {
		names = append(names, string(p))
	}
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"excluded_priorities": strings.Join(names, ",")},
	}
}

type capacityFilter struct {
	capacity int
}

// NewCapacity creates a filter that keeps the first Config.Capacity RFPs.
func NewCapacity() Filter {
	return &capacityFilter{}
}

func (f *capacityFilter) Name() string { return "capacity" }

// Capacity is mandatory and cannot be switched off.
func (f *capacityFilter) Disable(string) {}

func (f *capacityFilter) IsEnabled() bool { return true }

func (f *capacityFilter) Validate(cfg *Config) error {
	if cfg == nil || cfg.Capacity < 1 {
		got := 0
		if cfg != nil {
			got = cfg.Capacity
		}
		return &rfp.ValidationError{Field: "capacity", Reason: "must be at least 1, got " + strconv.Itoa(got)}
	}
	f.capacity = cfg.Capacity
	return nil
}

func (f *capacityFilter) Apply(deps Deps, items []scoring.ScoredRFP) ([]scoring.ScoredRFP, Step, error) {
	if len(items) <= f.capacity {
		return items, Step{Initial: len(items), Dropped: 0, Left: len(items)}, nil
	}

	kept := items[:f.capacity]
	deps.Logger.Debug("truncating rfps to capacity",
		zap.Int("capacity", f.capacity),
		zap.Int("rfps_left", len(kept)),
	)

	return kept, Step{Initial: len(items), Dropped: len(items) - len(kept), Left: len(kept)}, nil
}

func (f *capacityFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"capacity": strconv.Itoa(f.capacity)},
	}
}
