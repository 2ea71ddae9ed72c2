package pipeline

import (
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/rfp-responder/internal/matching"
	"github.com/spigell/rfp-responder/internal/rfp"
	"github.com/spigell/rfp-responder/internal/scoring"
)

var ref = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

func newPipeline(t *testing.T, dataset *rfp.Dataset) *Pipeline {
	t.Helper()
	p, err := New(DefaultConfig(), dataset, nil)
	require.NoError(t, err)
	return p
}

func TestRunSampleDataset(t *testing.T) {
	p := newPipeline(t, rfp.SampleDataset(ref))

	state, err := p.Run(5, ref)
	require.NoError(t, err)

	assert.NotEmpty(t, state.RunID)
	assert.Equal(t, 5, state.Capacity)
	assert.Len(t, state.Scored, 10)
	require.Len(t, state.Selected, 5)
	require.Len(t, state.Recommendations, 5)

	type row struct {
		id    string
		sku   string
		value int64
	}
	want := []row{
		{id: "1", sku: "220kV-XLPE-CU", value: 1950000},
		{id: "7", sku: "132kV-XLPE-AL", value: 1350000},
		{id: "5", sku: "33kV-XLPE-AL", value: 500000},
		{id: "9", sku: "33kV-XLPE-AL", value: 500000},
		{id: "3", sku: "LT-PVC-CU", value: 200000},
	}

	for i, w := range want {
		rec := state.Recommendations[i]
		assert.Equal(t, w.id, rec.RFP.ID)
		assert.Equal(t, state.Selected[i].RFP.ID, rec.RFP.ID)
		assert.Equal(t, w.sku, rec.Item.Name)
		assert.Equal(t, w.value, rec.Quote.FinalBidValue)
		assert.Equal(t, DecisionBid, rec.Decision)
		assert.Equal(t, matching.Feasible, rec.Feasibility)
	}
}

func TestRunThirtyThreeKVExample(t *testing.T) {
	dataset := &rfp.Dataset{
		RFPs: []rfp.RFP{{
			ID:        "5",
			Buyer:     "Solar Park Developer",
			DueDate:   rfp.Day(ref).AddDate(0, 0, 45),
			Product:   "33kV HT Cable",
			Standards: []string{"IEC 60502"},
			Tests:     []string{"Routine"},
		}},
		Portfolio: rfp.NewPortfolio("33kV HT Cable"),
		Catalog:   []rfp.CatalogItem{{ID: "4", Name: "33kV-XLPE-AL", Standards: []string{"IEC 60502"}}},
		Pricing:   rfp.PricingTable{"4": 45000},
		TestCosts: rfp.TestCostTable{"Routine": 50000},
	}

	state, err := newPipeline(t, dataset).Run(1, ref)
	require.NoError(t, err)

	require.Len(t, state.Scored, 1)
	assert.Equal(t, 0.70, state.Scored[0].Score)
	assert.Equal(t, scoring.PriorityMedium, state.Scored[0].Priority)

	require.Len(t, state.Recommendations, 1)
	rec := state.Recommendations[0]
	assert.Equal(t, 100.0, rec.MatchPct)
	assert.Equal(t, int64(450000), rec.Quote.MaterialCost)
	assert.Equal(t, int64(50000), rec.Quote.TestingCost)
	assert.Equal(t, int64(0), rec.Quote.UpliftValue)
	assert.Equal(t, int64(500000), rec.Quote.FinalBidValue)
	assert.Equal(t, DecisionBid, rec.Decision)
}

func TestRunIsIdempotent(t *testing.T) {
	p := newPipeline(t, rfp.SampleDataset(ref))

	first, err := p.Run(7, ref)
	require.NoError(t, err)
	second, err := p.Run(7, ref)
	require.NoError(t, err)

	a, err := json.Marshal(first.Recommendations)
	require.NoError(t, err)
	b, err := json.Marshal(second.Recommendations)
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRejectedTopMatchStillBids(t *testing.T) {
	dataset := rfp.SampleDataset(ref)
	dataset.RFPs = []rfp.RFP{{
		ID:        "x",
		Buyer:     "Grid Operator",
		DueDate:   rfp.Day(ref),
		Product:   "220kV HT XLPE Cable",
		Standards: []string{"IEC 60502", "IEC 62067"},
		Tests:     []string{"Routine"},
	}}

	state, err := newPipeline(t, dataset).Run(1, ref)
	require.NoError(t, err)
	require.Len(t, state.Recommendations, 1)

	rec := state.Recommendations[0]
	assert.Equal(t, "220kV-XLPE-CU", rec.Item.Name)
	assert.Equal(t, 75.0, rec.MatchPct)
	assert.Equal(t, matching.Reject, rec.Feasibility)
	assert.Equal(t, DecisionBid, rec.Decision)
	// (1200000 + 50000) * 10%
	assert.Equal(t, int64(125000), rec.Quote.UpliftValue)
	assert.Equal(t, int64(1375000), rec.Quote.FinalBidValue)
}

func TestDecide(t *testing.T) {
	assert.Equal(t, DecisionBid, Decide(70, DefaultBidThreshold))
	assert.Equal(t, DecisionBid, Decide(100, DefaultBidThreshold))
	assert.Equal(t, DecisionNoBid, Decide(66.7, DefaultBidThreshold))
	assert.Equal(t, DecisionNoBid, Decide(50, DefaultBidThreshold))
}

func TestRunFailsFastOnMissingTestCost(t *testing.T) {
	dataset := rfp.SampleDataset(ref)
	delete(dataset.TestCosts, "Acceptance")

	_, err := newPipeline(t, dataset).Run(5, ref)

	var cerr *rfp.ConfigurationError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, "Acceptance", cerr.Key)
}

func TestRunFailsFastOnMissingPrice(t *testing.T) {
	dataset := rfp.SampleDataset(ref)
	delete(dataset.Pricing, "4")

	_, err := newPipeline(t, dataset).Run(5, ref)

	var cerr *rfp.ConfigurationError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, rfp.TablePricing, cerr.Table)
}

func TestRunRejectsInvalidInput(t *testing.T) {
	var verr *rfp.ValidationError

	_, err := newPipeline(t, rfp.SampleDataset(ref)).Run(0, ref)
	assert.True(t, errors.As(err, &verr), "capacity 0: %v", err)

	broken := rfp.SampleDataset(ref)
	broken.RFPs[3].Standards = nil
	_, err = New(DefaultConfig(), broken, nil)
	assert.True(t, errors.As(err, &verr), "empty standards: %v", err)

	cfg := DefaultConfig()
	cfg.Pricing.Quantity = 0
	_, err = New(cfg, rfp.SampleDataset(ref), nil)
	assert.True(t, errors.As(err, &verr), "zero quantity: %v", err)
}

func TestStageFunctions(t *testing.T) {
	p := newPipeline(t, rfp.SampleDataset(ref))

	results, err := p.Matches("7")
	require.NoError(t, err)
	require.Len(t, results, 6)
	assert.Equal(t, "132kV-XLPE-AL", results[0].Item.Name)

	best, quote, err := p.Quote("7")
	require.NoError(t, err)
	assert.Equal(t, results[0].Item, best.Item)
	assert.Equal(t, int64(1350000), quote.FinalBidValue)

	_, err = p.Matches("404")
	assert.Error(t, err)
	assert.Len(t, p.Checks(), 4)
}

func TestRunLogsCompletionAtDebugOnly(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	p, err := New(DefaultConfig(), rfp.SampleDataset(ref), zap.New(core))
	require.NoError(t, err)

	state, err := p.Run(3, ref)
	require.NoError(t, err)

	entries := observed.FilterMessage("pipeline completed").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, state.RunID, ctx["run_id"])
	assert.EqualValues(t, 3, ctx["bids"])

	for _, e := range observed.All() {
		assert.Equal(t, zapcore.DebugLevel, e.Level, e.Message)
	}
}

func TestNewCopiesDataset(t *testing.T) {
	dataset := rfp.SampleDataset(ref)
	p := newPipeline(t, dataset)

	delete(dataset.TestCosts, "Acceptance")
	dataset.Pricing["4"] = -1
	dataset.RFPs[0].Standards[0] = "changed"
	dataset.RFPs = nil

	state, err := p.Run(5, ref)
	require.NoError(t, err)
	require.Len(t, state.Recommendations, 5)
	assert.Equal(t, "1", state.Recommendations[0].RFP.ID)
	assert.Equal(t, int64(1950000), state.Recommendations[0].Quote.FinalBidValue)
	assert.NotEqual(t, "changed", state.Recommendations[0].RFP.Standards[0])
}

func TestScoreStage(t *testing.T) {
	p := newPipeline(t, rfp.SampleDataset(ref))

	scored, err := p.Score(ref)
	require.NoError(t, err)
	require.Len(t, scored, 10)
	assert.Equal(t, "1", scored[0].RFP.ID)
}

func TestDumpToTmpFile(t *testing.T) {
	p := newPipeline(t, rfp.SampleDataset(ref))
	state, err := p.Run(2, ref)
	require.NoError(t, err)

	name, err := state.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, state.RunID, decoded.RunID)
	assert.Len(t, decoded.Recommendations, 2)
}
