package cmd

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spigell/rfp-responder/internal/pipeline"
	"github.com/spigell/rfp-responder/internal/rfp"
)

func TestReferenceDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 19, 17, 45, 0, 0, time.UTC)

	got, err := referenceDate("", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected today at midnight, got %s", got)
	}

	got, err = referenceDate(" 2026-12-01 ", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day() != 1 || got.Month() != time.December {
		t.Fatalf("unexpected date: %s", got)
	}

	if _, err := referenceDate("01/12/2026", now); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestHandleAction(t *testing.T) {
	ref := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	p, err := pipeline.New(pipeline.DefaultConfig(), rfp.SampleDataset(ref), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err := p.Run(2, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out bytes.Buffer
	if err := handleAction("final", &out, zap.NewNop(), state, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Final Bid Recommendation") {
		t.Fatalf("expected final view, got %q", out.String())
	}

	if err := handleAction(PromptExit, &out, zap.NewNop(), state, p); !errors.Is(err, errExit) {
		t.Fatalf("expected exit, got %v", err)
	}

	if err := handleAction("dashboard", &out, zap.NewNop(), state, p); err == nil {
		t.Fatalf("expected error for unknown action")
	}

	items := promptItems()
	if len(items) != 7 || items[len(items)-1] != PromptExit {
		t.Fatalf("unexpected prompt items: %v", items)
	}
}

func TestLoadDatasetFallsBackToSample(t *testing.T) {
	ref := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	dataset, err := loadDataset("  ", ref, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dataset.Len() != 10 {
		t.Fatalf("expected sample dataset, got %d rfps", dataset.Len())
	}

	if _, err := loadDataset("does-not-exist.yaml", ref, zap.NewNop()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestRunFields(t *testing.T) {
	ref := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	p, err := pipeline.New(pipeline.DefaultConfig(), rfp.SampleDataset(ref), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err := p.Run(3, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range runFields(state) {
		f.AddTo(enc)
	}

	if enc.Fields["run_id"] != state.RunID {
		t.Fatalf("expected run id %q, got %v", state.RunID, enc.Fields["run_id"])
	}
	if enc.Fields["selected"] != int64(3) || enc.Fields["bids"] != int64(3) || enc.Fields["rfps"] != int64(10) {
		t.Fatalf("unexpected fields: %v", enc.Fields)
	}
}
