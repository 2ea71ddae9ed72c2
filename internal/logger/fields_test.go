package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  buyer  ", Value: "  Steel Plant  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "buyer" || fields[0].String != "Steel Plant" {
		t.Fatalf("unexpected buyer field: %+v", fields[0])
	}

	empty := StringFields()
	if len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithFields(logger, zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Ensure logging with the fallback logger does not panic.
	enriched.Info("another log")
}

func TestRFPFields(t *testing.T) {
	fields := RFPFields(" 5 ", "33kV HT Cable", "")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldRFP || fields[0].String != "5" {
		t.Fatalf("unexpected rfp field: %+v", fields[0])
	}

	if fields[1].Key != FieldProduct || fields[1].String != "33kV HT Cable" {
		t.Fatalf("unexpected product field: %+v", fields[1])
	}

	core, observed := observer.New(zapcore.DebugLevel)
	WithFields(zap.New(core), RFPFields("7", "132kV HT XLPE Cable", "132kV-XLPE-AL")...).Debug("rfp quoted")

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldSKU] != "132kV-XLPE-AL" {
		t.Fatalf("expected sku field, got %q", ctx[FieldSKU])
	}
}

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "Metro Rail Corporation",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "Steel Plant",
			limit:  20,
			expect: "Steel Plant",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "Urban Infra Authority",
			limit:  5,
			expect: "Urban...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
