package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldRFP is the structured log field key for the RFP identifier.
	FieldRFP = "rfp_id"
	// FieldProduct is the structured log field key for the requested product.
	FieldProduct = "product"
	// FieldSKU is the structured log field key for the chosen catalog item.
	FieldSKU = "sku"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// RFPFields returns the fields identifying an RFP and the catalog item chosen for it.
// Empty values are ignored.
func RFPFields(rfpID, product, sku string) []zap.Field {
	return StringFields(
		StringField{Key: FieldRFP, Value: rfpID},
		StringField{Key: FieldProduct, Value: product},
		StringField{Key: FieldSKU, Value: sku},
	)
}
