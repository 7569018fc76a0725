package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldTenderOCID is the structured log field key for the tender OCID.
	FieldTenderOCID = "tender_ocid"
	// FieldTenderTitle is the structured log field key for the tender title.
	FieldTenderTitle = "tender_title"
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

// WithFields attaches fields to logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// TenderFields returns the fields identifying a tender. Empty values are skipped.
func TenderFields(ocid, title string) []zap.Field {
	return StringFields(
		StringField{Key: FieldTenderOCID, Value: ocid},
		StringField{Key: FieldTenderTitle, Value: title},
	)
}

func WithTenderFields(logger *zap.Logger, ocid, title string) *zap.Logger {
	return WithFields(logger, TenderFields(ocid, title)...)
}
