package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldCandidateID = "candidate_id"
	FieldJobID       = "job_id"
	FieldIntent      = "intent"
	// FieldProvider is the structured log field key for the speech provider name.
	FieldProvider = "voice_provider"
	// FieldModel is the structured log field key for the speech model identifier.
	FieldModel = "voice_model"
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

// WithFields safely attaches the provided fields to the logger, defaulting to a
// no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CandidateFields describes a candidate and, when known, the job it applied to.
func CandidateFields(candidateID, jobID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldCandidateID, Value: candidateID},
		StringField{Key: FieldJobID, Value: jobID},
	)
}

func JobFields(jobID string) []zap.Field {
	return StringFields(StringField{Key: FieldJobID, Value: jobID})
}

// VoiceFields returns the fields describing the speech provider and model.
func VoiceFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
