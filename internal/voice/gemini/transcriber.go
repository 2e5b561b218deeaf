package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/talentsage/internal/logger"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 2
	provider          = "gemini"

	transcribePrompt = "Transcribe the spoken words in this recording verbatim. Reply with the transcript only."
)

var sleep = time.Sleep

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Transcriber converts audio to text with a Gemini model.
type Transcriber struct {
	models     contentGenerator
	modelName  string
	maxRetries int
	logger     *zap.Logger
}

type Config struct {
	APIKey     string
	Model      string
	MaxRetries int
}

// NewTranscriber creates a Transcriber backed by the Gemini API.
func NewTranscriber(ctx context.Context, cfg Config, log *zap.Logger) (*Transcriber, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newTranscriber(client.Models, cfg, log), nil
}

func newTranscriber(models contentGenerator, cfg Config, log *zap.Logger) *Transcriber {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	return &Transcriber{
		models:     models,
		modelName:  model,
		maxRetries: retries,
		logger:     logger.WithFields(log, logger.VoiceFields(provider, model)...),
	}
}

func (t *Transcriber) Model() string {
	if t == nil {
		return ""
	}
	return t.modelName
}

// Transcribe sends the recording inline and returns the model's text reply.
// Server-side and rate-limit errors are retried with a linear backoff.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if t == nil || t.models == nil {
		return "", errors.New("gemini transcriber is not initialized")
	}
	if len(audio) == 0 {
		return "", errors.New("audio must not be empty")
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: transcribePrompt},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: audio}},
		},
	}}

	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			t.logger.Warn("retrying transcription", zap.Int("attempt", attempt), zap.Error(lastErr))
			if err := wait(ctx, time.Duration(attempt)*time.Second); err != nil {
				return "", fmt.Errorf("waiting to retry transcription: %w", err)
			}
		}

		resp, err := t.models.GenerateContent(ctx, t.modelName, contents, nil)
		if err != nil {
			lastErr = err
			if !isTemporary(err) || ctx.Err() != nil {
				break
			}
			continue
		}

		text := responseText(resp)
		if text == "" {
			return "", errors.New("gemini api returned empty transcript")
		}

		t.logger.Debug("audio transcribed", zap.Int("audio_bytes", len(audio)), zap.Int("chars", len(text)))
		return text, nil
	}

	return "", fmt.Errorf("generate transcript: %w", lastErr)
}

// wait sleeps for d unless ctx is done first.
func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		sleep(d)
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func isTemporary(err error) bool {
	var code int
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		code = apiErrPtr.Code
	default:
		return false
	}
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString(" ")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
