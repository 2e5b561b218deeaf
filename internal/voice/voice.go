package voice

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentsage/internal/assistant"
	"github.com/spigell/talentsage/internal/logger"
)

// ErrNoSpeech is returned when a recording transcribes to nothing.
var ErrNoSpeech = errors.New("no speech recognized")

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

var audioTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".webm": "audio/webm",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".aac":  "audio/aac",
}

// MIMEType guesses the audio type of a file from its extension.
func MIMEType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t, nil
	}
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "audio/") {
		return t, nil
	}
	return "", fmt.Errorf("unsupported audio file %q", path)
}

// Adapter feeds transcribed speech into the interpreter. It only translates
// audio to text; what the assistant does with the text is unchanged.
type Adapter struct {
	transcriber Transcriber
	interpreter *assistant.Interpreter
	logger      *zap.Logger
}

func NewAdapter(t Transcriber, interpreter *assistant.Interpreter, log *zap.Logger) *Adapter {
	return &Adapter{transcriber: t, interpreter: interpreter, logger: logger.WithFields(log)}
}

// Listen transcribes the recording while the conversation shows listening and
// submits the text as a user command.
func (a *Adapter) Listen(ctx context.Context, conv *assistant.Conversation, audio []byte, mimeType string) (assistant.ChatMessage, error) {
	conv.StartListening()
	text, err := a.transcriber.Transcribe(ctx, audio, mimeType)
	conv.StopListening()
	if err != nil {
		conv.SetMode(assistant.ModeIdle)
		return assistant.ChatMessage{}, fmt.Errorf("transcribe audio: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		conv.SetMode(assistant.ModeIdle)
		return assistant.ChatMessage{}, ErrNoSpeech
	}

	a.logger.Debug("speech transcribed", zap.String("text", logger.TruncateForLog(text, 80)))

	return a.interpreter.Submit(ctx, conv, text)
}

// ListenFile reads a recording from disk and passes it to Listen.
func (a *Adapter) ListenFile(ctx context.Context, conv *assistant.Conversation, path string) (assistant.ChatMessage, error) {
	mimeType, err := MIMEType(path)
	if err != nil {
		return assistant.ChatMessage{}, err
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return assistant.ChatMessage{}, fmt.Errorf("reading audio file %q: %w", path, err)
	}

	return a.Listen(ctx, conv, audio, mimeType)
}
