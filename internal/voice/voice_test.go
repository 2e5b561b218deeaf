package voice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/talentsage/internal/assistant"
	"github.com/spigell/talentsage/internal/recruitment"
)

type stubTranscriber struct {
	text     string
	err      error
	conv     *assistant.Conversation
	mode     assistant.Mode
	mimeType string
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, mimeType string) (string, error) {
	s.mimeType = mimeType
	if s.conv != nil {
		s.mode = s.conv.Mode()
	}
	return s.text, s.err
}

func newInterpreter() *assistant.Interpreter {
	store := recruitment.NewStore(recruitment.DefaultFixtures(), nil)
	return assistant.NewInterpreter(store, assistant.WithDelayer(assistant.NoDelay{}))
}

func TestListenSubmitsTranscript(t *testing.T) {
	conv := assistant.NewConversation()
	stub := &stubTranscriber{text: " View all jobs ", conv: conv}
	adapter := NewAdapter(stub, newInterpreter(), nil)

	msg, err := adapter.Listen(context.Background(), conv, []byte{1, 2}, "audio/webm")
	require.NoError(t, err)

	assert.Equal(t, assistant.ModeListening, stub.mode)
	assert.Equal(t, "Here are all active job postings.", msg.Content)

	messages := conv.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "View all jobs", messages[1].Content)
	assert.Equal(t, assistant.ModeIdle, conv.Mode())
}

func TestListenErrors(t *testing.T) {
	conv := assistant.NewConversation()

	_, err := NewAdapter(&stubTranscriber{err: errors.New("boom")}, newInterpreter(), nil).
		Listen(context.Background(), conv, []byte{1}, "audio/wav")
	require.Error(t, err)
	assert.Equal(t, assistant.ModeIdle, conv.Mode())
	assert.False(t, conv.IsListening())

	_, err = NewAdapter(&stubTranscriber{text: "  "}, newInterpreter(), nil).
		Listen(context.Background(), conv, []byte{1}, "audio/wav")
	assert.ErrorIs(t, err, ErrNoSpeech)

	assert.Len(t, conv.Messages(), 1)
}

func TestListenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "command.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0o600))

	stub := &stubTranscriber{text: "hello"}
	adapter := NewAdapter(stub, newInterpreter(), nil)

	_, err := adapter.ListenFile(context.Background(), assistant.NewConversation(), path)
	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", stub.mimeType)

	_, err = adapter.ListenFile(context.Background(), assistant.NewConversation(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestMIMEType(t *testing.T) {
	tests := map[string]string{
		"a.wav":  "audio/wav",
		"b.OGG":  "audio/ogg",
		"c.webm": "audio/webm",
		"d.m4a":  "audio/mp4",
	}
	for path, want := range tests {
		got, err := MIMEType(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := MIMEType("notes.txt")
	assert.Error(t, err)
}
