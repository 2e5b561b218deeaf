package assistant

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// Greeting seeds every new conversation.
	Greeting = "Hi! I'm your TalentSage AI Assistant. I can help you shortlist candidates, generate evaluation rubrics, schedule interviews, and more. How can I assist you today?"
	// ResetGreeting replaces the transcript on Reset.
	ResetGreeting = "Hi! I'm your TalentSage AI Assistant. How can I help you today?"
)

// Mode drives presentation only. Any mode may follow any other.
type Mode string

const (
	ModeIdle      Mode = "idle"
	ModeListening Mode = "listening"
	ModeThinking  Mode = "thinking"
	ModeSpeaking  Mode = "speaking"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SuggestedAction is a follow-up the UI may offer as a button.
type SuggestedAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

type ChatMessage struct {
	ID        string            `json:"id"`
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Actions   []SuggestedAction `json:"actions,omitempty"`
}

// Conversation holds the transcript and widget state of one chat.
// It is safe for concurrent use.
type Conversation struct {
	mu           sync.RWMutex
	messages     []ChatMessage
	mode         Mode
	currentJobID string
	open         bool
	minimized    bool
	listening    bool
	speaking     bool

	now   func() time.Time
	newID func() string
}

type ConversationOption func(*Conversation)

// WithClock overrides the timestamp source of new messages.
func WithClock(now func() time.Time) ConversationOption {
	return func(c *Conversation) { c.now = now }
}

// WithIDs overrides the id generator of new messages.
func WithIDs(newID func() string) ConversationOption {
	return func(c *Conversation) { c.newID = newID }
}

func NewConversation(opts ...ConversationOption) *Conversation {
	c := &Conversation{
		mode:  ModeIdle,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.messages = []ChatMessage{c.newMessage(RoleAssistant, Greeting, nil)}
	return c
}

// AddMessage appends a message stamped with a fresh id and the current time.
func (c *Conversation) AddMessage(role Role, content string, actions ...SuggestedAction) ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := c.newMessage(role, content, actions)
	c.messages = append(c.messages, msg)
	return cloneMessage(msg)
}

// Messages returns the transcript in display order.
func (c *Conversation) Messages() []ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]ChatMessage, len(c.messages))
	for i, m := range c.messages {
		out[i] = cloneMessage(m)
	}
	return out
}

func (c *Conversation) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

func (c *Conversation) SetMode(mode Mode) {
	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
}

func (c *Conversation) StartListening() {
	c.mu.Lock()
	c.listening = true
	c.mode = ModeListening
	c.mu.Unlock()
}

// StopListening clears the listening flag only. The mode is left for whatever
// happens next to change.
func (c *Conversation) StopListening() {
	c.mu.Lock()
	c.listening = false
	c.mu.Unlock()
}

func (c *Conversation) StartSpeaking() {
	c.mu.Lock()
	c.speaking = true
	c.mode = ModeSpeaking
	c.mu.Unlock()
}

func (c *Conversation) StopSpeaking() {
	c.mu.Lock()
	c.speaking = false
	c.mode = ModeIdle
	c.mu.Unlock()
}

func (c *Conversation) IsListening() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listening
}

func (c *Conversation) IsSpeaking() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.speaking
}

// CurrentJobID is the job the interpreter acts on when set.
func (c *Conversation) CurrentJobID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentJobID
}

func (c *Conversation) SetCurrentJobID(jobID string) {
	c.mu.Lock()
	c.currentJobID = jobID
	c.mu.Unlock()
}

func (c *Conversation) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open
}

func (c *Conversation) IsMinimized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.minimized
}

// Toggle opens a closed widget and closes an open one. Either way the widget
// ends up not minimized.
func (c *Conversation) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = !c.open
	c.minimized = false
}

func (c *Conversation) SetOpen(open bool) {
	c.mu.Lock()
	c.open = open
	c.mu.Unlock()
}

func (c *Conversation) SetMinimized(minimized bool) {
	c.mu.Lock()
	c.minimized = minimized
	c.mu.Unlock()
}

// Reset replaces the transcript with a single greeting, closes the widget and
// returns to idle. The current job is kept.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = []ChatMessage{c.newMessage(RoleAssistant, ResetGreeting, nil)}
	c.mode = ModeIdle
	c.open = false
	c.minimized = false
	c.listening = false
	c.speaking = false
}

// newMessage must be called with the lock held or before the conversation is shared.
func (c *Conversation) newMessage(role Role, content string, actions []SuggestedAction) ChatMessage {
	return ChatMessage{
		ID:        c.newID(),
		Role:      role,
		Content:   content,
		Timestamp: c.now(),
		Actions:   slices.Clone(actions),
	}
}

func cloneMessage(m ChatMessage) ChatMessage {
	m.Actions = slices.Clone(m.Actions)
	return m
}
