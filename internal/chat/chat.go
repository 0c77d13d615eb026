// Package chat keeps the conversation log with the career assistant.
package chat

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/backend"
	"github.com/spigell/career-compass/internal/parser"
)

const (
	Greeting = "Hello! I am your learning assistant. How can I help you today?"
	Apology  = "Sorry, something went wrong. Please try again."
)

type Sender int

const (
	User Sender = iota
	Assistant
)

func (s Sender) String() string {
	if s == User {
		return "user"
	}
	return "assistant"
}

type Message struct {
	Sender Sender
	Text   string
}

// Replier answers one chat turn.
type Replier interface {
	Chat(ctx context.Context, req backend.ChatRequest) (string, error)
}

// Session is an append-only transcript. At most one exchange is outstanding:
// Send holds the exchange lock for the whole round trip, so a reply is always
// appended before the next user message.
type Session struct {
	exchange sync.Mutex

	mu       sync.RWMutex
	messages []Message
	pending  bool

	replier Replier
	logger  *zap.Logger
}

func New(replier Replier, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		replier:  replier,
		logger:   logger,
		messages: []Message{{Sender: Assistant, Text: Greeting}},
	}
}

// Send appends text as a user message and then the assistant's reply.
// Blank text is ignored. Backend failures append Apology instead of an error;
// a canceled exchange appends nothing further and returns the cancellation,
// even when a reply arrived.
func (s *Session) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.exchange.Lock()
	defer s.exchange.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.messages = append(s.messages, Message{Sender: User, Text: text})
	s.pending = true
	s.mu.Unlock()

	reply, err := s.replier.Chat(ctx, backend.ChatRequest{Message: text})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false

	switch {
	case ctx.Err() != nil:
		s.logger.Debug("chat exchange canceled", zap.Error(err))
		return ctx.Err()
	case err == nil:
		s.messages = append(s.messages, Message{Sender: Assistant, Text: parser.BreakSentences(reply)})
	case backend.IsCanceled(err):
		s.logger.Debug("chat exchange canceled", zap.Error(err))
		return err
	default:
		s.logger.Warn("chat exchange failed", zap.Error(err))
		s.messages = append(s.messages, Message{Sender: Assistant, Text: Apology})
	}

	return nil
}

// Transcript returns a copy of the log.
func (s *Session) Transcript() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message(nil), s.messages...)
}

// Pending reports whether a reply is being awaited.
func (s *Session) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// Reset returns the transcript to the greeting.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []Message{{Sender: Assistant, Text: Greeting}}
	s.pending = false
}
