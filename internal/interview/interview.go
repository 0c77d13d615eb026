// Package interview runs a mock interview: a fixed set of questions is
// fetched for a role, and the user drafts an answer before revealing the
// model answer and moving on.
package interview

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/backend"
)

type State int

const (
	Idle State = iota
	Loaded
	Answering
	Revealed
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Answering:
		return "answering"
	case Revealed:
		return "revealed"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

const fetchFailed = "Failed to fetch interview questions"

var (
	ErrEmptyRole    = errors.New("role must not be empty")
	ErrNotLoaded    = errors.New("no interview in progress")
	ErrNotRevealed  = errors.New("answer has not been revealed")
	ErrLastQuestion = errors.New("already at the final question")
	ErrSuperseded   = errors.New("interview load superseded")
)

// Source fetches question sets.
type Source interface {
	InterviewQuestions(ctx context.Context, req backend.InterviewRequest) (*backend.InterviewSet, error)
}

// Snapshot is a read-only view of the flow.
type Snapshot struct {
	State    State
	Role     string
	Index    int
	Total    int
	Question string
	// Answer is only set once revealed.
	Answer  string
	Draft   string
	Loading bool
	Error   string
}

type Flow struct {
	mu       sync.Mutex
	source   Source
	count    int
	logger   *zap.Logger
	state    State
	role     string
	set      *backend.InterviewSet
	index    int
	draft    string
	revealed bool
	loading  bool
	err      string
	// gen identifies the latest Start; older loads are discarded.
	gen uint64
}

// New returns an idle flow that asks source for count questions per role.
func New(source Source, count int, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{source: source, count: count, logger: logger}
}

// Start fetches questions for role. On failure the flow is idle with the
// error set; on success it is loaded at the first question.
func (f *Flow) Start(ctx context.Context, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrEmptyRole
	}

	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.loading = true
	f.err = ""
	f.mu.Unlock()

	set, err := f.source.InterviewQuestions(ctx, backend.InterviewRequest{Role: role, Count: f.count})
	if err == nil {
		err = set.Validate()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// A newer Start or a Reset owns the flow now.
	if gen != f.gen {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrSuperseded
	}
	f.loading = false

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		if backend.IsCanceled(err) {
			return err
		}
		f.logger.Warn("interview questions fetch failed", zap.String("role", role), zap.Error(err))
		f.resetLocked()
		f.err = backend.UserMessage(err, fetchFailed)
		return err
	}

	f.role = role
	f.set = set
	f.index = 0
	f.draft = ""
	f.revealed = false
	f.state = Loaded
	f.logger.Debug("interview loaded", zap.String("role", role), zap.Int("questions", len(set.Questions)))
	return nil
}

// SetDraft records the user's free-text answer for the current question.
func (f *Flow) SetDraft(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case Loaded, Answering:
		f.draft = text
		f.state = Answering
		return nil
	case Idle:
		return ErrNotLoaded
	default:
		// Revealed or finished: the draft stays readable but frozen.
		return nil
	}
}

// Reveal exposes the model answer for the current question. The draft is
// not scored.
func (f *Flow) Reveal() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Idle {
		return ErrNotLoaded
	}
	f.revealed = true
	if f.index == len(f.set.Questions)-1 {
		f.state = Finished
	} else {
		f.state = Revealed
	}
	return nil
}

// Advance moves to the next question, clearing the draft and reveal flag.
// It is only permitted after Reveal and is a no-op at the final question.
func (f *Flow) Advance() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case Idle:
		return ErrNotLoaded
	case Finished:
		return ErrLastQuestion
	case Revealed:
	default:
		return ErrNotRevealed
	}

	f.index++
	f.draft = ""
	f.revealed = false
	f.state = Answering
	return nil
}

// Reset drops the current interview and any error.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
	f.err = ""
	f.loading = false
	f.gen++
}

func (f *Flow) resetLocked() {
	f.state = Idle
	f.role = ""
	f.set = nil
	f.index = 0
	f.draft = ""
	f.revealed = false
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := Snapshot{
		State:   f.state,
		Role:    f.role,
		Index:   f.index,
		Draft:   f.draft,
		Loading: f.loading,
		Error:   f.err,
	}
	if f.set != nil {
		snap.Total = len(f.set.Questions)
		snap.Question = f.set.Questions[f.index]
		if f.revealed {
			snap.Answer = f.set.Answers[f.index]
		}
	}
	return snap
}
