// Package session is the state container of one interactive session. Each
// slice (auth, navigation, profile, skills, recommendations, hub tools) has
// its own lock and a single owning component that writes it.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/backend"
	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/chat"
	"github.com/spigell/career-compass/internal/interview"
	"github.com/spigell/career-compass/internal/logger"
	"github.com/spigell/career-compass/internal/parser"
	"github.com/spigell/career-compass/internal/profile"
	"github.com/spigell/career-compass/internal/resume"
	"github.com/spigell/career-compass/internal/skills"
	"github.com/spigell/career-compass/internal/wizard"
)

// Tab is the top-level page of the session.
type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabProfile   Tab = "profile"
	TabSkills    Tab = "skills"
	TabCareers   Tab = "careers"
	TabHub       Tab = "hub"
)

// View is the active hub tool.
type View string

const (
	ViewMain           View = "main"
	ViewChat           View = "chatbot"
	ViewCertifications View = "certifications"
	ViewJobListings    View = "joblistings"
	ViewInterview      View = "mockInterview"
	ViewResume         View = "resumeBuilder"
)

// Views lists the hub tools in menu order.
var Views = []View{ViewChat, ViewCertifications, ViewJobListings, ViewInterview, ViewResume}

var viewCategory = map[View]Category{
	ViewChat:           CatChat,
	ViewCertifications: CatCertifications,
	ViewJobListings:    CatJobListings,
	ViewInterview:      CatInterview,
	ViewResume:         CatResume,
}

var ErrEmptyInput = errors.New("input must not be empty")

type User struct {
	Name     string
	Email    string
	Age      int
	SignedIn bool
}

// ToolState is the result slot of a list-producing hub tool.
type ToolState struct {
	Subject string
	Items   []parser.Item
	Loading bool
	Error   string
}

type toolSlot struct {
	mu    sync.RWMutex
	state ToolState
}

func (t *toolSlot) get() ToolState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st := t.state
	st.Items = append([]parser.Item(nil), t.state.Items...)
	return st
}

func (t *toolSlot) update(fn func(*ToolState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.state)
}

type Options struct {
	// Mode is recorded in logs only.
	Mode               string
	InterviewQuestions int
	Logger             *zap.Logger
}

type Store struct {
	id      string
	backend backend.Backend
	flights *Flights
	logger  *zap.Logger

	authMu sync.RWMutex
	user   User

	navMu sync.RWMutex
	tab   Tab
	view  View

	profileMu sync.RWMutex
	profile   *profile.Profile

	skillsMu     sync.RWMutex
	skills       []skills.Rating
	skillsWizard *wizard.Wizard[[]skills.Rating]

	recsMu      sync.RWMutex
	recs        []career.Career
	recsLoading bool
	recsErr     string

	certs toolSlot
	jobs  toolSlot

	interview *interview.Flow
	chat      *chat.Session
	resume    *resume.Builder
}

func New(b backend.Backend, opts Options) *Store {
	id := uuid.NewString()
	log := logger.WithSession(opts.Logger, id, opts.Mode)

	s := &Store{
		id:      id,
		backend: b,
		flights: NewFlights(),
		logger:  log,
		tab:     TabDashboard,
		view:    ViewMain,
	}
	s.skillsWizard = newSkillsWizard(s.finishSkills)
	s.interview = interview.New(b, opts.InterviewQuestions, log.Named("interview"))
	s.chat = chat.New(b, log.Named("chat"))
	s.resume = resume.NewBuilder(b, log.Named("resume"))

	return s
}

func (s *Store) ID() string { return s.id }

// SignIn starts a session for email, naming the user after its local part.
// No identity service is contacted.
func (s *Store) SignIn(email string) error {
	email = strings.TrimSpace(email)
	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		return ErrEmptyInput
	}

	s.authMu.Lock()
	s.user = User{Name: name, Email: email, SignedIn: true}
	s.authMu.Unlock()

	s.setTab(TabDashboard)
	s.logger.Info("signed in", zap.String("user", name))
	return nil
}

// SignUp records a new user and opens the profile tab.
func (s *Store) SignUp(name string, age int, email string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyInput
	}

	s.authMu.Lock()
	s.user = User{Name: name, Email: strings.TrimSpace(email), Age: age, SignedIn: true}
	s.authMu.Unlock()

	s.setTab(TabProfile)
	s.logger.Info("signed up", zap.String("user", name))
	return nil
}

// Logout cancels all in-flight work and resets every slice.
func (s *Store) Logout() {
	s.flights.CancelAll()

	s.authMu.Lock()
	s.user = User{}
	s.authMu.Unlock()

	s.navMu.Lock()
	s.tab = TabDashboard
	s.view = ViewMain
	s.navMu.Unlock()

	s.profileMu.Lock()
	s.profile = nil
	s.profileMu.Unlock()

	s.skillsMu.Lock()
	s.skills = nil
	s.skillsMu.Unlock()
	s.skillsWizard.Reset(skills.Defaults())

	s.recsMu.Lock()
	s.recs = nil
	s.recsLoading = false
	s.recsErr = ""
	s.recsMu.Unlock()

	s.certs.update(func(st *ToolState) { *st = ToolState{} })
	s.jobs.update(func(st *ToolState) { *st = ToolState{} })
	s.interview.Reset()
	s.chat.Reset()
	s.resume.Reset()

	s.logger.Info("logged out")
}

func (s *Store) User() User {
	s.authMu.RLock()
	defer s.authMu.RUnlock()
	return s.user
}

func (s *Store) Tab() Tab {
	s.navMu.RLock()
	defer s.navMu.RUnlock()
	return s.tab
}

func (s *Store) SetTab(tab Tab) { s.setTab(tab) }

func (s *Store) setTab(tab Tab) {
	s.navMu.Lock()
	defer s.navMu.Unlock()
	s.tab = tab
}

func (s *Store) View() View {
	s.navMu.RLock()
	defer s.navMu.RUnlock()
	return s.view
}

// SetView switches the hub tool. Leaving a tool cancels its in-flight
// request so a late response is never applied.
func (s *Store) SetView(view View) {
	s.navMu.Lock()
	prev := s.view
	s.view = view
	s.navMu.Unlock()

	if prev == view {
		return
	}
	if category, ok := viewCategory[prev]; ok {
		s.flights.Cancel(category)
		s.logger.Debug("left hub tool", zap.String("view", string(prev)))
	}
	if slot := s.slotFor(prev); slot != nil {
		slot.update(func(st *ToolState) { st.Loading = false })
	}
}

func (s *Store) slotFor(view View) *toolSlot {
	switch view {
	case ViewCertifications:
		return &s.certs
	case ViewJobListings:
		return &s.jobs
	}
	return nil
}

// SaveProfile validates and stores p, then opens the skills tab.
func (s *Store) SaveProfile(p profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	p.Interests = append([]string(nil), p.Interests...)
	p.Strengths = append([]string(nil), p.Strengths...)
	p.PreferredIndustries = append([]string(nil), p.PreferredIndustries...)

	s.profileMu.Lock()
	s.profile = &p
	s.profileMu.Unlock()

	s.setTab(TabSkills)
	return nil
}

// Profile returns a copy of the saved profile, or nil.
func (s *Store) Profile() *profile.Profile {
	s.profileMu.RLock()
	defer s.profileMu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Skills returns a copy of the submitted skill inventory.
func (s *Store) Skills() []skills.Rating {
	s.skillsMu.RLock()
	defer s.skillsMu.RUnlock()
	return skills.Clone(s.skills)
}

func (s *Store) Recommendations() []career.Career {
	s.recsMu.RLock()
	defer s.recsMu.RUnlock()
	return append([]career.Career(nil), s.recs...)
}

func (s *Store) Interview() *interview.Flow { return s.interview }
func (s *Store) Chat() *chat.Session        { return s.chat }
func (s *Store) Resume() *resume.Builder    { return s.resume }

// Snapshot is a consistent-per-slice read of the whole session.
type Snapshot struct {
	SessionID       string
	User            User
	Tab             Tab
	View            View
	Profile         *profile.Profile
	Skills          []skills.Rating
	Recommendations []career.Career
	Loading         bool
	Error           string
	Certifications  ToolState
	JobListings     ToolState
}

func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:       s.id,
		User:            s.User(),
		Tab:             s.Tab(),
		View:            s.View(),
		Profile:         s.Profile(),
		Skills:          s.Skills(),
		Recommendations: s.Recommendations(),
		Certifications:  s.certs.get(),
		JobListings:     s.jobs.get(),
	}

	s.recsMu.RLock()
	snap.Loading = s.recsLoading
	snap.Error = s.recsErr
	s.recsMu.RUnlock()

	return snap
}

// Close cancels all in-flight requests.
func (s *Store) Close() {
	s.flights.CancelAll()
}

