package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/career-compass/internal/backend"
	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/chat"
	"github.com/spigell/career-compass/internal/interview"
	"github.com/spigell/career-compass/internal/profile"
	"github.com/spigell/career-compass/internal/skills"
	"github.com/spigell/career-compass/internal/wizard"
)

func validProfile() profile.Profile {
	return profile.Profile{
		Name:                "Asha",
		Age:                 21,
		Education:           "Postgraduate",
		Location:            "Pune",
		Interests:           []string{"Technology", "Science", "Finance"},
		Strengths:           []string{"Problem Solving", "Research", "Writing"},
		PreferredIndustries: []string{"Information Technology", "Startups"},
	}
}

func TestSignInAndSignUp(t *testing.T) {
	s := New(&stubBackend{}, Options{})

	require.ErrorIs(t, s.SignIn("   "), ErrEmptyInput)
	require.NoError(t, s.SignIn("jane.doe@example.com"))
	assert.Equal(t, User{Name: "jane.doe", Email: "jane.doe@example.com", SignedIn: true}, s.User())
	assert.Equal(t, TabDashboard, s.Tab())

	require.ErrorIs(t, s.SignUp("", 20, "x@y.z"), ErrEmptyInput)
	require.NoError(t, s.SignUp("Ravi", 19, "ravi@example.com"))
	assert.Equal(t, "Ravi", s.User().Name)
	assert.Equal(t, 19, s.User().Age)
	assert.Equal(t, TabProfile, s.Tab())
}

func TestSaveProfile(t *testing.T) {
	s := New(&stubBackend{}, Options{})
	s.SetTab(TabProfile)

	bad := validProfile()
	bad.Interests = bad.Interests[:2]
	require.Error(t, s.SaveProfile(bad))
	assert.Nil(t, s.Profile())
	assert.Equal(t, TabProfile, s.Tab())

	p := validProfile()
	require.NoError(t, s.SaveProfile(p))
	assert.Equal(t, TabSkills, s.Tab())

	p.Interests[0] = "Law"
	assert.Equal(t, "Technology", s.Profile().Interests[0], "saved profile is a copy")
}

func TestSkillsWizardKeepsExactLevels(t *testing.T) {
	s := New(&stubBackend{}, Options{})
	w := s.SkillsWizard()

	for level := skills.MinLevel; level <= skills.MaxLevel; level++ {
		require.NoError(t, w.Update(map[string]any{"Programming/Coding": level}))
		got, ok := w.Draft()[0].Level("Programming/Coding")
		require.True(t, ok)
		assert.Equal(t, level, got)
	}

	require.NoError(t, w.Update(map[string]any{"Data Analysis": "4"}))
	got, _ := w.Draft()[0].Level("Data Analysis")
	assert.Equal(t, 4, got)

	for _, padded := range []string{"08", "010", " 3 "} {
		want, _ := strconv.Atoi(strings.TrimSpace(padded))
		require.NoError(t, w.Update(map[string]any{"Data Analysis": padded}))
		got, _ = w.Draft()[0].Level("Data Analysis")
		assert.Equal(t, want, got, "level %q", padded)
	}

	require.Error(t, w.Update(map[string]any{"Data Analysis": 7.5}))
	require.Error(t, w.Update(map[string]any{"Data Analysis": "seven"}))
	require.ErrorIs(t, w.Update(map[string]any{"Marketing": 3}), wizard.ErrForeignField)

	require.NoError(t, w.Update(map[string]any{"Cybersecurity": 42}))
	got, _ = w.Draft()[0].Level("Cybersecurity")
	assert.Equal(t, skills.MaxLevel, got)
}

func TestFinishingSkillsFetchesRecommendations(t *testing.T) {
	var gotReq backend.RecommendationRequest
	b := &stubBackend{recommendations: func(_ context.Context, req backend.RecommendationRequest) ([]career.Career, error) {
		gotReq = req
		return []career.Career{{ID: "c1", Title: "Data Scientist", MatchScore: 88, KeySkills: []string{"Python Programming", "Statistics"}}}, nil
	}}
	s := New(b, Options{})
	require.NoError(t, s.SaveProfile(validProfile()))

	w := s.SkillsWizard()
	require.ErrorIs(t, w.Finish(context.Background(), nil), wizard.ErrNotTerminal)
	for !w.IsTerminal() {
		require.NoError(t, w.Advance(nil))
	}

	require.NoError(t, w.Finish(context.Background(), map[string]any{"Artistic Expression": 9}))

	assert.Equal(t, TabCareers, s.Tab())
	require.NotNil(t, gotReq.Profile)
	assert.Equal(t, "Asha", gotReq.Profile.Name)
	assert.Equal(t, len(skills.Catalogue), len(gotReq.Skills))

	level, ok := s.Skills()[4].Level("Artistic Expression")
	require.True(t, ok)
	assert.Equal(t, 9, level)

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	require.Len(t, snap.Recommendations, 1)
	assert.Equal(t, "Data Scientist", snap.Recommendations[0].Title)
}

func TestLeavingViewDiscardsLateCertifications(t *testing.T) {
	started := make(chan struct{})
	b := &stubBackend{certifications: func(ctx context.Context, _ backend.CertificationRequest) (string, error) {
		close(started)
		<-ctx.Done()
		return "1. **AWS Solutions Architect**: cloud design", nil
	}}
	s := New(b, Options{})
	s.SetView(ViewCertifications)

	done := make(chan error, 1)
	go func() { done <- s.FetchCertifications(context.Background(), "Cloud Engineer") }()
	<-started
	assert.True(t, s.Certifications().Loading)

	s.SetView(ViewMain)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	st := s.Certifications()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Items)
	assert.Empty(t, st.Error)
	assert.Equal(t, 0, s.flights.InFlight(CatCertifications))
}

func TestHubListsAreParsed(t *testing.T) {
	b := &stubBackend{
		certifications: func(_ context.Context, req backend.CertificationRequest) (string, error) {
			if req.CareerTitle != "Data Analyst" {
				return "", errors.New("unexpected title")
			}
			return "1. [Google Data Analytics](https://grow.google/certificates/data-analytics)\n2. Tableau Desktop Specialist (https://www.tableau.com/learn/certification)", nil
		},
		jobListings: func(context.Context, backend.JobListingRequest) (string, error) {
			return "", &backend.Error{Op: backend.OpJobListings, Kind: backend.KindBackend, Status: 400, Message: "Role and location are required"}
		},
	}
	s := New(b, Options{})

	require.ErrorIs(t, s.FetchCertifications(context.Background(), " "), ErrEmptyInput)
	require.NoError(t, s.FetchCertifications(context.Background(), " Data Analyst "))

	certs := s.Certifications()
	assert.Equal(t, "Data Analyst", certs.Subject)
	require.Len(t, certs.Items, 2)
	assert.Equal(t, "Google Data Analytics", certs.Items[0].Text)
	assert.Equal(t, "https://grow.google/certificates/data-analytics", certs.Items[0].URL)
	assert.Equal(t, "Tableau Desktop Specialist", certs.Items[1].Text)

	require.ErrorIs(t, s.FetchJobListings(context.Background(), "Analyst", ""), ErrEmptyInput)
	require.Error(t, s.FetchJobListings(context.Background(), "Analyst", "Delhi"))
	jobs := s.JobListings()
	assert.Equal(t, "Analyst in Delhi", jobs.Subject)
	assert.Equal(t, "Role and location are required", jobs.Error)
	assert.False(t, jobs.Loading)
}

func TestChatThroughSession(t *testing.T) {
	b := &stubBackend{chat: func(_ context.Context, req backend.ChatRequest) (string, error) {
		return "You asked: " + req.Message, nil
	}}
	s := New(b, Options{})
	s.SetView(ViewChat)

	require.NoError(t, s.SendChat(context.Background(), "hi"))
	transcript := s.Chat().Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, chat.User, transcript[1].Sender)
	assert.Equal(t, "You asked: hi", transcript[2].Text)
}

func TestStartInterviewSupersedesPendingLoad(t *testing.T) {
	slowStarted := make(chan struct{})
	fastStarted := make(chan struct{})
	release := make(chan struct{})
	b := &stubBackend{interview: func(ctx context.Context, req backend.InterviewRequest) (*backend.InterviewSet, error) {
		if req.Role == "slow" {
			close(slowStarted)
			return nil, blockUntilCanceled(ctx, backend.OpInterview)
		}
		close(fastStarted)
		<-release
		return &backend.InterviewSet{Questions: []string{"Why Go?"}, Answers: []string{"Because."}}, nil
	}}
	s := New(b, Options{InterviewQuestions: 1})

	slowDone := make(chan error, 1)
	go func() { slowDone <- s.StartInterview(context.Background(), "slow") }()
	<-slowStarted

	fastDone := make(chan error, 1)
	go func() { fastDone <- s.StartInterview(context.Background(), "fast") }()
	<-fastStarted

	assert.Error(t, <-slowDone)
	assert.True(t, s.Interview().Snapshot().Loading, "newer load is still in flight")

	close(release)
	require.NoError(t, <-fastDone)

	snap := s.Interview().Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, interview.Loaded, snap.State)
	assert.Equal(t, "fast", snap.Role)
	assert.Equal(t, "Why Go?", snap.Question)
}

func TestLeavingInterviewClearsLoading(t *testing.T) {
	started := make(chan struct{})
	b := &stubBackend{interview: func(ctx context.Context, _ backend.InterviewRequest) (*backend.InterviewSet, error) {
		close(started)
		return nil, blockUntilCanceled(ctx, backend.OpInterview)
	}}
	s := New(b, Options{})
	s.SetView(ViewInterview)

	done := make(chan error, 1)
	go func() { done <- s.StartInterview(context.Background(), "Analyst") }()
	<-started

	s.SetView(ViewMain)
	require.Error(t, <-done)

	snap := s.Interview().Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, interview.Idle, snap.State)
	assert.Empty(t, snap.Error)
}

func TestStatsAndGapReport(t *testing.T) {
	b := &stubBackend{recommendations: func(context.Context, backend.RecommendationRequest) ([]career.Career, error) {
		return []career.Career{
			{ID: "a", Title: "Analyst", MatchScore: 70, KeySkills: []string{"Data Visualization"}},
			{ID: "b", Title: "Software Engineer", MatchScore: 90, KeySkills: []string{"Python Programming", "Cloud Computing"}},
		}, nil
	}}
	s := New(b, Options{})
	require.NoError(t, s.SignIn("sam@example.com"))

	w := s.SkillsWizard()
	require.NoError(t, w.Update(map[string]any{"Programming/Coding": 7, "Cloud Computing": 3}))
	for !w.IsTerminal() {
		require.NoError(t, w.Advance(nil))
	}
	require.NoError(t, w.Finish(context.Background(), nil))

	stats := s.Stats()
	assert.Equal(t, "sam", stats.UserName)
	assert.False(t, stats.HasProfile)
	assert.Equal(t, skills.Count(s.Skills()), stats.Skills.Total)
	assert.Equal(t, 2, stats.Recommendations)
	require.NotNil(t, stats.Best)
	assert.Equal(t, "Software Engineer", stats.Best.Title)

	gaps, err := s.GapReport("software engineer")
	require.NoError(t, err)
	require.Len(t, gaps, 2)
	assert.Equal(t, 70, gaps[0].Proficiency)
	assert.False(t, gaps[0].Gap)
	assert.Equal(t, 30, gaps[1].Proficiency)
	assert.True(t, gaps[1].Gap)

	_, err = s.GapReport("astronaut")
	assert.ErrorIs(t, err, ErrUnknownCareer)
}

func TestLogoutResetsEverything(t *testing.T) {
	started := make(chan struct{})
	b := &stubBackend{recommendations: func(ctx context.Context, _ backend.RecommendationRequest) ([]career.Career, error) {
		close(started)
		return nil, blockUntilCanceled(ctx, backend.OpRecommendations)
	}}
	s := New(b, Options{})
	require.NoError(t, s.SignUp("Ravi", 19, "ravi@example.com"))
	require.NoError(t, s.SaveProfile(validProfile()))
	require.NoError(t, s.SkillsWizard().Update(map[string]any{"Programming/Coding": 9}))
	require.NoError(t, s.SendChat(context.Background(), "hello"))

	done := make(chan error, 1)
	go func() { done <- s.RequestRecommendations(context.Background(), nil, skills.Defaults()) }()
	<-started

	s.Logout()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("in-flight request was not canceled")
	}

	snap := s.Snapshot()
	assert.False(t, snap.User.SignedIn)
	assert.Equal(t, TabDashboard, snap.Tab)
	assert.Equal(t, ViewMain, snap.View)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, snap.Skills)
	assert.False(t, snap.Loading)
	assert.Len(t, s.Chat().Transcript(), 1)
	assert.Equal(t, 0, s.SkillsWizard().Index())
	level, _ := s.SkillsWizard().Draft()[0].Level("Programming/Coding")
	assert.Equal(t, skills.DefaultLevel, level)
}
