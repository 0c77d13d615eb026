package interview

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/career-compass/internal/backend"
)

type stubSource struct {
	set     *backend.InterviewSet
	err     error
	lastReq backend.InterviewRequest
}

func (s *stubSource) InterviewQuestions(_ context.Context, req backend.InterviewRequest) (*backend.InterviewSet, error) {
	s.lastReq = req
	return s.set, s.err
}

// gatedSource answers each role once its gate is closed.
type gatedSource struct {
	gates map[string]chan struct{}
}

func (s *gatedSource) InterviewQuestions(_ context.Context, req backend.InterviewRequest) (*backend.InterviewSet, error) {
	<-s.gates[req.Role]
	return &backend.InterviewSet{Questions: []string{req.Role + "?"}, Answers: []string{req.Role + "!"}}, nil
}

func questionSet(n int) *backend.InterviewSet {
	set := &backend.InterviewSet{}
	for i := 0; i < n; i++ {
		set.Questions = append(set.Questions, fmt.Sprintf("Q%d", i))
		set.Answers = append(set.Answers, fmt.Sprintf("A%d", i))
	}
	return set
}

func TestFiveQuestionsWalkthrough(t *testing.T) {
	src := &stubSource{set: questionSet(5)}
	f := New(src, 5, zaptest.NewLogger(t))

	require.NoError(t, f.Start(context.Background(), " Data Analyst "))
	assert.Equal(t, "Data Analyst", src.lastReq.Role)
	assert.Equal(t, 5, src.lastReq.Count)
	assert.Equal(t, Loaded, f.Snapshot().State)

	for i := 0; i < 4; i++ {
		require.NoError(t, f.SetDraft("my answer"))
		assert.Equal(t, Answering, f.Snapshot().State)
		require.NoError(t, f.Reveal())
		snap := f.Snapshot()
		assert.Equal(t, Revealed, snap.State)
		assert.Equal(t, fmt.Sprintf("A%d", i), snap.Answer)
		assert.Equal(t, "my answer", snap.Draft)
		require.NoError(t, f.Advance())
	}

	snap := f.Snapshot()
	assert.Equal(t, 4, snap.Index)
	assert.Equal(t, "Q4", snap.Question)
	assert.Empty(t, snap.Draft)
	assert.Empty(t, snap.Answer)

	require.NoError(t, f.Reveal())
	assert.Equal(t, Finished, f.Snapshot().State)

	assert.ErrorIs(t, f.Advance(), ErrLastQuestion)
	assert.Equal(t, 4, f.Snapshot().Index)
	assert.Equal(t, "A4", f.Snapshot().Answer)
}

func TestAdvanceRequiresReveal(t *testing.T) {
	f := New(&stubSource{set: questionSet(3)}, 0, nil)

	assert.ErrorIs(t, f.Advance(), ErrNotLoaded)
	require.NoError(t, f.Start(context.Background(), "dev"))
	assert.ErrorIs(t, f.Advance(), ErrNotRevealed)
	require.NoError(t, f.SetDraft(""))
	assert.ErrorIs(t, f.Advance(), ErrNotRevealed)
	assert.Equal(t, 0, f.Snapshot().Index)
}

func TestStartFailureStaysIdle(t *testing.T) {
	src := &stubSource{err: &backend.Error{Op: backend.OpInterview, Kind: backend.KindBackend, Status: 400, Message: "Role is required"}}
	f := New(src, 10, nil)

	require.Error(t, f.Start(context.Background(), "dev"))
	snap := f.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, "Role is required", snap.Error)
	assert.False(t, snap.Loading)

	src.err = nil
	src.set = &backend.InterviewSet{Questions: []string{"Q"}, Answers: nil}
	require.Error(t, f.Start(context.Background(), "dev"))
	assert.Equal(t, Idle, f.Snapshot().State)
	assert.Equal(t, fetchFailed, f.Snapshot().Error)

	src.set = questionSet(2)
	require.NoError(t, f.Start(context.Background(), "dev"))
	assert.Empty(t, f.Snapshot().Error)
}

func TestStartRejectsEmptyRole(t *testing.T) {
	src := &stubSource{set: questionSet(1)}
	f := New(src, 10, nil)

	assert.ErrorIs(t, f.Start(context.Background(), "   "), ErrEmptyRole)
	assert.Empty(t, src.lastReq.Role)
	assert.ErrorIs(t, f.SetDraft("x"), ErrNotLoaded)
	assert.ErrorIs(t, f.Reveal(), ErrNotLoaded)
}

func TestResetReturnsToIdle(t *testing.T) {
	f := New(&stubSource{set: questionSet(2)}, 2, nil)
	require.NoError(t, f.Start(context.Background(), "dev"))
	f.Reset()
	assert.Equal(t, Snapshot{State: Idle}, f.Snapshot())
}

func TestOlderStartIsDiscarded(t *testing.T) {
	src := &gatedSource{gates: map[string]chan struct{}{
		"old": make(chan struct{}),
		"new": make(chan struct{}),
	}}
	f := New(src, 1, zaptest.NewLogger(t))

	oldDone := make(chan error, 1)
	go func() { oldDone <- f.Start(context.Background(), "old") }()
	require.Eventually(t, func() bool { return f.Snapshot().Loading }, time.Second, time.Millisecond)

	newDone := make(chan error, 1)
	go func() { newDone <- f.Start(context.Background(), "new") }()
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.gen == 2
	}, time.Second, time.Millisecond)

	close(src.gates["old"])
	assert.ErrorIs(t, <-oldDone, ErrSuperseded)
	snap := f.Snapshot()
	assert.True(t, snap.Loading)
	assert.Equal(t, Idle, snap.State)

	close(src.gates["new"])
	require.NoError(t, <-newDone)
	snap = f.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, "new", snap.Role)
	assert.Equal(t, "new?", snap.Question)
}
