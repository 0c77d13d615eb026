package session

import (
	"context"
	"sync"
)

// Category groups requests of which at most one result may be applied.
type Category string

const (
	CatRecommendations Category = "recommendations"
	CatCertifications  Category = "certifications"
	CatJobListings     Category = "job-listings"
	CatInterview       Category = "interview"
	CatChat            Category = "chat"
	CatResume          Category = "resume"
)

// Token identifies one in-flight request. Its context is canceled when the
// request is superseded, its category is canceled, or it is done.
type Token struct {
	category Category
	gen      uint64
	ctx      context.Context
	cancel   context.CancelFunc
	stale    bool
}

func (t *Token) Context() context.Context { return t.ctx }

type flight struct {
	gen  uint64
	live map[*Token]struct{}
}

// Flights tracks in-flight tokens per category.
type Flights struct {
	mu   sync.Mutex
	cats map[Category]*flight
}

func NewFlights() *Flights {
	return &Flights{cats: make(map[Category]*flight)}
}

// Begin supersedes every in-flight request of category and returns the new
// current token.
func (f *Flights) Begin(ctx context.Context, category Category) *Token {
	f.mu.Lock()
	defer f.mu.Unlock()

	fl := f.flightLocked(category)
	fl.gen++
	f.cancelLocked(fl)
	return f.issueLocked(ctx, category, fl)
}

// Join returns a token that shares the current generation of category, so
// concurrent requests of that category all stay current until canceled.
func (f *Flights) Join(ctx context.Context, category Category) *Token {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.issueLocked(ctx, category, f.flightLocked(category))
}

// Commit runs apply if tok is still current and reports whether it did.
// apply runs under the flights lock and must not call back into Flights.
func (f *Flights) Commit(tok *Token, apply func()) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	fl, ok := f.cats[tok.category]
	if !ok || tok.stale || fl.gen != tok.gen {
		return false
	}
	apply()
	return true
}

// Done releases tok.
func (f *Flights) Done(tok *Token) {
	f.mu.Lock()
	if fl, ok := f.cats[tok.category]; ok {
		delete(fl.live, tok)
	}
	f.mu.Unlock()
	tok.cancel()
}

// Cancel aborts every in-flight request of category; their results will not
// be committed.
func (f *Flights) Cancel(category Category) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if fl, ok := f.cats[category]; ok {
		fl.gen++
		f.cancelLocked(fl)
	}
}

// CancelAll aborts every in-flight request.
func (f *Flights) CancelAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fl := range f.cats {
		fl.gen++
		f.cancelLocked(fl)
	}
}

// InFlight returns the number of live requests of category.
func (f *Flights) InFlight(category Category) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if fl, ok := f.cats[category]; ok {
		return len(fl.live)
	}
	return 0
}

func (f *Flights) flightLocked(category Category) *flight {
	fl, ok := f.cats[category]
	if !ok {
		fl = &flight{live: make(map[*Token]struct{})}
		f.cats[category] = fl
	}
	return fl
}

func (f *Flights) issueLocked(ctx context.Context, category Category, fl *flight) *Token {
	tctx, cancel := context.WithCancel(ctx)
	tok := &Token{category: category, gen: fl.gen, ctx: tctx, cancel: cancel}
	fl.live[tok] = struct{}{}
	return tok
}

func (f *Flights) cancelLocked(fl *flight) {
	for tok := range fl.live {
		tok.stale = true
		tok.cancel()
		delete(fl.live, tok)
	}
}
