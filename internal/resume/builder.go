package resume

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/backend"
	"github.com/spigell/career-compass/internal/wizard"
)

var (
	ErrNoExperience = errors.New("summary needs at least one work experience")
	ErrNoName       = errors.New("resume needs a name")
	ErrWrongStep    = errors.New("summary is generated on the summary step")
)

// Renderer is the subset of the backend the builder calls.
type Renderer interface {
	ResumeSummary(ctx context.Context, req backend.SummaryRequest) (string, error)
	ResumeHTML(ctx context.Context, data backend.ResumeData) (string, error)
	ResumePDF(ctx context.Context, data backend.ResumeData) ([]byte, error)
}

// Snapshot is a read-only view of the builder.
type Snapshot struct {
	Index   int
	Step    string
	Total   int
	Draft   Draft
	HTML    string
	PDF     []byte
	Loading bool
	Error   string
}

type Builder struct {
	wizard   *wizard.Wizard[Draft]
	renderer Renderer
	logger   *zap.Logger

	mu      sync.Mutex
	html    string
	pdf     []byte
	loading bool
	err     string
}

func NewBuilder(renderer Renderer, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Builder{renderer: renderer, logger: logger}
	// Steps are static and disjoint, New cannot fail.
	b.wizard, _ = wizard.New(Steps, Draft{}, Merge, b.finalize)
	return b
}

func (b *Builder) Advance(values map[string]any) error { return b.wizard.Advance(values) }
func (b *Builder) Update(values map[string]any) error  { return b.wizard.Update(values) }
func (b *Builder) Retreat()                            { b.wizard.Retreat() }
func (b *Builder) Step() wizard.Step                   { return b.wizard.Step() }
func (b *Builder) IsTerminal() bool                    { return b.wizard.IsTerminal() }

// Finish merges the last step's values and renders the HTML résumé.
func (b *Builder) Finish(ctx context.Context, values map[string]any) error {
	return b.wizard.Finish(ctx, values)
}

func (b *Builder) finalize(ctx context.Context, _ Draft) error {
	_, err := b.GenerateHTML(ctx)
	return err
}

// GenerateSummary asks the backend for a professional summary built from
// the work experiences and stores it in the draft. It fails fast without
// experiences and must be called on the summary step.
func (b *Builder) GenerateSummary(ctx context.Context) (string, error) {
	data, err := b.wizard.Draft().Data()
	if err != nil {
		return "", err
	}
	if len(data.Experiences) == 0 {
		return "", ErrNoExperience
	}
	if step := b.wizard.Step().Name; step != StepSummary {
		return "", ErrWrongStep
	}

	summary, err := call(ctx, b, "Failed to generate summary", func(ctx context.Context) (string, error) {
		return b.renderer.ResumeSummary(ctx, backend.SummaryRequest{WorkExperienceText: ExperienceText(data.Experiences)})
	})
	if err != nil {
		return "", err
	}

	summary = strings.TrimSpace(summary)
	if err := b.wizard.Update(map[string]any{"summary": summary}); err != nil {
		return "", err
	}
	return summary, nil
}

// GenerateHTML renders the résumé. A name is required.
func (b *Builder) GenerateHTML(ctx context.Context) (string, error) {
	data, err := b.named()
	if err != nil {
		return "", err
	}

	html, err := call(ctx, b, "Failed to generate resume", func(ctx context.Context) (string, error) {
		return b.renderer.ResumeHTML(ctx, data)
	})
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	b.html = html
	b.mu.Unlock()
	return html, nil
}

// ExportPDF renders the résumé as a PDF document. A name is required.
func (b *Builder) ExportPDF(ctx context.Context) ([]byte, error) {
	data, err := b.named()
	if err != nil {
		return nil, err
	}

	pdf, err := call(ctx, b, "Failed to download PDF", func(ctx context.Context) ([]byte, error) {
		return b.renderer.ResumePDF(ctx, data)
	})
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.pdf = pdf
	b.mu.Unlock()
	return pdf, nil
}

func (b *Builder) named() (backend.ResumeData, error) {
	data, err := b.wizard.Draft().Data()
	if err != nil {
		return data, err
	}
	if strings.TrimSpace(data.Name) == "" {
		return data, ErrNoName
	}
	return data, nil
}

// call runs one backend round trip with loading and error bookkeeping.
func call[T any](ctx context.Context, b *Builder, fallback string, fn func(context.Context) (T, error)) (T, error) {
	b.mu.Lock()
	b.loading = true
	b.err = ""
	b.mu.Unlock()

	out, err := fn(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if ctx.Err() != nil {
		var zero T
		return zero, ctx.Err()
	}
	if err != nil && !backend.IsCanceled(err) {
		b.logger.Warn("resume builder call failed", zap.Error(err))
		b.err = backend.UserMessage(err, fallback)
	}
	return out, err
}

func (b *Builder) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Index:   b.wizard.Index(),
		Step:    b.wizard.Step().Name,
		Total:   b.wizard.Len(),
		Draft:   b.wizard.Draft(),
		HTML:    b.html,
		PDF:     b.pdf,
		Loading: b.loading,
		Error:   b.err,
	}
}

// Reset starts a fresh draft at the first step.
func (b *Builder) Reset() {
	b.wizard.Reset(Draft{})
	b.mu.Lock()
	defer b.mu.Unlock()
	b.html = ""
	b.pdf = nil
	b.loading = false
	b.err = ""
}
