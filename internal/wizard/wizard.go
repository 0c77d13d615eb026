// Package wizard is a generic multi-step form engine. Each step owns a
// disjoint set of draft fields; values are merged into the draft as the user
// moves forward, and the terminal step finalises instead of advancing.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNoSteps      = errors.New("wizard needs at least one step")
	ErrSharedField  = errors.New("field owned by more than one step")
	ErrForeignField = errors.New("field not owned by the current step")
	ErrNotTerminal  = errors.New("wizard is not at its terminal step")
)

// Step is one page of the wizard and the draft fields it owns.
type Step struct {
	Name   string
	Fields []string
}

// MergeFunc returns draft with values applied. It must not mutate draft in place.
type MergeFunc[D any] func(draft D, values map[string]any) (D, error)

// FinalizeFunc receives the completed draft when the terminal step is left.
type FinalizeFunc[D any] func(ctx context.Context, draft D) error

type Wizard[D any] struct {
	mu       sync.Mutex
	steps    []Step
	owner    map[string]int
	index    int
	draft    D
	merge    MergeFunc[D]
	finalize FinalizeFunc[D]
}

func New[D any](steps []Step, initial D, merge MergeFunc[D], finalize FinalizeFunc[D]) (*Wizard[D], error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	if merge == nil {
		return nil, errors.New("wizard needs a merge function")
	}

	owner := make(map[string]int)
	for i, step := range steps {
		for _, field := range step.Fields {
			if prev, ok := owner[field]; ok {
				return nil, fmt.Errorf("%w: %q in %q and %q", ErrSharedField, field, steps[prev].Name, step.Name)
			}
			owner[field] = i
		}
	}

	return &Wizard[D]{
		steps:    append([]Step(nil), steps...),
		owner:    owner,
		draft:    initial,
		merge:    merge,
		finalize: finalize,
	}, nil
}

func (w *Wizard[D]) Len() int { return len(w.steps) }

func (w *Wizard[D]) Index() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index
}

func (w *Wizard[D]) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.index]
}

// IsTerminal reports whether the current step is the last one.
func (w *Wizard[D]) IsTerminal() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index == len(w.steps)-1
}

func (w *Wizard[D]) Draft() D {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Update merges values owned by the current step without moving.
func (w *Wizard[D]) Update(values map[string]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.apply(values)
}

// Advance merges values owned by the current step and moves forward one
// step. At the terminal step the values are merged and the index stays put.
func (w *Wizard[D]) Advance(values map[string]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.apply(values); err != nil {
		return err
	}
	if w.index < len(w.steps)-1 {
		w.index++
	}
	return nil
}

// Retreat moves back one step. It is a no-op at the first step.
func (w *Wizard[D]) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.index > 0 {
		w.index--
	}
}

// Finish merges values and hands the draft to the finalize action. It is
// only allowed from the terminal step.
func (w *Wizard[D]) Finish(ctx context.Context, values map[string]any) error {
	w.mu.Lock()
	if w.index != len(w.steps)-1 {
		w.mu.Unlock()
		return ErrNotTerminal
	}
	if err := w.apply(values); err != nil {
		w.mu.Unlock()
		return err
	}
	draft := w.draft
	w.mu.Unlock()

	if w.finalize == nil {
		return nil
	}
	return w.finalize(ctx, draft)
}

// Reset returns to the first step with the given draft.
func (w *Wizard[D]) Reset(initial D) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.index = 0
	w.draft = initial
}

func (w *Wizard[D]) apply(values map[string]any) error {
	if len(values) == 0 {
		return nil
	}

	var foreign []string
	for field := range values {
		if owner, ok := w.owner[field]; !ok || owner != w.index {
			foreign = append(foreign, field)
		}
	}
	if len(foreign) > 0 {
		sort.Strings(foreign)
		return fmt.Errorf("%w %q: %v", ErrForeignField, w.steps[w.index].Name, foreign)
	}

	draft, err := w.merge(w.draft, values)
	if err != nil {
		return err
	}
	w.draft = draft
	return nil
}
