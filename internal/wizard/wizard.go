package wizard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrCannotProceed  = errors.New("current step is incomplete")
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// StepError is returned when a forward move is blocked by missing fields.
type StepError struct {
	Step     Step
	Problems Problems
}

func (e *StepError) Error() string {
	fields := make([]string, 0, len(e.Problems))
	for f := range e.Problems {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	return fmt.Sprintf("step %s incomplete: %s", e.Step, strings.Join(fields, ", "))
}

func (e *StepError) Unwrap() error { return ErrCannotProceed }

// Submitter performs the terminal side effect and returns an identifier for
// what it created.
type Submitter interface {
	Submit(ctx context.Context, data FormData) (string, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, data FormData) (string, error)

func (f SubmitterFunc) Submit(ctx context.Context, data FormData) (string, error) {
	return f(ctx, data)
}

// State is the serialisable position of a wizard.
type State struct {
	Step   Step     `json:"step"`
	Source Source   `json:"source"`
	Data   FormData `json:"data"`
}

// View is what a client needs to render the current step.
type View struct {
	Step        Step     `json:"step"`
	Source      Source   `json:"source"`
	Steps       []Step   `json:"steps"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	IsLast      bool     `json:"isLast"`
	CanProceed  bool     `json:"canProceed"`
	Problems    Problems `json:"problems,omitempty"`
	Data        FormData `json:"data"`
}

// Result describes the outcome of Advance.
type Result struct {
	Step         Step   `json:"step"`
	Submitted    bool   `json:"submitted"`
	SubmissionID string `json:"submissionId,omitempty"`
}

// Wizard composes the form store, the validator and the navigator. It is safe
// for concurrent use; a terminal advance runs the submitter at most once at a
// time and later callers get ErrSubmitInFlight until it returns.
type Wizard struct {
	mu         sync.Mutex
	store      *Store
	nav        *Navigator
	submitter  Submitter
	submitting bool
}

func New(submitter Submitter) *Wizard {
	return &Wizard{
		store:     NewStore(),
		nav:       NewNavigator(),
		submitter: submitter,
	}
}

// Restore rebuilds a wizard from saved state.
func Restore(submitter Submitter, st State) (*Wizard, error) {
	w := New(submitter)
	w.store.Load(st.Data)
	if st.Source != st.Data.InterviewSource {
		return nil, fmt.Errorf("saved branch %q does not match form source %q", st.Source, st.Data.InterviewSource)
	}
	if err := w.nav.Restore(st.Step, st.Source); err != nil {
		return nil, err
	}
	w.settle()
	return w, nil
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{Step: w.nav.Step(), Source: w.nav.Source(), Data: w.store.Data()}
}

func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	step, src := w.nav.Step(), w.nav.Source()
	data := w.store.Data()
	problems := Check(step, data)
	v := View{
		Step:        step,
		Source:      src,
		Steps:       Steps(src),
		Title:       Title(step, src),
		Description: Description(step, src),
		IsLast:      w.nav.IsLast(),
		CanProceed:  len(problems) == 0,
		Data:        data,
	}
	if len(problems) > 0 {
		v.Problems = problems
	}
	return v
}

// Set assigns one field. Changing the interview source re-evaluates the
// branch, and clearing a field an earlier step requires rewinds to that step.
func (w *Wizard) Set(f Field, v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return ErrSubmitInFlight
	}
	if err := w.store.Set(f, v); err != nil {
		return err
	}
	if f == FieldInterviewSource {
		w.nav.SetSource(w.store.data.InterviewSource)
	}
	w.settle()
	return nil
}

// Advance moves to the next step when the current one is complete. On the
// branch's last step it submits instead, then resets the wizard.
func (w *Wizard) Advance(ctx context.Context) (Result, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return Result{}, ErrSubmitInFlight
	}
	w.settle()
	step := w.nav.Step()
	data := w.store.Data()
	if problems := Check(step, data); len(problems) > 0 {
		w.mu.Unlock()
		return Result{Step: step}, &StepError{Step: step, Problems: problems}
	}
	if next, moved := w.nav.Next(); moved {
		w.mu.Unlock()
		return Result{Step: next}, nil
	}
	w.submitting = true
	w.mu.Unlock()

	id, err := w.submitter.Submit(ctx, data)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		return Result{Step: step}, fmt.Errorf("submit interview: %w", err)
	}
	w.store.Reset()
	w.nav.Reset()
	return Result{Step: w.nav.Step(), Submitted: true, SubmissionID: id}, nil
}

// Back moves one step back. It is a no-op on the first step.
func (w *Wizard) Back() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nav.Previous()
}

// Close abandons the wizard, discarding every collected value.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.store.Reset()
	w.nav.Reset()
}

// settle rewinds to the earliest preceding step that no longer validates.
func (w *Wizard) settle() {
	data := w.store.data
	for _, s := range Steps(w.nav.Source()) {
		if s >= w.nav.Step() {
			return
		}
		if !Validate(s, data) {
			w.nav.Rewind(s)
			return
		}
	}
}
