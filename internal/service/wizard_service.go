package service

import (
	"context"
	"errors"
	"fmt"
	"hireflow/internal/cache"
	"hireflow/internal/model"
	"hireflow/internal/validation"
	"hireflow/internal/wizard"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
)

// WizardService persists interview-creation wizards between requests. Every
// mutation holds the wizard's lock, so a second request racing a submission
// is rejected with wizard.ErrSubmitInFlight.
type WizardService struct {
	wizards    cache.WizardCache
	interviews *InterviewService
	now        func() time.Time
}

// NewWizardService creates a new wizard service
func NewWizardService(wizards cache.WizardCache, interviews *InterviewService) *WizardService {
	return &WizardService{
		wizards:    wizards,
		interviews: interviews,
		now:        time.Now,
	}
}

// Start opens a fresh wizard for the recruiter
func (s *WizardService) Start(ctx context.Context, recruiterID string) (*model.WizardResponse, error) {
	w := wizard.New(s.interviews.Submitter(recruiterID))
	now := s.now()
	ws := &model.WizardSession{
		ID:          uuid.New().String(),
		RecruiterID: recruiterID,
		State:       w.State(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.wizards.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to save wizard: %w", err)
	}
	return &model.WizardResponse{ID: ws.ID, View: w.View()}, nil
}

func (s *WizardService) load(ctx context.Context, recruiterID, id string) (*model.WizardSession, *wizard.Wizard, error) {
	ws, err := s.wizards.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load wizard: %w", err)
	}
	if ws == nil || ws.RecruiterID != recruiterID {
		return nil, nil, fmt.Errorf("wizard %s: %w", id, ErrNotFound)
	}
	w, err := wizard.Restore(s.interviews.Submitter(recruiterID), ws.State)
	if err != nil {
		// A stored state that no longer restores is discarded.
		log.Printf("wizard %s has unusable state, resetting: %v", id, err)
		w = wizard.New(s.interviews.Submitter(recruiterID))
	}
	return ws, w, nil
}

// Get returns the wizard's current screen
func (s *WizardService) Get(ctx context.Context, recruiterID, id string) (*model.WizardResponse, error) {
	_, w, err := s.load(ctx, recruiterID, id)
	if err != nil {
		return nil, err
	}
	return &model.WizardResponse{ID: id, View: w.View()}, nil
}

// mutate loads the wizard under its lock, runs fn and saves the result
// unless the wizard was closed
func (s *WizardService) mutate(ctx context.Context, recruiterID, id string, fn func(w *wizard.Wizard) (*model.WizardResponse, error)) (*model.WizardResponse, error) {
	ok, err := s.wizards.AcquireSubmitLock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock wizard: %w", err)
	}
	if !ok {
		return nil, wizard.ErrSubmitInFlight
	}
	defer func() {
		if err := s.wizards.ReleaseSubmitLock(context.WithoutCancel(ctx), id); err != nil {
			log.Printf("failed to release lock on wizard %s: %v", id, err)
		}
	}()

	// Loaded under the lock so a request queued behind a submission sees the
	// wizard already gone.
	ws, w, err := s.load(ctx, recruiterID, id)
	if err != nil {
		return nil, err
	}

	resp, err := fn(w)
	if err != nil {
		return nil, err
	}
	resp.ID = id
	if resp.Closed {
		if err := s.wizards.Delete(ctx, id); err != nil {
			log.Printf("failed to delete wizard %s: %v", id, err)
		}
		return resp, nil
	}

	ws.State = w.State()
	ws.UpdatedAt = s.now()
	if err := s.wizards.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to save wizard: %w", err)
	}
	resp.View = w.View()
	return resp, nil
}

// SetFields applies field edits. The interview source is applied first so
// that branch-dependent fields land on the right branch.
func (s *WizardService) SetFields(ctx context.Context, recruiterID, id string, fields map[string]any) (*model.WizardResponse, error) {
	if len(fields) == 0 {
		return nil, validation.Errors{"fields": "is required"}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := keys[i] == string(wizard.FieldInterviewSource), keys[j] == string(wizard.FieldInterviewSource)
		if si != sj {
			return si
		}
		return keys[i] < keys[j]
	})

	return s.mutate(ctx, recruiterID, id, func(w *wizard.Wizard) (*model.WizardResponse, error) {
		errs := validation.Errors{}
		for _, k := range keys {
			if err := w.Set(wizard.Field(k), fields[k]); err != nil {
				if errors.Is(err, wizard.ErrSubmitInFlight) {
					return nil, err
				}
				errs.Add(k, err.Error())
			}
		}
		if err := errs.Err(); err != nil {
			return nil, err
		}
		return &model.WizardResponse{}, nil
	})
}

// Next advances the wizard. From the last step it submits the interview and
// closes the wizard.
func (s *WizardService) Next(ctx context.Context, recruiterID, id string) (*model.WizardResponse, error) {
	return s.mutate(ctx, recruiterID, id, func(w *wizard.Wizard) (*model.WizardResponse, error) {
		res, err := w.Advance(ctx)
		if err != nil {
			return nil, err
		}
		if !res.Submitted {
			return &model.WizardResponse{Result: &res}, nil
		}

		log.Printf("wizard %s submitted interview %s", id, res.SubmissionID)
		iv, err := s.interviews.Get(ctx, recruiterID, res.SubmissionID)
		if err != nil {
			return nil, err
		}
		return &model.WizardResponse{
			View:      wizard.New(nil).View(),
			Result:    &res,
			Interview: iv,
			Closed:    true,
		}, nil
	})
}

// Back returns to the previous step of the current branch
func (s *WizardService) Back(ctx context.Context, recruiterID, id string) (*model.WizardResponse, error) {
	return s.mutate(ctx, recruiterID, id, func(w *wizard.Wizard) (*model.WizardResponse, error) {
		w.Back()
		return &model.WizardResponse{}, nil
	})
}

// Close discards the wizard without submitting
func (s *WizardService) Close(ctx context.Context, recruiterID, id string) error {
	_, err := s.mutate(ctx, recruiterID, id, func(w *wizard.Wizard) (*model.WizardResponse, error) {
		w.Close()
		return &model.WizardResponse{Closed: true}, nil
	})
	return err
}
