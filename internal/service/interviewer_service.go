package service

import (
	"context"
	"fmt"
	"hireflow/internal/formprops"
	"hireflow/internal/model"
	"hireflow/internal/repository"
	"hireflow/internal/validation"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InterviewerService handles AI interviewer personas
type InterviewerService struct {
	interviewers repository.InterviewerRepo
	catalog      *formprops.Catalog
}

// NewInterviewerService creates a new interviewer service
func NewInterviewerService(interviewers repository.InterviewerRepo, catalog *formprops.Catalog) *InterviewerService {
	return &InterviewerService{
		interviewers: interviewers,
		catalog:      catalog,
	}
}

func (s *InterviewerService) check(in *model.InterviewerInput) error {
	in.Name = strings.TrimSpace(in.Name)
	errs := validation.Collect(in)
	if in.Voice != "" && !s.catalog.Allows(formprops.KeyVoice, in.Voice) {
		errs.Add("voice", "is not a known voice")
	}
	if in.RoundType != "" && !s.catalog.Allows(formprops.KeyRoundType, in.RoundType) {
		errs.Add("roundType", "is not a known round type")
	}
	if in.Language != "" && !s.catalog.Allows(formprops.KeyLanguage, in.Language) {
		errs.Add("language", "is not a supported language")
	}
	return errs.Err()
}

// Create validates and stores a new interviewer
func (s *InterviewerService) Create(ctx context.Context, recruiterID string, in model.InterviewerInput) (*model.Interviewer, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	iv := &model.Interviewer{
		ID:          uuid.New().String(),
		RecruiterID: recruiterID,
		Name:        in.Name,
		Voice:       in.Voice,
		About:       in.About,
		Skills:      in.Skills,
		RoundType:   in.RoundType,
		Language:    in.Language,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.interviewers.Create(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to create interviewer: %w", err)
	}
	return iv, nil
}

// Get returns an interviewer owned by the recruiter
func (s *InterviewerService) Get(ctx context.Context, recruiterID, id string) (*model.Interviewer, error) {
	iv, err := s.interviewers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get interviewer: %w", err)
	}
	if iv == nil || iv.RecruiterID != recruiterID {
		return nil, fmt.Errorf("interviewer %s: %w", id, ErrNotFound)
	}
	return iv, nil
}

// List returns the recruiter's interviewers ordered by name
func (s *InterviewerService) List(ctx context.Context, recruiterID string) ([]*model.Interviewer, error) {
	out, err := s.interviewers.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviewers: %w", err)
	}
	return out, nil
}

// Update applies a partial update to an interviewer
func (s *InterviewerService) Update(ctx context.Context, recruiterID, id string, patch model.InterviewerPatch) (*model.Interviewer, error) {
	iv, err := s.Get(ctx, recruiterID, id)
	if err != nil {
		return nil, err
	}
	in := patch.Apply(iv.Input())
	if err := s.check(&in); err != nil {
		return nil, err
	}
	iv.Name = in.Name
	iv.Voice = in.Voice
	iv.About = in.About
	iv.Skills = in.Skills
	iv.RoundType = in.RoundType
	iv.Language = in.Language
	iv.UpdatedAt = time.Now()

	if err := s.interviewers.Update(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to update interviewer: %w", err)
	}
	return iv, nil
}

// Delete removes an interviewer owned by the recruiter
func (s *InterviewerService) Delete(ctx context.Context, recruiterID, id string) error {
	if _, err := s.Get(ctx, recruiterID, id); err != nil {
		return err
	}
	if _, err := s.interviewers.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete interviewer: %w", err)
	}
	return nil
}
