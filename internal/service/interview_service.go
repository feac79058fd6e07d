package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"hireflow/internal/callflow"
	"hireflow/internal/formprops"
	"hireflow/internal/model"
	"hireflow/internal/repository"
	"hireflow/internal/validation"
	"hireflow/internal/wizard"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// InterviewService schedules interviews from completed wizards and manages
// their invitees and lifecycle
type InterviewService struct {
	interviews   repository.InterviewRepo
	jobs         repository.JobRepo
	interviewers repository.InterviewerRepo
	catalog      *formprops.Catalog
	baseURL      string
}

// NewInterviewService creates a new interview service. baseURL prefixes
// generated share links.
func NewInterviewService(
	interviews repository.InterviewRepo,
	jobs repository.JobRepo,
	interviewers repository.InterviewerRepo,
	catalog *formprops.Catalog,
	baseURL string,
) *InterviewService {
	return &InterviewService{
		interviews:   interviews,
		jobs:         jobs,
		interviewers: interviewers,
		catalog:      catalog,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// Submitter returns the wizard submission action for a recruiter
func (s *InterviewService) Submitter(recruiterID string) wizard.Submitter {
	return wizard.SubmitterFunc(func(ctx context.Context, data wizard.FormData) (string, error) {
		iv, err := s.CreateFromForm(ctx, recruiterID, data)
		if err != nil {
			return "", err
		}
		return iv.ID, nil
	})
}

// CreateFromForm schedules an interview from completed wizard data. A new
// round is added to the job; an existing round supplies its own settings
// and questions.
func (s *InterviewService) CreateFromForm(ctx context.Context, recruiterID string, d wizard.FormData) (*model.Interview, error) {
	job, err := s.jobs.GetByID(ctx, d.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil || job.RecruiterID != recruiterID {
		return nil, validation.Errors{string(wizard.FieldJobID): "job not found"}
	}
	if job.Status == model.JobStatusClosed {
		return nil, validation.Errors{string(wizard.FieldJobID): "job is closed"}
	}
	if d.ReminderEnabled && !s.catalog.Allows(formprops.KeyReminderTime, strconv.Itoa(d.ReminderTime)) {
		return nil, validation.Errors{string(wizard.FieldReminderTime): "is not a supported reminder time"}
	}

	var round model.Round
	switch d.InterviewSource {
	case wizard.SourceExisting:
		r, ok := job.FindRound(d.RoundID)
		if !ok {
			return nil, validation.Errors{string(wizard.FieldRoundID): "round not found on this job"}
		}
		round = *r
	case wizard.SourceNew:
		round, err = s.newRound(ctx, recruiterID, d)
		if err != nil {
			return nil, err
		}
	default:
		return nil, validation.Errors{string(wizard.FieldInterviewSource): "is required"}
	}

	interviewer, err := s.interviewers.GetByID(ctx, round.InterviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get interviewer: %w", err)
	}
	if interviewer == nil || interviewer.RecruiterID != recruiterID {
		return nil, validation.Errors{string(wizard.FieldInterviewerID): "interviewer not found"}
	}

	code, err := s.generateShareCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate share code: %w", err)
	}

	now := time.Now()
	iv := &model.Interview{
		ID:              uuid.New().String(),
		RecruiterID:     recruiterID,
		Source:          string(d.InterviewSource),
		JobID:           job.ID,
		JobTitle:        job.Title,
		RoundID:         round.ID,
		RoundName:       round.Name,
		RoundType:       round.Type,
		Objective:       round.Objective,
		Duration:        round.Duration,
		Language:        round.Language,
		InterviewerID:   interviewer.ID,
		InterviewerName: interviewer.Name,
		QuestionType:    round.QuestionType,
		AIQuestionCount: round.AIQuestionCount,
		CustomQuestions: round.CustomQuestions,
		Instructions:    strings.TrimSpace(d.Instructions),
		Reminder: model.Reminder{
			Enabled:       d.ReminderEnabled,
			MinutesBefore: d.ReminderTime,
			WhatsApp:      d.ReminderEnabled && d.WhatsAppReminder,
		},
		ShareCode: code,
		ShareLink: fmt.Sprintf("%s/interview/%s/%s", s.baseURL, slug.Make(job.Title), code),
		Status:    model.InterviewScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !iv.Reminder.Enabled {
		iv.Reminder.MinutesBefore = 0
	}

	if d.InterviewSource == wizard.SourceNew {
		if err := s.jobs.AddRound(ctx, job.ID, round); err != nil {
			return nil, fmt.Errorf("failed to add round: %w", err)
		}
	}
	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	if err := s.jobs.IncInterviews(ctx, job.ID, 1); err != nil {
		log.Printf("failed to bump interview count on job %s: %v", job.ID, err)
	}
	log.Printf("recruiter %s scheduled interview %s for job %s (%s round)", recruiterID, iv.ID, job.ID, d.InterviewSource)
	return iv, nil
}

// newRound builds the round a new-source wizard describes
func (s *InterviewService) newRound(ctx context.Context, recruiterID string, d wizard.FormData) (model.Round, error) {
	errs := validation.Errors{}
	if !s.catalog.Allows(formprops.KeyRoundType, d.RoundType) {
		errs.Add(string(wizard.FieldRoundType), "is not a known round type")
	}
	if !s.catalog.Allows(formprops.KeyLanguage, d.Language) {
		errs.Add(string(wizard.FieldLanguage), "is not a supported language")
	}
	if err := errs.Err(); err != nil {
		return model.Round{}, err
	}

	round := model.Round{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(d.RoundName),
		Type:          d.RoundType,
		Objective:     strings.TrimSpace(d.Objective),
		Duration:      d.Duration,
		Language:      d.Language,
		InterviewerID: d.InterviewerID,
		QuestionType:  string(d.QuestionType),
		CreatedAt:     time.Now(),
	}
	switch d.QuestionType {
	case wizard.QuestionsAI:
		round.AIQuestionCount = d.AIQuestionCount
	case wizard.QuestionsCustom:
		round.CustomQuestions = d.NonEmptyCustomQuestions()
	case wizard.QuestionsHybrid:
		round.AIQuestionCount = d.AIQuestionCount
		round.CustomQuestions = d.NonEmptyCustomQuestions()
	}
	return round, nil
}

// generateShareCode creates an 8-char code that no other interview uses
func (s *InterviewService) generateShareCode(ctx context.Context) (string, error) {
	const chars = "abcdefghjkmnpqrstuvwxyz23456789"
	const codeLen = 8

	for attempts := 0; attempts < 10; attempts++ {
		code, err := randomString(rand.Reader, chars, codeLen)
		if err != nil {
			return "", err
		}

		existing, err := s.interviews.GetByShareCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique share code")
}

// Get returns an interview owned by the recruiter
func (s *InterviewService) Get(ctx context.Context, recruiterID, id string) (*model.Interview, error) {
	iv, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if iv == nil || iv.RecruiterID != recruiterID {
		return nil, fmt.Errorf("interview %s: %w", id, ErrNotFound)
	}
	return iv, nil
}

// Resolve finds an interview by id or share code, for applicants
func (s *InterviewService) Resolve(ctx context.Context, idOrCode string) (*model.Interview, error) {
	iv, err := s.interviews.GetByID(ctx, idOrCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if iv == nil {
		iv, err = s.interviews.GetByShareCode(ctx, idOrCode)
		if err != nil {
			return nil, fmt.Errorf("failed to get interview: %w", err)
		}
	}
	if iv == nil {
		return nil, fmt.Errorf("interview %s: %w", idOrCode, ErrNotFound)
	}
	return iv, nil
}

// List returns a page of the recruiter's interviews, newest first
func (s *InterviewService) List(ctx context.Context, recruiterID string, status model.InterviewStatus, offset, limit int) (*model.InterviewPage, error) {
	switch status {
	case "", model.InterviewScheduled, model.InterviewCompleted, model.InterviewCancelled:
	default:
		return nil, validation.Errors{"status": "must be one of: Scheduled, Completed, Cancelled"}
	}
	offset, limit = model.NormalizePage(offset, limit)
	out, total, err := s.interviews.List(ctx, recruiterID, status, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return &model.InterviewPage{
		Interviews: out,
		Pagination: model.NewPagination(total, offset, limit),
	}, nil
}

// AddInvitee allows a candidate to authenticate for the interview
func (s *InterviewService) AddInvitee(ctx context.Context, recruiterID, id string, in model.InviteeInput) (*model.Interview, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	iv, err := s.Get(ctx, recruiterID, id)
	if err != nil {
		return nil, err
	}
	if iv.Status != model.InterviewScheduled {
		return nil, fmt.Errorf("interview is %s: %w", strings.ToLower(string(iv.Status)), ErrInvalidTransition)
	}
	inv := model.Invitee{
		Name:  strings.TrimSpace(in.Name),
		Email: validation.NormalizeEmail(in.Email),
		Phone: validation.NormalizePhone(in.Phone),
	}
	if err := s.interviews.AddInvitee(ctx, id, inv); err != nil {
		return nil, fmt.Errorf("failed to add invitee: %w", err)
	}
	return s.Get(ctx, recruiterID, id)
}

// Cancel stops a scheduled interview from accepting applicants
func (s *InterviewService) Cancel(ctx context.Context, recruiterID, id string) (*model.Interview, error) {
	iv, err := s.Get(ctx, recruiterID, id)
	if err != nil {
		return nil, err
	}
	if iv.Status != model.InterviewScheduled {
		return nil, fmt.Errorf("interview is %s: %w", strings.ToLower(string(iv.Status)), ErrInvalidTransition)
	}
	if err := s.interviews.UpdateStatus(ctx, id, model.InterviewCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel interview: %w", err)
	}
	iv.Status = model.InterviewCancelled
	log.Printf("recruiter %s cancelled interview %s", recruiterID, id)
	return iv, nil
}

// Complete marks an interview completed once an applicant finishes the call
func (s *InterviewService) Complete(ctx context.Context, id string) error {
	iv, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get interview: %w", err)
	}
	if iv == nil {
		return fmt.Errorf("interview %s: %w", id, ErrNotFound)
	}
	if iv.Status != model.InterviewScheduled {
		return nil
	}
	return s.interviews.UpdateStatus(ctx, id, model.InterviewCompleted)
}

// Questions lays out the question slots an applicant steps through. Custom
// questions come first, then one slot per AI question.
func Questions(iv *model.Interview) []callflow.Question {
	var out []callflow.Question
	if iv.QuestionType != string(wizard.QuestionsAI) {
		for _, q := range iv.CustomQuestions {
			out = append(out, callflow.Question{Index: len(out), Kind: string(wizard.QuestionsCustom), Prompt: q})
		}
	}
	if iv.QuestionType != string(wizard.QuestionsCustom) {
		for i := 0; i < iv.AIQuestionCount; i++ {
			out = append(out, callflow.Question{Index: len(out), Kind: string(wizard.QuestionsAI)})
		}
	}
	return out
}

// isInvited reports whether the applicant matches an invitee. Interviews
// without invitees are open to anyone holding the link.
func isInvited(iv *model.Interview, email, phone string) bool {
	if len(iv.Invitees) == 0 {
		return true
	}
	for _, inv := range iv.Invitees {
		if inv.Email != "" && inv.Email == email {
			return true
		}
		if inv.Phone != "" && inv.Phone == phone {
			return true
		}
	}
	return false
}
