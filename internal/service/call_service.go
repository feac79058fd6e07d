package service

import (
	"context"
	"errors"
	"fmt"
	"hireflow/internal/cache"
	"hireflow/internal/callflow"
	"hireflow/internal/model"
	"hireflow/internal/repository"
	"hireflow/internal/validation"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCountryCode is assumed when an applicant leaves it blank
const DefaultCountryCode = "+91"

// CallService runs the applicant side of an interview call: authentication,
// the screen-by-screen flow, device leases, the question stepper and feedback
type CallService struct {
	sessions    cache.CallSessionCache
	results     repository.CallResultRepo
	interviews  *InterviewService
	auth        *AuthService
	conference  *ConferenceService
	broadcaster Broadcaster
	now         func() time.Time
	locks       *sessionLocks
}

// NewCallService creates a new call service
func NewCallService(
	sessions cache.CallSessionCache,
	results repository.CallResultRepo,
	interviews *InterviewService,
	auth *AuthService,
	conference *ConferenceService,
	broadcaster Broadcaster,
) *CallService {
	return &CallService{
		sessions:    sessions,
		results:     results,
		interviews:  interviews,
		auth:        auth,
		conference:  conference,
		broadcaster: broadcaster,
		now:         time.Now,
		locks:       newSessionLocks(),
	}
}

// Authenticate admits an applicant to an interview and opens a call session
func (s *CallService) Authenticate(ctx context.Context, idOrCode string, req model.ApplicantAuthRequest) (*model.ApplicantAuthResponse, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = validation.NormalizeEmail(req.Email)
	req.CountryCode = strings.TrimSpace(req.CountryCode)
	if req.CountryCode == "" {
		req.CountryCode = DefaultCountryCode
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	phone := validation.NormalizePhone(req.Phone)

	iv, err := s.interviews.Resolve(ctx, idOrCode)
	if err != nil {
		return nil, err
	}
	if iv.Status == model.InterviewCancelled {
		return nil, ErrInterviewClosed
	}
	if !isInvited(iv, req.Email, phone) {
		return nil, ErrNotInvited
	}

	applicant := &model.Applicant{
		ID:          uuid.New().String(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		CountryCode: req.CountryCode,
		Phone:       phone,
	}
	sess := callflow.NewSession(iv.ID, applicant.ID, Questions(iv), s.now())
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save call session: %w", err)
	}
	if err := s.sessions.SetApplicant(ctx, sess.ID, applicant); err != nil {
		return nil, fmt.Errorf("failed to save applicant: %w", err)
	}
	if err := s.conference.Join(ctx, sess.ID, iv, applicant); err != nil {
		return nil, err
	}

	token, err := s.auth.IssueApplicantToken(iv.ID, applicant.ID, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	log.Printf("applicant %s joined interview %s (session %s)", applicant.ID, iv.ID, sess.ID)

	return &model.ApplicantAuthResponse{
		Success:       true,
		Authenticated: true,
		Message:       "authenticated",
		Token:         token,
		Data: &model.ApplicantAuthData{
			Token:       token,
			InterviewID: iv.ID,
			ApplicantID: applicant.ID,
			SessionID:   sess.ID,
		},
	}, nil
}

func (s *CallService) get(ctx context.Context, claims *model.ApplicantClaims) (*callflow.Session, error) {
	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load call session: %w", err)
	}
	if sess == nil || sess.InterviewID != claims.InterviewID || sess.ApplicantID != claims.ApplicantID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// update loads the session under its lock, applies fn and saves it
func (s *CallService) update(ctx context.Context, claims *model.ApplicantClaims, fn func(sess *callflow.Session) error) (*callflow.Session, error) {
	defer s.locks.lock(claims.SessionID)()

	sess, err := s.get(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save call session: %w", err)
	}
	return sess, nil
}

// Session returns the applicant's call session
func (s *CallService) Session(ctx context.Context, claims *model.ApplicantClaims) (*callflow.Session, error) {
	return s.get(ctx, claims)
}

// Advance moves to the next screen, releasing any devices held for the
// screen being left
func (s *CallService) Advance(ctx context.Context, claims *model.ApplicantClaims) (*callflow.Session, error) {
	sess, err := s.update(ctx, claims, func(sess *callflow.Session) error {
		released, err := sess.Advance(s.now())
		if err != nil {
			return err
		}
		for _, l := range released {
			log.Printf("session %s released %s lease %s", sess.ID, l.Kind, l.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToSession(sess.ID, EventCallState, map[string]interface{}{
		"state": sess.State,
	})
	if sess.State == callflow.StateInterviewComplete {
		if err := s.interviews.Complete(ctx, sess.InterviewID); err != nil {
			log.Printf("failed to mark interview %s complete: %v", sess.InterviewID, err)
		}
		s.conference.End(ctx, sess.ID)
	}
	return sess, nil
}

// AcquireDevice records that the client opened a camera or microphone stream
func (s *CallService) AcquireDevice(ctx context.Context, claims *model.ApplicantClaims, kind string) (*callflow.Lease, error) {
	dk, err := callflow.ParseDeviceKind(kind)
	if err != nil {
		return nil, err
	}
	var lease callflow.Lease
	_, err = s.update(ctx, claims, func(sess *callflow.Session) error {
		lease, err = sess.Acquire(dk, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

// ReleaseDevice records that the client closed a device stream
func (s *CallService) ReleaseDevice(ctx context.Context, claims *model.ApplicantClaims, kind string) error {
	dk, err := callflow.ParseDeviceKind(kind)
	if err != nil {
		return err
	}
	_, err = s.update(ctx, claims, func(sess *callflow.Session) error {
		sess.Release(dk)
		return nil
	})
	return err
}

// DenyDevice records that the browser refused a device
func (s *CallService) DenyDevice(ctx context.Context, claims *model.ApplicantClaims, req model.DeviceDeniedRequest) (*callflow.Session, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.update(ctx, claims, func(sess *callflow.Session) error {
		log.Printf("session %s: %s denied (%s)", sess.ID, req.Device, req.Reason)
		return sess.Deny(callflow.DeviceKind(req.Device), req.Reason, s.now())
	})
}

func questionView(sess *callflow.Session) *model.QuestionView {
	qv := &model.QuestionView{
		Index:    sess.Current,
		Total:    len(sess.Questions),
		Finished: sess.Done(),
	}
	if q, ok := sess.CurrentQuestion(); ok {
		qv.Kind = q.Kind
		qv.Prompt = q.Prompt
	}
	return qv
}

// CurrentQuestion returns the applicant's position in the question stepper
func (s *CallService) CurrentQuestion(ctx context.Context, claims *model.ApplicantClaims) (*model.QuestionView, error) {
	sess, err := s.get(ctx, claims)
	if err != nil {
		return nil, err
	}
	if sess.State != callflow.StateInterviewActive {
		return nil, callflow.ErrNotActive
	}
	return questionView(sess), nil
}

// NextQuestion steps past the current question
func (s *CallService) NextQuestion(ctx context.Context, claims *model.ApplicantClaims) (*model.QuestionView, error) {
	sess, err := s.update(ctx, claims, func(sess *callflow.Session) error {
		_, _, err := sess.NextQuestion(s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return questionView(sess), nil
}

// SubmitFeedback stores the applicant's rating once the interview is over
func (s *CallService) SubmitFeedback(ctx context.Context, claims *model.ApplicantClaims, req model.FeedbackRequest) (*model.CallResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	defer s.locks.lock(claims.SessionID)()

	sess, err := s.get(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := sess.MarkFeedback(s.now()); err != nil {
		return nil, err
	}

	iv, err := s.interviews.Resolve(ctx, sess.InterviewID)
	if err != nil {
		return nil, err
	}
	applicant, err := s.sessions.GetApplicant(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load applicant: %w", err)
	}
	if applicant == nil {
		applicant = &model.Applicant{ID: sess.ApplicantID}
	}

	res := &model.CallResult{
		ID:             uuid.New().String(),
		InterviewID:    iv.ID,
		RecruiterID:    iv.RecruiterID,
		SessionID:      sess.ID,
		Applicant:      *applicant,
		Rating:         req.Rating,
		Comment:        strings.TrimSpace(req.Comment),
		QuestionsAsked: len(sess.Questions),
		CreatedAt:      s.now(),
	}
	if sess.StartedAt != nil {
		res.StartedAt = *sess.StartedAt
	}
	if sess.CompletedAt != nil {
		res.CompletedAt = *sess.CompletedAt
	}
	if err := s.results.Create(ctx, res); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, callflow.ErrFeedbackSubmitted
		}
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save call session: %w", err)
	}
	return res, nil
}

// Teardown releases every device the session still holds. Called when the
// applicant's socket goes away.
func (s *CallService) Teardown(ctx context.Context, sessionID string) {
	defer s.locks.lock(sessionID)()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil || sess == nil {
		return
	}
	released := sess.ReleaseAll()
	if len(released) == 0 {
		return
	}
	sess.UpdatedAt = s.now()
	if err := s.sessions.Set(ctx, sess); err != nil {
		log.Printf("failed to save session %s on teardown: %v", sessionID, err)
		return
	}
	log.Printf("session %s teardown released %d device(s)", sessionID, len(released))
}
