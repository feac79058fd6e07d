// Package callflow models an applicant's path through an interview call:
// guidelines, identity verification, tips, the live interview and feedback.
// Camera and microphone access is tracked as leases so that every flow
// transition and every teardown gives the devices back.
package callflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionComplete    = errors.New("interview already complete")
	ErrDevicesRequired    = errors.New("camera and microphone must be enabled to continue")
	ErrDevicePermission   = errors.New("device permission denied")
	ErrQuestionsRemaining = errors.New("questions remaining")
	ErrNotActive          = errors.New("interview is not in progress")
	ErrNotComplete        = errors.New("interview is not complete")
	ErrFeedbackSubmitted  = errors.New("feedback already submitted")
	ErrUnknownDevice      = errors.New("unknown device")
)

// State is one screen of the applicant flow.
type State string

const (
	StateAuth                  State = "auth"
	StateGuidelines            State = "guidelines"
	StateVerificationReady     State = "verification-ready"
	StateVerificationRecording State = "verification-recording"
	StateVerificationCompleted State = "verification-completed"
	StateInterviewTips         State = "interview-tips"
	StateInterviewActive       State = "interview-active"
	StateInterviewComplete     State = "interview-complete"
)

var order = []State{
	StateAuth,
	StateGuidelines,
	StateVerificationReady,
	StateVerificationRecording,
	StateVerificationCompleted,
	StateInterviewTips,
	StateInterviewActive,
	StateInterviewComplete,
}

// Next returns the state that follows s.
func (s State) Next() (State, bool) {
	for i, st := range order {
		if st == s && i < len(order)-1 {
			return order[i+1], true
		}
	}
	return s, false
}

// needsDevices lists the screens that cannot be left without camera and
// microphone access.
var needsDevices = map[State]bool{
	StateVerificationReady:     true,
	StateVerificationRecording: true,
	StateInterviewTips:         true,
}

type DeviceKind string

const (
	Camera     DeviceKind = "camera"
	Microphone DeviceKind = "microphone"
)

func ParseDeviceKind(s string) (DeviceKind, error) {
	switch DeviceKind(s) {
	case Camera, Microphone:
		return DeviceKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDevice, s)
}

// Lease records that the client holds a device stream for a screen.
type Lease struct {
	ID         string     `json:"id"`
	Kind       DeviceKind `json:"kind"`
	State      State      `json:"state"`
	AcquiredAt time.Time  `json:"acquiredAt"`
}

// Question is one slot of the interview. AI slots carry no prompt; the agent
// produces it live.
type Question struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"` // "custom" or "ai"
	Prompt string `json:"prompt,omitempty"`
}

// Session is one applicant's progress through a call. Sessions are created
// by successful applicant authentication, so they start past StateAuth.
type Session struct {
	ID                string                `json:"id"`
	InterviewID       string                `json:"interviewId"`
	ApplicantID       string                `json:"applicantId"`
	State             State                 `json:"state"`
	Leases            map[DeviceKind]Lease  `json:"leases"`
	DeviceErrors      map[DeviceKind]string `json:"deviceErrors,omitempty"`
	Questions         []Question            `json:"questions"`
	Current           int                   `json:"current"`
	FeedbackSubmitted bool                  `json:"feedbackSubmitted"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
	StartedAt         *time.Time            `json:"startedAt,omitempty"`
	CompletedAt       *time.Time            `json:"completedAt,omitempty"`
}

func NewSession(interviewID, applicantID string, questions []Question, now time.Time) *Session {
	return &Session{
		ID:          uuid.New().String(),
		InterviewID: interviewID,
		ApplicantID: applicantID,
		State:       StateGuidelines,
		Leases:      make(map[DeviceKind]Lease),
		Questions:   questions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Acquire records a device stream for the current screen. Acquiring a device
// that is already held returns the existing lease.
func (s *Session) Acquire(kind DeviceKind, now time.Time) (Lease, error) {
	if s.State == StateInterviewComplete {
		return Lease{}, ErrSessionComplete
	}
	if _, err := ParseDeviceKind(string(kind)); err != nil {
		return Lease{}, err
	}
	if s.Leases == nil {
		s.Leases = make(map[DeviceKind]Lease)
	}
	if l, ok := s.Leases[kind]; ok {
		return l, nil
	}
	l := Lease{ID: uuid.New().String(), Kind: kind, State: s.State, AcquiredAt: now}
	s.Leases[kind] = l
	delete(s.DeviceErrors, kind)
	s.UpdatedAt = now
	return l, nil
}

// Release gives back a single device.
func (s *Session) Release(kind DeviceKind) (Lease, bool) {
	l, ok := s.Leases[kind]
	if ok {
		delete(s.Leases, kind)
	}
	return l, ok
}

// ReleaseAll gives back every held device.
func (s *Session) ReleaseAll() []Lease {
	var out []Lease
	for _, kind := range []DeviceKind{Camera, Microphone} {
		if l, ok := s.Release(kind); ok {
			out = append(out, l)
		}
	}
	return out
}

// Deny records that the browser refused access to a device. The flow cannot
// leave a device screen until the device is acquired again.
func (s *Session) Deny(kind DeviceKind, reason string, now time.Time) error {
	if _, err := ParseDeviceKind(string(kind)); err != nil {
		return err
	}
	s.Release(kind)
	if s.DeviceErrors == nil {
		s.DeviceErrors = make(map[DeviceKind]string)
	}
	if reason == "" {
		reason = "permission denied"
	}
	s.DeviceErrors[kind] = reason
	s.UpdatedAt = now
	return nil
}

// Advance moves to the next screen and releases every lease held for the
// screen being left.
func (s *Session) Advance(now time.Time) ([]Lease, error) {
	if s.State == StateInterviewComplete {
		return nil, ErrSessionComplete
	}
	if needsDevices[s.State] {
		if len(s.DeviceErrors) > 0 {
			return nil, ErrDevicePermission
		}
		if _, ok := s.Leases[Camera]; !ok {
			return nil, ErrDevicesRequired
		}
		if _, ok := s.Leases[Microphone]; !ok {
			return nil, ErrDevicesRequired
		}
	}
	if s.State == StateInterviewActive && !s.Done() {
		return nil, ErrQuestionsRemaining
	}

	next, _ := s.State.Next()
	released := s.ReleaseAll()
	s.State = next
	s.UpdatedAt = now
	switch next {
	case StateInterviewActive:
		s.Current = 0
		s.StartedAt = &now
	case StateInterviewComplete:
		s.CompletedAt = &now
	}
	return released, nil
}

// CurrentQuestion returns the question being asked.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.State != StateInterviewActive || s.Done() {
		return Question{}, false
	}
	return s.Questions[s.Current], true
}

// Done reports whether every question has been stepped past.
func (s *Session) Done() bool {
	return s.Current >= len(s.Questions)
}

// NextQuestion steps past the current question and returns the following
// one. The boolean is false once the last question has been answered.
func (s *Session) NextQuestion(now time.Time) (Question, bool, error) {
	if s.State != StateInterviewActive {
		return Question{}, false, ErrNotActive
	}
	if !s.Done() {
		s.Current++
		s.UpdatedAt = now
	}
	q, ok := s.CurrentQuestion()
	return q, ok, nil
}

// MarkFeedback records that the applicant left feedback. It is accepted once,
// after the interview.
func (s *Session) MarkFeedback(now time.Time) error {
	if s.State != StateInterviewComplete {
		return ErrNotComplete
	}
	if s.FeedbackSubmitted {
		return ErrFeedbackSubmitted
	}
	s.FeedbackSubmitted = true
	s.UpdatedAt = now
	return nil
}
