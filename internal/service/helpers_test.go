package service

import (
	"context"
	"hireflow/internal/formprops"
	"hireflow/internal/memstore"
	"hireflow/internal/model"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sentCode struct {
	dest string
	code string
}

type captureNotifier struct {
	mu    sync.Mutex
	codes []sentCode
}

func (n *captureNotifier) SendCode(ctx context.Context, destination, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes = append(n.codes, sentCode{destination, code})
	return nil
}

func (n *captureNotifier) last() sentCode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[len(n.codes)-1]
}

type event struct {
	session string
	kind    string
	payload interface{}
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	events       []event
	disconnected []string
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event{sessionID, msgType, payload})
}

func (b *recordingBroadcaster) DisconnectSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, sessionID)
}

func (b *recordingBroadcaster) ofKind(kind string) []event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event
	for _, e := range b.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	recruiters   *memstore.Recruiters
	jobs         *memstore.Jobs
	interviewers *memstore.Interviewers
	interviews   *memstore.Interviews
	results      *memstore.CallResults
	wizards      *memstore.Wizards
	otps         *memstore.OTPs
	sessions     *memstore.CallSessions
	conferences  *memstore.Conferences

	notifier    *captureNotifier
	broadcaster *recordingBroadcaster

	auth         *AuthService
	jobSvc       *JobService
	interviewSvc *InterviewService
	ivSvc        *InterviewerService
	wizardSvc    *WizardService
	conference   *ConferenceService
	calls        *CallService
	dashboard    *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := formprops.Default()
	f := &fixture{
		recruiters:   memstore.NewRecruiters(),
		jobs:         memstore.NewJobs(),
		interviewers: memstore.NewInterviewers(),
		interviews:   memstore.NewInterviews(),
		results:      memstore.NewCallResults(),
		wizards:      memstore.NewWizards(),
		otps:         memstore.NewOTPs(),
		sessions:     memstore.NewCallSessions(),
		conferences:  memstore.NewConferences(),
		notifier:     &captureNotifier{},
		broadcaster:  &recordingBroadcaster{},
	}
	f.auth = NewAuthService(AuthConfig{
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		RememberTTL:    30 * 24 * time.Hour,
		ApplicantTTL:   time.Hour,
		OTPTTL:         5 * time.Minute,
		OTPMaxAttempts: 3,
	}, f.recruiters, f.otps, f.notifier, catalog)
	f.jobSvc = NewJobService(f.jobs, catalog)
	f.ivSvc = NewInterviewerService(f.interviewers, catalog)
	f.interviewSvc = NewInterviewService(f.interviews, f.jobs, f.interviewers, catalog, "https://hire.example.com/")
	f.wizardSvc = NewWizardService(f.wizards, f.interviewSvc)
	f.conference = NewConferenceService(f.conferences, f.sessions, f.broadcaster)
	f.calls = NewCallService(f.sessions, f.results, f.interviewSvc, f.auth, f.conference, f.broadcaster)
	f.dashboard = NewDashboardService(f.jobs, f.interviews, f.results)
	return f
}

func (f *fixture) job(t *testing.T, recruiterID, title string) *model.Job {
	t.Helper()
	job, err := f.jobSvc.Create(context.Background(), recruiterID, model.JobInput{
		Title:         title,
		Domain:        "engineering",
		JobLevel:      "senior",
		UserType:      "full-time",
		MinExperience: 3,
		MaxExperience: 6,
		NoOfOpenings:  2,
		Skills:        []string{"Kubernetes", "Postgres"},
	})
	require.NoError(t, err)
	return job
}

func (f *fixture) interviewer(t *testing.T, recruiterID string) *model.Interviewer {
	t.Helper()
	iv, err := f.ivSvc.Create(context.Background(), recruiterID, model.InterviewerInput{
		Name:      "Ava",
		Voice:     "nova",
		RoundType: "technical",
		Language:  "en",
	})
	require.NoError(t, err)
	return iv
}

// newRoundFields fills every field the new-source branch needs
func newRoundFields(jobID, interviewerID string) map[string]any {
	return map[string]any{
		"interviewSource": "new",
		"jobId":           jobID,
		"roundName":       "Systems design",
		"roundType":       "technical",
		"duration":        float64(45),
		"language":        "en",
		"interviewerId":   interviewerID,
		"questionType":    "hybrid",
		"aiQuestionCount": float64(3),
		"customQuestions": []any{"Walk me through a recent outage.", " "},
	}
}
