package service

import (
	"context"
	"hireflow/internal/callflow"
	"hireflow/internal/memstore"
	"hireflow/internal/model"
	"hireflow/internal/validation"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduled(t *testing.T, f *fixture) *model.Interview {
	t.Helper()
	ctx := context.Background()
	job := f.job(t, "r1", "Go Engineer")
	iv := f.interviewer(t, "r1")
	start, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)
	_, err = f.wizardSvc.SetFields(ctx, "r1", start.ID, newRoundFields(job.ID, iv.ID))
	require.NoError(t, err)
	resp, _ := advanceUntilSubmitted(t, f, "r1", start.ID)
	return resp.Interview
}

// activate jumps a call session straight to the live interview
func activate(t *testing.T, f *fixture, sessionID string) {
	t.Helper()
	ctx := context.Background()
	sess, err := f.sessions.Get(ctx, sessionID)
	require.NoError(t, err)
	sess.State = callflow.StateInterviewActive
	require.NoError(t, f.sessions.Set(ctx, sess))
}

func applicantRequest() model.ApplicantAuthRequest {
	return model.ApplicantAuthRequest{
		FirstName: "Sam",
		LastName:  "Lee",
		Email:     "sam@mail.com",
		Phone:     "98765 43210",
	}
}

func authenticate(t *testing.T, f *fixture, idOrCode string) *model.ApplicantClaims {
	t.Helper()
	resp, err := f.calls.Authenticate(context.Background(), idOrCode, applicantRequest())
	require.NoError(t, err)
	require.True(t, resp.Authenticated)
	claims, err := f.auth.ValidateApplicantToken(resp.Token)
	require.NoError(t, err)
	return claims
}

func TestAuthenticateByIDOrShareCode(t *testing.T) {
	f := newFixture(t)
	iv := scheduled(t, f)

	byID := authenticate(t, f, iv.ID)
	byCode := authenticate(t, f, iv.ShareCode)
	assert.Equal(t, iv.ID, byID.InterviewID)
	assert.Equal(t, iv.ID, byCode.InterviewID)
	assert.NotEqual(t, byID.SessionID, byCode.SessionID)

	applicant, err := f.sessions.GetApplicant(context.Background(), byID.SessionID)
	require.NoError(t, err)
	assert.Equal(t, DefaultCountryCode, applicant.CountryCode)
	assert.Equal(t, "9876543210", applicant.Phone)

	roster, err := f.conference.Participants(context.Background(), byID.SessionID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, AgentParticipantID, roster[0].ID)
	assert.Equal(t, "Sam Lee", roster[1].Name)
}

func TestAuthenticateRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	iv := scheduled(t, f)

	_, err := f.calls.Authenticate(ctx, "nope", applicantRequest())
	assert.ErrorIs(t, err, ErrNotFound)

	bad := applicantRequest()
	bad.Phone = "123"
	_, err = f.calls.Authenticate(ctx, iv.ID, bad)
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "phone")

	_, err = f.interviewSvc.AddInvitee(ctx, "r1", iv.ID, model.InviteeInput{Email: "someone@else.com"})
	require.NoError(t, err)
	_, err = f.calls.Authenticate(ctx, iv.ID, applicantRequest())
	assert.ErrorIs(t, err, ErrNotInvited)

	_, err = f.interviewSvc.AddInvitee(ctx, "r1", iv.ID, model.InviteeInput{Email: "other@mail.com", Phone: "987-654-3210"})
	require.NoError(t, err)
	authenticate(t, f, iv.ID)

	_, err = f.interviewSvc.Cancel(ctx, "r1", iv.ID)
	require.NoError(t, err)
	_, err = f.calls.Authenticate(ctx, iv.ID, applicantRequest())
	assert.ErrorIs(t, err, ErrInterviewClosed)
	_, err = f.interviewSvc.Cancel(ctx, "r1", iv.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func acquireBoth(t *testing.T, f *fixture, claims *model.ApplicantClaims) {
	t.Helper()
	for _, kind := range []string{"camera", "microphone"} {
		_, err := f.calls.AcquireDevice(context.Background(), claims, kind)
		require.NoError(t, err)
	}
}

func TestCallFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	iv := scheduled(t, f)
	claims := authenticate(t, f, iv.ID)

	sess, err := f.calls.Session(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, callflow.StateGuidelines, sess.State)

	sess, err = f.calls.Advance(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, callflow.StateVerificationReady, sess.State)

	_, err = f.calls.Advance(ctx, claims)
	assert.ErrorIs(t, err, callflow.ErrDevicesRequired)

	for _, want := range []callflow.State{
		callflow.StateVerificationRecording,
		callflow.StateVerificationCompleted,
	} {
		acquireBoth(t, f, claims)
		sess, err = f.calls.Advance(ctx, claims)
		require.NoError(t, err)
		assert.Equal(t, want, sess.State)
		assert.Empty(t, sess.Leases, "advancing releases every device")
	}

	sess, err = f.calls.Advance(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, callflow.StateInterviewTips, sess.State)

	_, err = f.calls.DenyDevice(ctx, claims, model.DeviceDeniedRequest{Device: "microphone", Reason: "blocked"})
	require.NoError(t, err)
	acquireBoth(t, f, claims)
	sess, err = f.calls.Advance(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, callflow.StateInterviewActive, sess.State)

	q, err := f.calls.CurrentQuestion(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, 4, q.Total)
	assert.Equal(t, "custom", q.Kind)
	assert.Equal(t, "Walk me through a recent outage.", q.Prompt)

	_, err = f.calls.Advance(ctx, claims)
	assert.ErrorIs(t, err, callflow.ErrQuestionsRemaining)

	for i := 0; i < 4; i++ {
		q, err = f.calls.NextQuestion(ctx, claims)
		require.NoError(t, err)
	}
	assert.True(t, q.Finished)

	_, err = f.calls.SubmitFeedback(ctx, claims, model.FeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, callflow.ErrNotComplete)

	sess, err = f.calls.Advance(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, callflow.StateInterviewComplete, sess.State)
	assert.Contains(t, f.broadcaster.disconnected, sess.ID)

	stored, err := f.interviewSvc.Get(ctx, "r1", iv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InterviewCompleted, stored.Status)

	_, err = f.calls.SubmitFeedback(ctx, claims, model.FeedbackRequest{Rating: 9})
	assert.Error(t, err)

	res, err := f.calls.SubmitFeedback(ctx, claims, model.FeedbackRequest{Rating: 4, Comment: " Great "})
	require.NoError(t, err)
	assert.Equal(t, "Great", res.Comment)
	assert.Equal(t, "Sam", res.Applicant.FirstName)
	assert.Equal(t, 4, res.QuestionsAsked)

	_, err = f.calls.SubmitFeedback(ctx, claims, model.FeedbackRequest{Rating: 4})
	assert.ErrorIs(t, err, callflow.ErrFeedbackSubmitted)

	stats, err := f.dashboard.Stats(ctx, "r1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalJobs)
	assert.EqualValues(t, 1, stats.CompletedInterviews)
	assert.EqualValues(t, 1, stats.TotalApplicants)
	assert.Equal(t, 4.0, stats.AvgRating)
}

func TestTeardownReleasesDevices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	iv := scheduled(t, f)
	claims := authenticate(t, f, iv.ID)

	_, err := f.calls.Advance(ctx, claims)
	require.NoError(t, err)
	acquireBoth(t, f, claims)

	f.calls.Teardown(ctx, claims.SessionID)

	sess, err := f.calls.Session(ctx, claims)
	require.NoError(t, err)
	assert.Empty(t, sess.Leases)
	assert.Equal(t, callflow.StateVerificationReady, sess.State)
}

func TestDeviceErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	iv := scheduled(t, f)
	claims := authenticate(t, f, iv.ID)

	_, err := f.calls.AcquireDevice(ctx, claims, "speaker")
	assert.ErrorIs(t, err, callflow.ErrUnknownDevice)

	_, err = f.calls.Advance(ctx, claims)
	require.NoError(t, err)
	acquireBoth(t, f, claims)
	_, err = f.calls.DenyDevice(ctx, claims, model.DeviceDeniedRequest{Device: "camera"})
	require.NoError(t, err)
	_, err = f.calls.Advance(ctx, claims)
	assert.ErrorIs(t, err, callflow.ErrDevicePermission)

	other := *claims
	other.SessionID = "someone-else"
	_, err = f.calls.Session(ctx, &other)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConferenceSpeakingAndMic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	iv := scheduled(t, f)
	claims := authenticate(t, f, iv.ID)
	sid := claims.SessionID

	_, err := f.conference.SetSpeaking(ctx, sid, claims.ApplicantID, model.SpeakingRequest{ParticipantID: AgentParticipantID, Speaking: true})
	assert.ErrorIs(t, err, callflow.ErrNotActive)

	activate(t, f, sid)

	p, err := f.conference.SetSpeaking(ctx, sid, claims.ApplicantID, model.SpeakingRequest{ParticipantID: AgentParticipantID, Speaking: true})
	require.NoError(t, err)
	assert.True(t, p.Speaking)
	_, err = f.conference.SetSpeaking(ctx, sid, claims.ApplicantID, model.SpeakingRequest{ParticipantID: AgentParticipantID, Speaking: true})
	require.NoError(t, err)
	assert.Len(t, f.broadcaster.ofKind(EventSpeaking), 1, "unchanged state is not pushed")

	_, err = f.conference.SetSpeaking(ctx, sid, claims.ApplicantID, model.SpeakingRequest{ParticipantID: claims.ApplicantID, Speaking: true})
	require.NoError(t, err)
	p, err = f.conference.SetMic(ctx, sid, claims.ApplicantID, false)
	require.NoError(t, err)
	assert.False(t, p.MicEnabled)
	assert.False(t, p.Speaking, "muting clears speaking")

	p, err = f.conference.SetSpeaking(ctx, sid, claims.ApplicantID, model.SpeakingRequest{ParticipantID: claims.ApplicantID, Speaking: true})
	require.NoError(t, err)
	assert.False(t, p.Speaking, "a muted participant is never speaking")
	assert.Len(t, f.broadcaster.ofKind(EventMic), 1)

	_, err = f.conference.SetMic(ctx, sid, "ghost", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSpeakingOnlyForSelfOrAgent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	iv := scheduled(t, f)
	claims := authenticate(t, f, iv.ID)
	activate(t, f, claims.SessionID)

	_, err := f.conference.SetSpeaking(ctx, claims.SessionID, claims.ApplicantID, model.SpeakingRequest{ParticipantID: "someone-else", Speaking: true})
	assert.ErrorIs(t, err, ErrParticipantNotAllowed)
	_, err = f.conference.SetSpeaking(ctx, claims.SessionID, "ghost", model.SpeakingRequest{ParticipantID: "ghost", Speaking: true})
	assert.ErrorIs(t, err, ErrNotFound, "unknown participants are not added to the roster")

	roster, err := f.conference.Participants(ctx, claims.SessionID)
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

// pausingConferences holds the first participant read until released, so a
// second roster update can be started while the first is mid-flight.
type pausingConferences struct {
	*memstore.Conferences
	once    sync.Once
	reading chan struct{}
	release chan struct{}
}

func (c *pausingConferences) GetParticipant(ctx context.Context, sessionID, participantID string) (*model.Participant, error) {
	p, err := c.Conferences.GetParticipant(ctx, sessionID, participantID)
	first := false
	c.once.Do(func() { first = true })
	if first {
		close(c.reading)
		<-c.release
	}
	return p, err
}

func TestMuteIsNotLostToConcurrentSpeaking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	iv := scheduled(t, f)
	claims := authenticate(t, f, iv.ID)
	sid := claims.SessionID
	activate(t, f, sid)

	paused := &pausingConferences{
		Conferences: f.conferences,
		reading:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	conf := NewConferenceService(paused, f.sessions, f.broadcaster)

	speakingDone := make(chan error, 1)
	go func() {
		_, err := conf.SetSpeaking(ctx, sid, claims.ApplicantID, model.SpeakingRequest{ParticipantID: claims.ApplicantID, Speaking: true})
		speakingDone <- err
	}()
	<-paused.reading

	micDone := make(chan error, 1)
	go func() {
		_, err := conf.SetMic(ctx, sid, claims.ApplicantID, false)
		micDone <- err
	}()
	select {
	case err := <-micDone:
		t.Fatalf("mute finished while speaking update was in flight: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(paused.release)
	require.NoError(t, <-speakingDone)
	require.NoError(t, <-micDone)

	p, err := f.conferences.GetParticipant(ctx, sid, claims.ApplicantID)
	require.NoError(t, err)
	assert.False(t, p.MicEnabled)
	assert.False(t, p.Speaking)
	assert.Zero(t, conf.locks.size())
}

func TestSessionLocksAreDropped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	iv := scheduled(t, f)
	claims := authenticate(t, f, iv.ID)

	_, err := f.calls.Advance(ctx, claims)
	require.NoError(t, err)
	acquireBoth(t, f, claims)
	f.calls.Teardown(ctx, claims.SessionID)

	assert.Zero(t, f.calls.locks.size())
}
