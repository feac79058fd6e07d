package ws

import (
	"context"
	"encoding/json"
	"hireflow/internal/callflow"
	"hireflow/internal/formprops"
	"hireflow/internal/memstore"
	"hireflow/internal/model"
	"hireflow/internal/service"
	"hireflow/internal/wizard"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callEnv struct {
	server   *httptest.Server
	sessions *memstore.CallSessions
	calls    *service.CallService
	claims   *model.ApplicantClaims
	token    string
}

func newCallEnv(t *testing.T) *callEnv {
	t.Helper()
	ctx := context.Background()
	catalog := formprops.Default()
	hub := NewHub()

	jobs := memstore.NewJobs()
	interviewers := memstore.NewInterviewers()
	sessions := memstore.NewCallSessions()

	authSvc := service.NewAuthService(service.AuthConfig{
		JWTSecret:    "ws-test-secret",
		TokenTTL:     time.Hour,
		ApplicantTTL: time.Hour,
	}, memstore.NewRecruiters(), memstore.NewOTPs(), service.LogNotifier{}, catalog)
	interviewSvc := service.NewInterviewService(memstore.NewInterviews(), jobs, interviewers, catalog, "https://hire.example.com")
	conferenceSvc := service.NewConferenceService(memstore.NewConferences(), sessions, hub)
	calls := service.NewCallService(sessions, memstore.NewCallResults(), interviewSvc, authSvc, conferenceSvc, hub)

	job, err := service.NewJobService(jobs, catalog).Create(ctx, "r1", model.JobInput{
		Title: "SRE", Domain: "engineering", JobLevel: "mid", UserType: "full-time", NoOfOpenings: 1,
	})
	require.NoError(t, err)
	persona, err := service.NewInterviewerService(interviewers, catalog).Create(ctx, "r1", model.InterviewerInput{
		Name: "Ava", Voice: "nova", RoundType: "technical", Language: "en",
	})
	require.NoError(t, err)
	iv, err := interviewSvc.CreateFromForm(ctx, "r1", wizard.FormData{
		InterviewSource: wizard.SourceNew,
		JobID:           job.ID,
		RoundName:       "On-call",
		RoundType:       "technical",
		Duration:        30,
		Language:        "en",
		InterviewerID:   persona.ID,
		QuestionType:    wizard.QuestionsAI,
		AIQuestionCount: 3,
	})
	require.NoError(t, err)

	resp, err := calls.Authenticate(ctx, iv.ID, model.ApplicantAuthRequest{
		FirstName: "Sam", LastName: "Lee", Email: "sam@mail.com", Phone: "9876543210",
	})
	require.NoError(t, err)
	claims, err := authSvc.ValidateApplicantToken(resp.Token)
	require.NoError(t, err)

	r := mux.NewRouter()
	r.HandleFunc("/v1/ws/call/{interviewId}", NewHandler(hub, authSvc, calls, conferenceSvc).CallWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &callEnv{server: srv, sessions: sessions, calls: calls, claims: claims, token: resp.Token}
}

func (e *callEnv) url(interviewID, token string) string {
	return "ws" + strings.TrimPrefix(e.server.URL, "http") + "/v1/ws/call/" + interviewID + "?token=" + token
}

func readMessage(t *testing.T, c *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, c.ReadJSON(&msg))
	return msg
}

func TestCallWSRejectsBadTokens(t *testing.T) {
	env := newCallEnv(t)

	_, resp, err := websocket.DefaultDialer.Dial(env.url(env.claims.InterviewID, "garbage"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(env.url("other-interview", env.token), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCallWSPushesRosterAndState(t *testing.T) {
	env := newCallEnv(t)

	c, _, err := websocket.DefaultDialer.Dial(env.url(env.claims.InterviewID, env.token), nil)
	require.NoError(t, err)
	defer c.Close()

	msg := readMessage(t, c)
	assert.Equal(t, MessageType(service.EventParticipants), msg.Type)
	var roster []model.Participant
	require.NoError(t, json.Unmarshal(msg.Payload, &roster))
	require.Len(t, roster, 2)
	assert.Equal(t, service.AgentParticipantID, roster[0].ID)

	_, err = env.calls.Advance(context.Background(), env.claims)
	require.NoError(t, err)

	msg = readMessage(t, c)
	assert.Equal(t, MessageType(service.EventCallState), msg.Type)
	assert.JSONEq(t, `{"state":"verification-ready"}`, string(msg.Payload))

	// speaking before the interview is live is refused
	require.NoError(t, c.WriteJSON(Message{Type: MsgSpeaking, Payload: json.RawMessage(`{"speaking":true}`)}))
	msg = readMessage(t, c)
	assert.Equal(t, MsgError, msg.Type)
}

func TestCallWSDisconnectReleasesDevices(t *testing.T) {
	env := newCallEnv(t)
	ctx := context.Background()

	c, _, err := websocket.DefaultDialer.Dial(env.url(env.claims.InterviewID, env.token), nil)
	require.NoError(t, err)
	readMessage(t, c)

	_, err = env.calls.AcquireDevice(ctx, env.claims, string(callflow.Camera))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	assert.Eventually(t, func() bool {
		sess, err := env.sessions.Get(ctx, env.claims.SessionID)
		return err == nil && sess != nil && len(sess.Leases) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
