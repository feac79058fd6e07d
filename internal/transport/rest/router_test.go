package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"hireflow/internal/formprops"
	"hireflow/internal/memstore"
	"hireflow/internal/model"
	"hireflow/internal/service"
	"hireflow/internal/transport/ws"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codeNotifier struct {
	mu    sync.Mutex
	codes map[string]string
}

func (n *codeNotifier) SendCode(ctx context.Context, destination, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[destination] = code
	return nil
}

func (n *codeNotifier) lastCode() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, c := range n.codes {
		return c
	}
	return ""
}

type testAPI struct {
	handler  http.Handler
	notifier *codeNotifier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	catalog := formprops.Default()
	notifier := &codeNotifier{codes: map[string]string{}}
	hub := ws.NewHub()

	jobs := memstore.NewJobs()
	interviewers := memstore.NewInterviewers()
	interviews := memstore.NewInterviews()
	results := memstore.NewCallResults()
	sessions := memstore.NewCallSessions()

	authSvc := service.NewAuthService(service.AuthConfig{
		JWTSecret:      "router-test-secret",
		TokenTTL:       time.Hour,
		RememberTTL:    24 * time.Hour,
		ApplicantTTL:   time.Hour,
		OTPTTL:         5 * time.Minute,
		OTPMaxAttempts: 5,
	}, memstore.NewRecruiters(), memstore.NewOTPs(), notifier, catalog)
	interviewSvc := service.NewInterviewService(interviews, jobs, interviewers, catalog, "https://hire.example.com")
	conferenceSvc := service.NewConferenceService(memstore.NewConferences(), sessions, hub)

	return &testAPI{
		notifier: notifier,
		handler: NewRouter(&Container{
			AuthService:        authSvc,
			JobService:         service.NewJobService(jobs, catalog),
			InterviewerService: service.NewInterviewerService(interviewers, catalog),
			InterviewService:   interviewSvc,
			WizardService:      service.NewWizardService(memstore.NewWizards(), interviewSvc),
			CallService:        service.NewCallService(sessions, results, interviewSvc, authSvc, conferenceSvc, hub),
			ConferenceService:  conferenceSvc,
			DashboardService:   service.NewDashboardService(jobs, interviews, results),
			Catalog:            catalog,
			WSHub:              hub,
			AllowedOrigins:     []string{"https://app.example.com"},
		}),
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testAPI) login(t *testing.T) string {
	t.Helper()
	rec := a.do(t, "POST", "/v1/auth/signup", "", model.SignupRequest{
		FirstName:   "Rita",
		LastName:    "Shah",
		Email:       "rita@acme.io",
		Phone:       "9876543210",
		CompanyName: "Acme",
		Industry:    "technology",
		CompanySize: "11-50",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, "POST", "/v1/auth/login", "", model.LoginRequest{EmailOrPhone: "rita@acme.io"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, "POST", "/v1/auth/verify", "", model.VerifyRequest{
		EmailOrPhone: "rita@acme.io",
		Code:         a.notifier.lastCode(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[model.TokenResponse](t, rec).Token
}

func TestHealthAndCORS(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	req := httptest.NewRequest("OPTIONS", "/v1/jobs", nil)
	req.Header.Set("Origin", "https://app.example.com")
	pre := httptest.NewRecorder()
	api.handler.ServeHTTP(pre, req)
	assert.Equal(t, http.StatusOK, pre.Code)
	assert.Equal(t, "https://app.example.com", pre.Header().Get("Access-Control-Allow-Origin"))
}

func TestProtectedRoutesRequireTokens(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(t, "GET", "/v1/jobs", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, "GET", "/v1/jobs", "garbage", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, "GET", "/v1/call/session", "", nil).Code)

	// a recruiter token carries no call session
	token := api.login(t)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, "GET", "/v1/call/session", token, nil).Code)
}

func TestAuthErrors(t *testing.T) {
	api := newTestAPI(t)
	api.login(t)

	rec := api.do(t, "POST", "/v1/auth/login", "", model.LoginRequest{EmailOrPhone: "nobody@acme.io"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, "POST", "/v1/auth/login", "", model.LoginRequest{EmailOrPhone: "not-an-address"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	api.do(t, "POST", "/v1/auth/login", "", model.LoginRequest{EmailOrPhone: "rita@acme.io"})
	wrong := "000000"
	if api.notifier.lastCode() == wrong {
		wrong = "111111"
	}
	rec = api.do(t, "POST", "/v1/auth/verify", "", model.VerifyRequest{EmailOrPhone: "rita@acme.io", Code: wrong})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJobCRUD(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	rec := api.do(t, "POST", "/v1/jobs", token, model.JobInput{Title: " ", Domain: "engineering"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	verr := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, rec)
	assert.Equal(t, "is required", verr.Fields["title"])

	rec = api.do(t, "POST", "/v1/jobs", token, model.JobInput{
		Title:         "Platform Engineer",
		Domain:        "engineering",
		JobLevel:      "senior",
		UserType:      "full-time",
		MinExperience: 2,
		MaxExperience: 5,
		NoOfOpenings:  1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	job := decode[model.Job](t, rec)
	assert.Equal(t, model.JobStatusActive, job.Status)

	rec = api.do(t, "GET", "/v1/jobs?search=platform", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[model.JobPage](t, rec)
	assert.Equal(t, int64(1), page.Pagination.Total)

	closed := model.JobStatusClosed
	rec = api.do(t, "PATCH", "/v1/jobs/"+job.ID, token, model.JobPatch{Status: &closed})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.JobStatusClosed, decode[model.Job](t, rec).Status)

	assert.Equal(t, http.StatusNoContent, api.do(t, "DELETE", "/v1/jobs/"+job.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, "GET", "/v1/jobs/"+job.ID, token, nil).Code)
}

func TestFormProperties(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "GET", "/v1/form-properties?keys=voice,language", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	props := decode[map[string][]formprops.Option](t, rec)
	assert.Len(t, props, 2)
	assert.NotEmpty(t, props["voice"])
}

func TestWizardToApplicantCall(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	rec := api.do(t, "POST", "/v1/jobs", token, model.JobInput{
		Title: "Data Engineer", Domain: "engineering", JobLevel: "mid", UserType: "full-time",
		MaxExperience: 4, NoOfOpenings: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	job := decode[model.Job](t, rec)

	rec = api.do(t, "POST", "/v1/interviewers", token, model.InterviewerInput{
		Name: "Ava", Voice: "nova", RoundType: "technical", Language: "en",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	interviewer := decode[model.Interviewer](t, rec)

	rec = api.do(t, "POST", "/v1/wizards", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	wiz := decode[model.WizardResponse](t, rec)

	rec = api.do(t, "PATCH", "/v1/wizards/"+wiz.ID+"/fields", token, model.FieldsRequest{Fields: map[string]any{
		"nope": "x",
	}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, "PATCH", "/v1/wizards/"+wiz.ID+"/fields", token, model.FieldsRequest{Fields: map[string]any{
		"interviewSource": "new",
		"jobId":           job.ID,
		"roundName":       "Pipelines",
		"roundType":       "technical",
		"duration":        30,
		"language":        "en",
		"interviewerId":   interviewer.ID,
		"questionType":    "ai",
		"aiQuestionCount": 3,
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created *model.Interview
	for i := 0; i < 10 && created == nil; i++ {
		rec = api.do(t, "POST", "/v1/wizards/"+wiz.ID+"/next", token, nil)
		require.Contains(t, []int{http.StatusOK, http.StatusCreated}, rec.Code, rec.Body.String())
		created = decode[model.WizardResponse](t, rec).Interview
	}
	require.NotNil(t, created)
	assert.Equal(t, http.StatusNotFound, api.do(t, "GET", "/v1/wizards/"+wiz.ID, token, nil).Code)

	rec = api.do(t, "GET", "/v1/interviews", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[model.InterviewPage](t, rec).Pagination.Total)

	rec = api.do(t, "POST", "/v1/call/missing/auth", "", model.ApplicantAuthRequest{
		FirstName: "Sam", LastName: "Lee", Email: "sam@mail.com", Phone: "9876543210",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decode[model.ApplicantAuthResponse](t, rec).Success)

	rec = api.do(t, "POST", "/v1/call/"+created.ShareCode+"/auth", "", model.ApplicantAuthRequest{
		FirstName: "Sam", LastName: "Lee", Email: "sam@mail.com", Phone: "9876543210",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	applicant := decode[model.ApplicantAuthResponse](t, rec).Token

	rec = api.do(t, "GET", "/v1/call/session", applicant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"guidelines"`)

	assert.Equal(t, http.StatusOK, api.do(t, "POST", "/v1/call/advance", applicant, nil).Code)
	assert.Equal(t, http.StatusConflict, api.do(t, "POST", "/v1/call/advance", applicant, nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, "POST", "/v1/call/devices/speaker", applicant, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(t, "POST", "/v1/call/devices/camera", applicant, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(t, "POST", "/v1/call/devices/microphone", applicant, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(t, "POST", "/v1/call/advance", applicant, nil).Code)

	assert.Equal(t, http.StatusConflict, api.do(t, "GET", "/v1/call/question", applicant, nil).Code)
	assert.Equal(t, http.StatusConflict, api.do(t, "POST", "/v1/call/feedback", applicant, model.FeedbackRequest{Rating: 5}).Code)

	rec = api.do(t, "GET", "/v1/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[model.DashboardStats](t, rec)
	assert.Equal(t, int64(1), stats.TotalJobs)
	assert.Equal(t, int64(1), stats.TotalInterviews)
}
