package rest

import (
	"hireflow/internal/formprops"
	"hireflow/internal/service"
	"hireflow/internal/transport/rest/handler"
	"hireflow/internal/transport/rest/middleware"
	"hireflow/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService        *service.AuthService
	JobService         *service.JobService
	InterviewerService *service.InterviewerService
	InterviewService   *service.InterviewService
	WizardService      *service.WizardService
	CallService        *service.CallService
	ConferenceService  *service.ConferenceService
	DashboardService   *service.DashboardService
	Catalog            *formprops.Catalog
	WSHub              *ws.Hub
	AllowedOrigins     []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	formPropsHandler := handler.NewFormPropsHandler(c.Catalog)
	jobHandler := handler.NewJobHandler(c.JobService)
	interviewerHandler := handler.NewInterviewerHandler(c.InterviewerService)
	interviewHandler := handler.NewInterviewHandler(c.InterviewService)
	wizardHandler := handler.NewWizardHandler(c.WizardService)
	dashboardHandler := handler.NewDashboardHandler(c.DashboardService)
	callHandler := handler.NewCallHandler(c.CallService)
	conferenceHandler := handler.NewConferenceHandler(c.ConferenceService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.CallService, c.ConferenceService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(middleware.Logging)
	r.Use(middleware.CORS(c.AllowedOrigins))

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/verify", authHandler.Verify).Methods("POST", "OPTIONS")
	v1.HandleFunc("/form-properties", formPropsHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/call/{interviewId}/auth", callHandler.Authenticate).Methods("POST", "OPTIONS")

	// WebSocket (token in query param)
	v1.HandleFunc("/ws/call/{interviewId}", wsHandler.CallWS).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Recruiter routes
	recruiterRoutes := v1.NewRoute().Subrouter()
	recruiterRoutes.Use(authMW.RequireRecruiter)

	recruiterRoutes.HandleFunc("/jobs", jobHandler.List).Methods("GET", "OPTIONS")
	recruiterRoutes.HandleFunc("/jobs", jobHandler.Create).Methods("POST", "OPTIONS")
	recruiterRoutes.HandleFunc("/jobs/{id}", jobHandler.Get).Methods("GET", "OPTIONS")
	recruiterRoutes.HandleFunc("/jobs/{id}", jobHandler.Update).Methods("PATCH", "OPTIONS")
	recruiterRoutes.HandleFunc("/jobs/{id}", jobHandler.Delete).Methods("DELETE", "OPTIONS")

	recruiterRoutes.HandleFunc("/interviewers", interviewerHandler.List).Methods("GET", "OPTIONS")
	recruiterRoutes.HandleFunc("/interviewers", interviewerHandler.Create).Methods("POST", "OPTIONS")
	recruiterRoutes.HandleFunc("/interviewers/{id}", interviewerHandler.Get).Methods("GET", "OPTIONS")
	recruiterRoutes.HandleFunc("/interviewers/{id}", interviewerHandler.Update).Methods("PATCH", "OPTIONS")
	recruiterRoutes.HandleFunc("/interviewers/{id}", interviewerHandler.Delete).Methods("DELETE", "OPTIONS")

	recruiterRoutes.HandleFunc("/interviews", interviewHandler.List).Methods("GET", "OPTIONS")
	recruiterRoutes.HandleFunc("/interviews/{id}", interviewHandler.Get).Methods("GET", "OPTIONS")
	recruiterRoutes.HandleFunc("/interviews/{id}/invitees", interviewHandler.AddInvitee).Methods("POST", "OPTIONS")
	recruiterRoutes.HandleFunc("/interviews/{id}/cancel", interviewHandler.Cancel).Methods("POST", "OPTIONS")

	recruiterRoutes.HandleFunc("/wizards", wizardHandler.Start).Methods("POST", "OPTIONS")
	recruiterRoutes.HandleFunc("/wizards/{id}", wizardHandler.Get).Methods("GET", "OPTIONS")
	recruiterRoutes.HandleFunc("/wizards/{id}", wizardHandler.Close).Methods("DELETE", "OPTIONS")
	recruiterRoutes.HandleFunc("/wizards/{id}/fields", wizardHandler.SetFields).Methods("PATCH", "OPTIONS")
	recruiterRoutes.HandleFunc("/wizards/{id}/next", wizardHandler.Next).Methods("POST", "OPTIONS")
	recruiterRoutes.HandleFunc("/wizards/{id}/back", wizardHandler.Back).Methods("POST", "OPTIONS")

	recruiterRoutes.HandleFunc("/dashboard/stats", dashboardHandler.Stats).Methods("GET", "OPTIONS")

	// Applicant routes
	applicantRoutes := v1.NewRoute().Subrouter()
	applicantRoutes.Use(authMW.RequireApplicant)

	applicantRoutes.HandleFunc("/call/session", callHandler.Session).Methods("GET", "OPTIONS")
	applicantRoutes.HandleFunc("/call/advance", callHandler.Advance).Methods("POST", "OPTIONS")
	applicantRoutes.HandleFunc("/call/devices/{kind}", callHandler.AcquireDevice).Methods("POST", "OPTIONS")
	applicantRoutes.HandleFunc("/call/devices/{kind}", callHandler.ReleaseDevice).Methods("DELETE", "OPTIONS")
	applicantRoutes.HandleFunc("/call/device-denied", callHandler.DeviceDenied).Methods("POST", "OPTIONS")
	applicantRoutes.HandleFunc("/call/question", callHandler.Question).Methods("GET", "OPTIONS")
	applicantRoutes.HandleFunc("/call/question/next", callHandler.NextQuestion).Methods("POST", "OPTIONS")
	applicantRoutes.HandleFunc("/call/feedback", callHandler.Feedback).Methods("POST", "OPTIONS")
	applicantRoutes.HandleFunc("/call/conference/participants", conferenceHandler.Participants).Methods("GET", "OPTIONS")
	applicantRoutes.HandleFunc("/call/conference/speaking", conferenceHandler.Speaking).Methods("POST", "OPTIONS")
	applicantRoutes.HandleFunc("/call/conference/mic", conferenceHandler.Mic).Methods("POST", "OPTIONS")

	return r
}
