// Package app wires storage, services and transport from a Config.
package app

import (
	"context"
	"fmt"
	"hireflow/internal/cache"
	"hireflow/internal/config"
	"hireflow/internal/formprops"
	"hireflow/internal/memstore"
	"hireflow/internal/repository"
	"hireflow/internal/service"
	"hireflow/internal/transport/rest"
	"hireflow/internal/transport/ws"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App holds the storage the services are built on
type App struct {
	Recruiters   repository.RecruiterRepo
	Jobs         repository.JobRepo
	Interviewers repository.InterviewerRepo
	Interviews   repository.InterviewRepo
	CallResults  repository.CallResultRepo

	Wizards      cache.WizardCache
	OTPs         cache.OTPCache
	CallSessions cache.CallSessionCache
	Conferences  cache.ConferenceCache

	closers []func(ctx context.Context) error
}

// Open connects to the configured storage. With the memory backend nothing
// survives a restart.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.Storage == config.StorageMemory {
		log.Println("Using in-memory storage")
		return &App{
			Recruiters:   memstore.NewRecruiters(),
			Jobs:         memstore.NewJobs(),
			Interviewers: memstore.NewInterviewers(),
			Interviews:   memstore.NewInterviews(),
			CallResults:  memstore.NewCallResults(),
			Wizards:      memstore.NewWizards(),
			OTPs:         memstore.NewOTPs(),
			CallSessions: memstore.NewCallSessions(),
			Conferences:  memstore.NewConferences(),
		}, nil
	}

	a := &App{}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.closers = append(a.closers, mongoClient.Disconnect)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Connected to MongoDB")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	log.Println("Connected to Redis")

	db := mongoClient.Database(cfg.MongoDB)
	repository.EnsureIndexes(ctx, db)

	a.Recruiters = repository.NewRecruiterRepo(db)
	a.Jobs = repository.NewJobRepo(db)
	a.Interviewers = repository.NewInterviewerRepo(db)
	a.Interviews = repository.NewInterviewRepo(db)
	a.CallResults = repository.NewCallResultRepo(db)

	a.Wizards = cache.NewWizardCache(rdb, cfg.WizardTTL)
	a.OTPs = cache.NewOTPCache(rdb)
	a.CallSessions = cache.NewCallSessionCache(rdb, cfg.CallTTL)
	a.Conferences = cache.NewConferenceCache(rdb, cfg.CallTTL)
	return a, nil
}

// Close releases storage connections in reverse order of opening
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Printf("close: %v", err)
		}
	}
	a.closers = nil
}

// Container builds every service and returns the router dependencies
func (a *App) Container(cfg *config.Config, catalog *formprops.Catalog, notifier service.Notifier, hub *ws.Hub) *rest.Container {
	authSvc := service.NewAuthService(service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		RememberTTL:    cfg.RememberTTL,
		ApplicantTTL:   cfg.ApplicantTTL,
		OTPTTL:         cfg.OTPTTL,
		OTPMaxAttempts: cfg.OTPMaxAttempts,
	}, a.Recruiters, a.OTPs, notifier, catalog)
	interviewSvc := service.NewInterviewService(a.Interviews, a.Jobs, a.Interviewers, catalog, cfg.PublicURL)
	conferenceSvc := service.NewConferenceService(a.Conferences, a.CallSessions, hub)

	return &rest.Container{
		AuthService:        authSvc,
		JobService:         service.NewJobService(a.Jobs, catalog),
		InterviewerService: service.NewInterviewerService(a.Interviewers, catalog),
		InterviewService:   interviewSvc,
		WizardService:      service.NewWizardService(a.Wizards, interviewSvc),
		CallService:        service.NewCallService(a.CallSessions, a.CallResults, interviewSvc, authSvc, conferenceSvc, hub),
		ConferenceService:  conferenceSvc,
		DashboardService:   service.NewDashboardService(a.Jobs, a.Interviews, a.CallResults),
		Catalog:            catalog,
		WSHub:              hub,
		AllowedOrigins:     cfg.AllowedOrigins,
	}
}
