// Command seed creates a demo recruiter with jobs and AI interviewers.
package main

import (
	"context"
	"errors"
	"fmt"
	"hireflow/internal/app"
	"hireflow/internal/config"
	"hireflow/internal/formprops"
	"hireflow/internal/model"
	"hireflow/internal/service"
	"log"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	var (
		configFile = pflag.StringP("config", "c", "", "path to a YAML config file")
		email      = pflag.String("email", "demo@hireflow.dev", "recruiter email")
		phone      = pflag.String("phone", "9000000001", "recruiter phone (10 digits)")
		company    = pflag.String("company", "Hireflow Demo", "company name")
	)
	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Storage == config.StorageMemory {
		log.Fatal("seeding needs persistent storage, set STORAGE=mongo")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(context.Background())

	catalog, err := formprops.Load(cfg.FormProperties)
	if err != nil {
		log.Fatalf("Failed to load form properties: %v", err)
	}

	authSvc := service.NewAuthService(service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		OTPTTL:         cfg.OTPTTL,
		OTPMaxAttempts: cfg.OTPMaxAttempts,
	}, a.Recruiters, a.OTPs, service.LogNotifier{}, catalog)

	recruiter, err := authSvc.Signup(ctx, model.SignupRequest{
		FirstName:   "Demo",
		LastName:    "Recruiter",
		Email:       *email,
		Phone:       *phone,
		CompanyName: *company,
		Industry:    "technology",
		CompanySize: "11-50",
	})
	switch {
	case errors.Is(err, service.ErrAccountExists):
		recruiter, err = a.Recruiters.GetByEmail(ctx, *email)
		if err != nil || recruiter == nil {
			log.Fatalf("Recruiter %s exists under another email or phone", *email)
		}
		log.Printf("Recruiter %s already exists", recruiter.ID)
	case err != nil:
		log.Fatalf("Failed to create recruiter: %v", err)
	default:
		log.Printf("Created recruiter %s", recruiter.ID)
	}

	jobSvc := service.NewJobService(a.Jobs, catalog)
	for _, in := range demoJobs() {
		job, err := jobSvc.Create(ctx, recruiter.ID, in)
		if err != nil {
			log.Fatalf("Failed to create job %q: %v", in.Title, err)
		}
		log.Printf("Created job %s (%s)", job.ID, job.Slug)
	}

	interviewerSvc := service.NewInterviewerService(a.Interviewers, catalog)
	for _, in := range demoInterviewers() {
		iv, err := interviewerSvc.Create(ctx, recruiter.ID, in)
		if err != nil {
			log.Fatalf("Failed to create interviewer %q: %v", in.Name, err)
		}
		log.Printf("Created interviewer %s (%s)", iv.ID, iv.Name)
	}

	fmt.Printf("Seeded. Log in with %s; the code is printed in the server log.\n", *email)
}

func demoJobs() []model.JobInput {
	return []model.JobInput{
		{
			Title:         "Backend Engineer",
			Domain:        "engineering",
			JobLevel:      "mid",
			UserType:      "full-time",
			MinExperience: 2,
			MaxExperience: 5,
			Description:   "Build and operate the services behind our hiring platform.",
			NoOfOpenings:  2,
			Skills:        []string{"Go", "MongoDB", "Redis"},
		},
		{
			Title:         "Product Designer",
			Domain:        "design",
			JobLevel:      "senior",
			UserType:      "full-time",
			MinExperience: 4,
			MaxExperience: 8,
			NoOfOpenings:  1,
			Skills:        []string{"Figma", "User research"},
		},
		{
			Title:        "Sales Intern",
			Domain:       "sales",
			JobLevel:     "intern",
			UserType:     "intern",
			NoOfOpenings: 3,
			Status:       model.JobStatusDraft,
		},
	}
}

func demoInterviewers() []model.InterviewerInput {
	return []model.InterviewerInput{
		{
			Name:      "Ava",
			Voice:     "nova",
			About:     "Calm senior engineer who digs into system design trade-offs.",
			Skills:    "distributed systems, databases",
			RoundType: "technical",
			Language:  "en",
		},
		{
			Name:      "Leo",
			Voice:     "echo",
			About:     "Friendly people manager focused on collaboration stories.",
			Skills:    "communication, teamwork",
			RoundType: "behavioral",
			Language:  "en",
		},
	}
}
