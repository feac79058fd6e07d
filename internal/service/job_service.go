package service

import (
	"context"
	"fmt"
	"hireflow/internal/formprops"
	"hireflow/internal/model"
	"hireflow/internal/repository"
	"hireflow/internal/validation"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// JobService handles job posting CRUD
type JobService struct {
	jobs    repository.JobRepo
	catalog *formprops.Catalog
}

// NewJobService creates a new job service
func NewJobService(jobs repository.JobRepo, catalog *formprops.Catalog) *JobService {
	return &JobService{
		jobs:    jobs,
		catalog: catalog,
	}
}

// check validates a job input against its tags and the option catalogue
func (s *JobService) check(in *model.JobInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Status == "" {
		in.Status = model.JobStatusActive
	}
	skills := in.Skills[:0]
	for _, sk := range in.Skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	in.Skills = skills

	errs := validation.Collect(in)
	if in.Domain != "" && !s.catalog.Allows(formprops.KeyDomain, in.Domain) {
		errs.Add("domain", "is not a known domain")
	}
	if in.JobLevel != "" && !s.catalog.Allows(formprops.KeyJobLevel, in.JobLevel) {
		errs.Add("jobLevel", "is not a known job level")
	}
	if in.UserType != "" && !s.catalog.Allows(formprops.KeyUserType, in.UserType) {
		errs.Add("userType", "is not a known employment type")
	}
	return errs.Err()
}

func jobSlug(title, id string) string {
	return slug.Make(title) + "-" + id[:8]
}

// Create validates and stores a new job
func (s *JobService) Create(ctx context.Context, recruiterID string, in model.JobInput) (*model.Job, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}

	now := time.Now()
	id := uuid.New().String()
	job := &model.Job{
		ID:            id,
		RecruiterID:   recruiterID,
		Title:         in.Title,
		Slug:          jobSlug(in.Title, id),
		Domain:        in.Domain,
		JobLevel:      in.JobLevel,
		UserType:      in.UserType,
		MinExperience: in.MinExperience,
		MaxExperience: in.MaxExperience,
		Description:   in.Description,
		NoOfOpenings:  in.NoOfOpenings,
		Status:        in.Status,
		Skills:        in.Skills,
		Rounds:        []model.Round{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	log.Printf("recruiter %s created job %s (%s)", recruiterID, job.ID, job.Title)
	return job, nil
}

// Get returns a job owned by the recruiter
func (s *JobService) Get(ctx context.Context, recruiterID, id string) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil || job.RecruiterID != recruiterID {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return job, nil
}

// List returns a page of the recruiter's jobs, newest first
func (s *JobService) List(ctx context.Context, recruiterID string, f model.JobFilter) (*model.JobPage, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Offset, f.Limit = model.NormalizePage(f.Offset, f.Limit)

	jobs, total, err := s.jobs.List(ctx, recruiterID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return &model.JobPage{
		Jobs:       jobs,
		Pagination: model.NewPagination(total, f.Offset, f.Limit),
	}, nil
}

// Update applies a partial update to a job
func (s *JobService) Update(ctx context.Context, recruiterID, id string, patch model.JobPatch) (*model.Job, error) {
	job, err := s.Get(ctx, recruiterID, id)
	if err != nil {
		return nil, err
	}
	in := patch.Apply(job.Input())
	if err := s.check(&in); err != nil {
		return nil, err
	}

	if in.Title != job.Title {
		job.Slug = jobSlug(in.Title, job.ID)
	}
	job.Title = in.Title
	job.Domain = in.Domain
	job.JobLevel = in.JobLevel
	job.UserType = in.UserType
	job.MinExperience = in.MinExperience
	job.MaxExperience = in.MaxExperience
	job.Description = in.Description
	job.NoOfOpenings = in.NoOfOpenings
	job.Status = in.Status
	job.Skills = in.Skills
	job.UpdatedAt = time.Now()

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

// Delete removes a job owned by the recruiter
func (s *JobService) Delete(ctx context.Context, recruiterID, id string) error {
	if _, err := s.Get(ctx, recruiterID, id); err != nil {
		return err
	}
	if _, err := s.jobs.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	log.Printf("recruiter %s deleted job %s", recruiterID, id)
	return nil
}
