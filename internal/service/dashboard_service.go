package service

import (
	"context"
	"fmt"
	"hireflow/internal/model"
	"hireflow/internal/repository"
	"math"

	"golang.org/x/sync/errgroup"
)

// DashboardService aggregates the recruiter's hiring activity
type DashboardService struct {
	jobs       repository.JobRepo
	interviews repository.InterviewRepo
	results    repository.CallResultRepo
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(jobs repository.JobRepo, interviews repository.InterviewRepo, results repository.CallResultRepo) *DashboardService {
	return &DashboardService{
		jobs:       jobs,
		interviews: interviews,
		results:    results,
	}
}

// Stats runs the counts concurrently
func (s *DashboardService) Stats(ctx context.Context, recruiterID string) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalJobs, err = s.jobs.Count(ctx, recruiterID, "")
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveJobs, err = s.jobs.Count(ctx, recruiterID, model.JobStatusActive)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalInterviews, err = s.interviews.Count(ctx, recruiterID, "")
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedInterviews, err = s.interviews.Count(ctx, recruiterID, model.InterviewCompleted)
		return err
	})
	g.Go(func() error {
		count, avg, err := s.results.Summary(ctx, recruiterID)
		if err != nil {
			return err
		}
		stats.TotalApplicants = count
		stats.AvgRating = math.Round(avg*10) / 10
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return &stats, nil
}
