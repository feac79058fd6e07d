package service

import (
	"context"
	"hireflow/internal/model"
	"hireflow/internal/validation"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJobDefaultsAndSlug(t *testing.T) {
	f := newFixture(t)
	job := f.job(t, "r1", "  Senior Go Engineer ")

	assert.Equal(t, "Senior Go Engineer", job.Title)
	assert.Equal(t, model.JobStatusActive, job.Status)
	assert.True(t, strings.HasPrefix(job.Slug, "senior-go-engineer-"), job.Slug)
	assert.Empty(t, job.Rounds)
}

func TestCreateJobValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.jobSvc.Create(context.Background(), "r1", model.JobInput{
		Title:         " ",
		Domain:        "astrology",
		JobLevel:      "senior",
		UserType:      "full-time",
		MinExperience: 5,
		MaxExperience: 2,
		NoOfOpenings:  0,
		Skills:        []string{" ", "Go"},
	})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "is required", verrs["title"])
	assert.Equal(t, "is not a known domain", verrs["domain"])
	assert.Equal(t, "must not be less than minExperience", verrs["maxExperience"])
	assert.Equal(t, "must be at least 1", verrs["noOfOpenings"])
	assert.NotContains(t, verrs, "skills", "blank skills are dropped before validation")
}

func TestListJobsSearchFilterAndPaging(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i, title := range []string{"Go Engineer", "Product Designer", "Go SRE", "Data Analyst"} {
		job := f.job(t, "r1", title)
		job.CreatedAt = time.Date(2026, 1, i+1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, f.jobs.Update(ctx, job))
	}
	f.job(t, "r2", "Go Engineer")

	draft := model.JobStatusDraft
	all, err := f.jobSvc.List(ctx, "r1", model.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all.Jobs, 4)
	_, err = f.jobSvc.Update(ctx, "r1", all.Jobs[3].ID, model.JobPatch{Status: &draft})
	require.NoError(t, err)

	page, err := f.jobSvc.List(ctx, "r1", model.JobFilter{Search: "go", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Pagination.Total)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, "Go SRE", page.Jobs[0].Title)
	require.NotNil(t, page.Pagination.NextOffset)
	assert.Equal(t, 1, *page.Pagination.NextOffset)
	assert.Nil(t, page.Pagination.PreviousOffset)

	drafts, err := f.jobSvc.List(ctx, "r1", model.JobFilter{Status: model.JobStatusDraft})
	require.NoError(t, err)
	require.Len(t, drafts.Jobs, 1)
	assert.Equal(t, "Go Engineer", drafts.Jobs[0].Title)
}

func TestUpdateJobPatchesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.job(t, "r1", "Go Engineer")

	title := "Staff Go Engineer"
	got, err := f.jobSvc.Update(ctx, "r1", job.ID, model.JobPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.Equal(t, job.Domain, got.Domain)
	assert.NotEqual(t, job.Slug, got.Slug)

	bad := 99
	_, err = f.jobSvc.Update(ctx, "r1", job.ID, model.JobPatch{MinExperience: &bad})
	assert.Error(t, err)
}

func TestJobsAreScopedToRecruiter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.job(t, "r1", "Go Engineer")

	_, err := f.jobSvc.Get(ctx, "r2", job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.jobSvc.Delete(ctx, "r2", job.ID), ErrNotFound)

	require.NoError(t, f.jobSvc.Delete(ctx, "r1", job.ID))
	_, err = f.jobSvc.Get(ctx, "r1", job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInterviewerCRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	iv := f.interviewer(t, "r1")

	voice := "whisper"
	_, err := f.ivSvc.Update(ctx, "r1", iv.ID, model.InterviewerPatch{Voice: &voice})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "voice")

	voice = "echo"
	got, err := f.ivSvc.Update(ctx, "r1", iv.ID, model.InterviewerPatch{Voice: &voice})
	require.NoError(t, err)
	assert.Equal(t, "echo", got.Voice)
	assert.Equal(t, "Ava", got.Name)

	list, err := f.ivSvc.List(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.ivSvc.Delete(ctx, "r1", iv.ID))
	list, err = f.ivSvc.List(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
