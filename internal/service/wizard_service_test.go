package service

import (
	"context"
	"hireflow/internal/memstore"
	"hireflow/internal/model"
	"hireflow/internal/validation"
	"hireflow/internal/wizard"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advanceUntilSubmitted(t *testing.T, f *fixture, rid, id string) (*model.WizardResponse, []wizard.Step) {
	t.Helper()
	ctx := context.Background()
	var visited []wizard.Step
	for i := 0; i < 10; i++ {
		cur, err := f.wizardSvc.Get(ctx, rid, id)
		require.NoError(t, err)
		visited = append(visited, cur.View.Step)

		resp, err := f.wizardSvc.Next(ctx, rid, id)
		require.NoError(t, err)
		if resp.Closed {
			return resp, visited
		}
	}
	t.Fatal("wizard never submitted")
	return nil, nil
}

func TestWizardNewRoundCreatesInterview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.job(t, "r1", "Go Engineer")
	iv := f.interviewer(t, "r1")

	start, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepSource, start.View.Step)

	_, err = f.wizardSvc.SetFields(ctx, "r1", start.ID, newRoundFields(job.ID, iv.ID))
	require.NoError(t, err)

	resp, visited := advanceUntilSubmitted(t, f, "r1", start.ID)
	assert.Equal(t, []wizard.Step{1, 2, 3, 4, 5}, visited)
	require.NotNil(t, resp.Interview)
	assert.Equal(t, resp.Result.SubmissionID, resp.Interview.ID)
	assert.Equal(t, wizard.StepSource, resp.View.Step, "a closed wizard shows a fresh first step")

	got := resp.Interview
	assert.Equal(t, "Systems design", got.RoundName)
	assert.Equal(t, "Ava", got.InterviewerName)
	assert.Equal(t, []string{"Walk me through a recent outage."}, got.CustomQuestions)
	assert.Equal(t, 3, got.AIQuestionCount)
	assert.Equal(t, model.InterviewScheduled, got.Status)
	assert.Contains(t, got.ShareLink, "https://hire.example.com/interview/go-engineer/"+got.ShareCode)

	stored, err := f.jobSvc.Get(ctx, "r1", job.ID)
	require.NoError(t, err)
	require.Len(t, stored.Rounds, 1)
	assert.Equal(t, got.RoundID, stored.Rounds[0].ID)
	assert.Equal(t, 1, stored.Interviews)

	_, err = f.wizardSvc.Get(ctx, "r1", start.ID)
	assert.ErrorIs(t, err, ErrNotFound, "submitted wizards are closed")
}

func TestWizardExistingRoundInheritsQuestions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.job(t, "r1", "Go Engineer")
	iv := f.interviewer(t, "r1")

	first, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)
	_, err = f.wizardSvc.SetFields(ctx, "r1", first.ID, newRoundFields(job.ID, iv.ID))
	require.NoError(t, err)
	created, _ := advanceUntilSubmitted(t, f, "r1", first.ID)

	second, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)
	_, err = f.wizardSvc.SetFields(ctx, "r1", second.ID, map[string]any{
		"interviewSource": "existing",
		"jobId":           job.ID,
		"roundId":         created.Interview.RoundID,
		"instructions":    "Keep answers short.",
	})
	require.NoError(t, err)

	resp, visited := advanceUntilSubmitted(t, f, "r1", second.ID)
	assert.Equal(t, []wizard.Step{1, 2, 3, 5}, visited)
	got := resp.Interview
	assert.Equal(t, "existing", got.Source)
	assert.Equal(t, created.Interview.RoundID, got.RoundID)
	assert.Equal(t, created.Interview.CustomQuestions, got.CustomQuestions)
	assert.Equal(t, "Keep answers short.", got.Instructions)
	assert.NotEqual(t, created.Interview.ShareCode, got.ShareCode)

	stored, err := f.jobSvc.Get(ctx, "r1", job.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Rounds, 1, "existing rounds are reused, not duplicated")
	assert.Equal(t, 2, stored.Interviews)
}

func TestWizardNextReportsMissingFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)

	_, err = f.wizardSvc.Next(ctx, "r1", start.ID)
	var serr *wizard.StepError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, wizard.ErrCannotProceed)
	assert.Contains(t, serr.Problems, wizard.FieldInterviewSource)

	cur, err := f.wizardSvc.Get(ctx, "r1", start.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepSource, cur.View.Step)
}

func TestWizardRejectsRequestsDuringSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)

	locked, err := f.wizards.AcquireSubmitLock(ctx, start.ID)
	require.NoError(t, err)
	require.True(t, locked)

	_, err = f.wizardSvc.Next(ctx, "r1", start.ID)
	assert.ErrorIs(t, err, wizard.ErrSubmitInFlight)
	_, err = f.wizardSvc.SetFields(ctx, "r1", start.ID, map[string]any{"interviewSource": "new"})
	assert.ErrorIs(t, err, wizard.ErrSubmitInFlight)

	require.NoError(t, f.wizards.ReleaseSubmitLock(ctx, start.ID))
	_, err = f.wizardSvc.SetFields(ctx, "r1", start.ID, map[string]any{"interviewSource": "new"})
	assert.NoError(t, err)
}

// queuedWizards holds the first lock attempt until a second request has also
// reached the lock, then holds the second until the test lets it through.
type queuedWizards struct {
	*memstore.Wizards
	mu          sync.Mutex
	attempts    int
	bothArrived chan struct{}
	letSecondIn chan struct{}
}

func (c *queuedWizards) AcquireSubmitLock(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	c.attempts++
	n := c.attempts
	c.mu.Unlock()

	switch n {
	case 1:
		<-c.bothArrived
	case 2:
		close(c.bothArrived)
		<-c.letSecondIn
	}
	return c.Wizards.AcquireSubmitLock(ctx, id)
}

func TestWizardQueuedSubmitCreatesOneInterview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.job(t, "r1", "Go Engineer")
	iv := f.interviewer(t, "r1")

	start, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)
	_, err = f.wizardSvc.SetFields(ctx, "r1", start.ID, newRoundFields(job.ID, iv.ID))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err = f.wizardSvc.Next(ctx, "r1", start.ID)
		require.NoError(t, err)
	}

	queued := &queuedWizards{
		Wizards:     f.wizards,
		bothArrived: make(chan struct{}),
		letSecondIn: make(chan struct{}),
	}
	svc := NewWizardService(queued, f.interviewSvc)

	type result struct {
		resp *model.WizardResponse
		err  error
	}
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			resp, err := svc.Next(ctx, "r1", start.ID)
			results <- result{resp, err}
		}()
	}

	first := <-results
	close(queued.letSecondIn)
	second := <-results

	require.NoError(t, first.err)
	assert.True(t, first.resp.Closed)
	require.NotNil(t, first.resp.Interview)
	assert.ErrorIs(t, second.err, ErrNotFound)

	stored, err := f.jobSvc.Get(ctx, "r1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Interviews)
	assert.Len(t, stored.Rounds, 1)
}

func TestWizardFailedSubmitKeepsState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.job(t, "r1", "Go Engineer")

	start, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)
	_, err = f.wizardSvc.SetFields(ctx, "r1", start.ID, map[string]any{
		"interviewSource": "existing",
		"jobId":           job.ID,
		"roundId":         "missing-round",
	})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.wizardSvc.Next(ctx, "r1", start.ID)
		require.NoError(t, err)
	}

	_, err = f.wizardSvc.Next(ctx, "r1", start.ID)
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "roundId")

	cur, err := f.wizardSvc.Get(ctx, "r1", start.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepInstructions, cur.View.Step)
	assert.Equal(t, "missing-round", cur.View.Data.RoundID)
}

func TestWizardSetFieldsErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)

	_, err = f.wizardSvc.SetFields(ctx, "r1", start.ID, map[string]any{"color": "blue", "duration": "soon"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "color")
	assert.Contains(t, verrs, "duration")

	_, err = f.wizardSvc.Get(ctx, "r2", start.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWizardBackAndClose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.job(t, "r1", "Go Engineer")
	start, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)
	_, err = f.wizardSvc.SetFields(ctx, "r1", start.ID, map[string]any{"interviewSource": "existing", "jobId": job.ID})
	require.NoError(t, err)
	_, err = f.wizardSvc.Next(ctx, "r1", start.ID)
	require.NoError(t, err)

	back, err := f.wizardSvc.Back(ctx, "r1", start.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepSource, back.View.Step)
	assert.Equal(t, job.ID, back.View.Data.JobID)

	require.NoError(t, f.wizardSvc.Close(ctx, "r1", start.ID))
	_, err = f.wizardSvc.Get(ctx, "r1", start.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWizardExistingRoundChecksReminderTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.job(t, "r1", "Go Engineer")
	iv := f.interviewer(t, "r1")

	first, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)
	_, err = f.wizardSvc.SetFields(ctx, "r1", first.ID, newRoundFields(job.ID, iv.ID))
	require.NoError(t, err)
	created, _ := advanceUntilSubmitted(t, f, "r1", first.ID)

	second, err := f.wizardSvc.Start(ctx, "r1")
	require.NoError(t, err)
	_, err = f.wizardSvc.SetFields(ctx, "r1", second.ID, map[string]any{
		"interviewSource": "existing",
		"jobId":           job.ID,
		"roundId":         created.Interview.RoundID,
		"reminderEnabled": true,
		"reminderTime":    float64(7),
	})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.wizardSvc.Next(ctx, "r1", second.ID)
		require.NoError(t, err)
	}

	_, err = f.wizardSvc.Next(ctx, "r1", second.ID)
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "reminderTime")

	stored, err := f.jobSvc.Get(ctx, "r1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Interviews)
}
