package memstore

import (
	"context"
	"hireflow/internal/model"
	"hireflow/internal/repository"
	"strings"
	"sync"
	"time"
)

// Recruiters implements repository.RecruiterRepo
type Recruiters struct {
	t *table[model.Recruiter]
}

func NewRecruiters() *Recruiters {
	return &Recruiters{t: newTable[model.Recruiter]()}
}

func (r *Recruiters) Create(ctx context.Context, rec *model.Recruiter) error {
	dup := r.t.find(func(x *model.Recruiter) bool {
		return x.Email == rec.Email || x.Phone == rec.Phone
	}, nil)
	if len(dup) > 0 || r.t.has(rec.ID) {
		return repository.ErrDuplicate
	}
	r.t.put(rec.ID, rec)
	return nil
}

func (r *Recruiters) GetByID(ctx context.Context, id string) (*model.Recruiter, error) {
	return r.t.get(id), nil
}

func (r *Recruiters) GetByEmail(ctx context.Context, email string) (*model.Recruiter, error) {
	return first(r.t.find(func(x *model.Recruiter) bool { return x.Email == email }, nil)), nil
}

func (r *Recruiters) GetByPhone(ctx context.Context, phone string) (*model.Recruiter, error) {
	return first(r.t.find(func(x *model.Recruiter) bool { return x.Phone == phone }, nil)), nil
}

func first[T any](rows []*T) *T {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// Jobs implements repository.JobRepo
type Jobs struct {
	t *table[model.Job]
}

func NewJobs() *Jobs {
	return &Jobs{t: newTable[model.Job]()}
}

func (r *Jobs) Create(ctx context.Context, job *model.Job) error {
	r.t.put(job.ID, job)
	return nil
}

func (r *Jobs) GetByID(ctx context.Context, id string) (*model.Job, error) {
	return r.t.get(id), nil
}

func (r *Jobs) List(ctx context.Context, recruiterID string, f model.JobFilter) ([]*model.Job, int64, error) {
	search := strings.ToLower(f.Search)
	rows := r.t.find(func(j *model.Job) bool {
		if j.RecruiterID != recruiterID {
			return false
		}
		if f.Status != "" && j.Status != f.Status {
			return false
		}
		if search == "" {
			return true
		}
		if strings.Contains(strings.ToLower(j.Title), search) || strings.Contains(strings.ToLower(j.Domain), search) {
			return true
		}
		for _, s := range j.Skills {
			if strings.Contains(strings.ToLower(s), search) {
				return true
			}
		}
		return false
	}, newestJobFirst)
	return page(rows, f.Offset, f.Limit), int64(len(rows)), nil
}

func newestJobFirst(a, b *model.Job) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (r *Jobs) Update(ctx context.Context, job *model.Job) error {
	if r.t.has(job.ID) {
		r.t.put(job.ID, job)
	}
	return nil
}

func (r *Jobs) Delete(ctx context.Context, id string) (bool, error) {
	return r.t.remove(id), nil
}

func (r *Jobs) AddRound(ctx context.Context, jobID string, round model.Round) error {
	r.t.update(jobID, func(j *model.Job) {
		j.Rounds = append(j.Rounds, round)
		j.UpdatedAt = time.Now()
	})
	return nil
}

func (r *Jobs) IncInterviews(ctx context.Context, jobID string, delta int) error {
	r.t.update(jobID, func(j *model.Job) { j.Interviews += delta })
	return nil
}

func (r *Jobs) Count(ctx context.Context, recruiterID string, status model.JobStatus) (int64, error) {
	rows := r.t.find(func(j *model.Job) bool {
		return j.RecruiterID == recruiterID && (status == "" || j.Status == status)
	}, nil)
	return int64(len(rows)), nil
}

// Interviewers implements repository.InterviewerRepo
type Interviewers struct {
	t *table[model.Interviewer]
}

func NewInterviewers() *Interviewers {
	return &Interviewers{t: newTable[model.Interviewer]()}
}

func (r *Interviewers) Create(ctx context.Context, iv *model.Interviewer) error {
	r.t.put(iv.ID, iv)
	return nil
}

func (r *Interviewers) GetByID(ctx context.Context, id string) (*model.Interviewer, error) {
	return r.t.get(id), nil
}

func (r *Interviewers) ListByRecruiter(ctx context.Context, recruiterID string) ([]*model.Interviewer, error) {
	return r.t.find(
		func(iv *model.Interviewer) bool { return iv.RecruiterID == recruiterID },
		func(a, b *model.Interviewer) bool { return a.Name < b.Name },
	), nil
}

func (r *Interviewers) Update(ctx context.Context, iv *model.Interviewer) error {
	if r.t.has(iv.ID) {
		r.t.put(iv.ID, iv)
	}
	return nil
}

func (r *Interviewers) Delete(ctx context.Context, id string) (bool, error) {
	return r.t.remove(id), nil
}

// Interviews implements repository.InterviewRepo
type Interviews struct {
	t *table[model.Interview]
}

func NewInterviews() *Interviews {
	return &Interviews{t: newTable[model.Interview]()}
}

func (r *Interviews) Create(ctx context.Context, iv *model.Interview) error {
	taken := r.t.find(func(x *model.Interview) bool { return x.ShareCode == iv.ShareCode }, nil)
	if len(taken) > 0 || r.t.has(iv.ID) {
		return repository.ErrDuplicate
	}
	r.t.put(iv.ID, iv)
	return nil
}

func (r *Interviews) GetByID(ctx context.Context, id string) (*model.Interview, error) {
	return r.t.get(id), nil
}

func (r *Interviews) GetByShareCode(ctx context.Context, code string) (*model.Interview, error) {
	return first(r.t.find(func(x *model.Interview) bool { return x.ShareCode == code }, nil)), nil
}

func (r *Interviews) List(ctx context.Context, recruiterID string, status model.InterviewStatus, offset, limit int) ([]*model.Interview, int64, error) {
	rows := r.t.find(func(x *model.Interview) bool {
		return x.RecruiterID == recruiterID && (status == "" || x.Status == status)
	}, func(a, b *model.Interview) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page(rows, offset, limit), int64(len(rows)), nil
}

func (r *Interviews) UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error {
	r.t.update(id, func(x *model.Interview) {
		x.Status = status
		x.UpdatedAt = time.Now()
	})
	return nil
}

func (r *Interviews) AddInvitee(ctx context.Context, id string, inv model.Invitee) error {
	r.t.update(id, func(x *model.Interview) {
		for _, have := range x.Invitees {
			if have == inv {
				return
			}
		}
		x.Invitees = append(x.Invitees, inv)
		x.UpdatedAt = time.Now()
	})
	return nil
}

func (r *Interviews) Count(ctx context.Context, recruiterID string, status model.InterviewStatus) (int64, error) {
	_, total, err := r.List(ctx, recruiterID, status, 0, 0)
	return total, err
}

// CallResults implements repository.CallResultRepo
type CallResults struct {
	mu sync.Mutex
	t  *table[model.CallResult]
}

func NewCallResults() *CallResults {
	return &CallResults{t: newTable[model.CallResult]()}
}

func (r *CallResults) Create(ctx context.Context, res *model.CallResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dup := r.t.find(func(x *model.CallResult) bool { return x.SessionID == res.SessionID }, nil)
	if len(dup) > 0 {
		return repository.ErrDuplicate
	}
	r.t.put(res.ID, res)
	return nil
}

func (r *CallResults) GetBySession(ctx context.Context, sessionID string) (*model.CallResult, error) {
	return first(r.t.find(func(x *model.CallResult) bool { return x.SessionID == sessionID }, nil)), nil
}

func (r *CallResults) Summary(ctx context.Context, recruiterID string) (int64, float64, error) {
	rows := r.t.find(func(x *model.CallResult) bool { return x.RecruiterID == recruiterID }, nil)
	if len(rows) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, x := range rows {
		sum += x.Rating
	}
	return int64(len(rows)), float64(sum) / float64(len(rows)), nil
}

var (
	_ repository.RecruiterRepo   = (*Recruiters)(nil)
	_ repository.JobRepo         = (*Jobs)(nil)
	_ repository.InterviewerRepo = (*Interviewers)(nil)
	_ repository.InterviewRepo   = (*Interviews)(nil)
	_ repository.CallResultRepo  = (*CallResults)(nil)
)
