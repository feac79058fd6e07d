package model

import "time"

// JobStatus is the publication state of a job posting
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusDraft  JobStatus = "draft"
	JobStatusClosed JobStatus = "closed"
)

// Job is a job posting owned by a recruiter
type Job struct {
	ID            string    `json:"id" bson:"_id"`
	RecruiterID   string    `json:"recruiterId" bson:"recruiterId"`
	Title         string    `json:"title" bson:"title"`
	Slug          string    `json:"slug" bson:"slug"`
	Domain        string    `json:"domain" bson:"domain"`
	JobLevel      string    `json:"jobLevel" bson:"jobLevel"`
	UserType      string    `json:"userType" bson:"userType"` // full-time, part-time, contract, intern
	MinExperience int       `json:"minExperience" bson:"minExperience"`
	MaxExperience int       `json:"maxExperience" bson:"maxExperience"`
	Description   string    `json:"description" bson:"description"`
	NoOfOpenings  int       `json:"noOfOpenings" bson:"noOfOpenings"`
	Status        JobStatus `json:"status" bson:"status"`
	Skills        []string  `json:"skills" bson:"skills"`
	Rounds        []Round   `json:"rounds" bson:"rounds"`
	Interviews    int       `json:"interviews" bson:"interviews"` // interviews scheduled against this job
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Round is an interview round template attached to a job. Interviews created
// for an existing round inherit its questions.
type Round struct {
	ID              string    `json:"id" bson:"id"`
	Name            string    `json:"name" bson:"name"`
	Type            string    `json:"type" bson:"type"`
	Objective       string    `json:"objective,omitempty" bson:"objective,omitempty"`
	Duration        int       `json:"duration" bson:"duration"` // minutes
	Language        string    `json:"language" bson:"language"`
	InterviewerID   string    `json:"interviewerId" bson:"interviewerId"`
	QuestionType    string    `json:"questionType" bson:"questionType"`
	AIQuestionCount int       `json:"aiQuestionCount" bson:"aiQuestionCount"`
	CustomQuestions []string  `json:"customQuestions,omitempty" bson:"customQuestions,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}

// FindRound returns the round with the given id
func (j *Job) FindRound(id string) (*Round, bool) {
	for i := range j.Rounds {
		if j.Rounds[i].ID == id {
			return &j.Rounds[i], true
		}
	}
	return nil, false
}

// JobInput is the request body for creating a job
type JobInput struct {
	Title         string    `json:"title" validate:"notblank,max=120"`
	Domain        string    `json:"domain" validate:"required"`
	JobLevel      string    `json:"jobLevel" validate:"required"`
	UserType      string    `json:"userType" validate:"required"`
	MinExperience int       `json:"minExperience" validate:"gte=0,lte=40"`
	MaxExperience int       `json:"maxExperience" validate:"gtefield=MinExperience,lte=40"`
	Description   string    `json:"description" validate:"max=5000"`
	NoOfOpenings  int       `json:"noOfOpenings" validate:"gte=1,lte=1000"`
	Status        JobStatus `json:"status" validate:"omitempty,oneof=active draft closed"`
	Skills        []string  `json:"skills" validate:"max=50,dive,notblank"`
}

// JobPatch is the request body for a partial job update; nil fields are left alone
type JobPatch struct {
	Title         *string    `json:"title,omitempty"`
	Domain        *string    `json:"domain,omitempty"`
	JobLevel      *string    `json:"jobLevel,omitempty"`
	UserType      *string    `json:"userType,omitempty"`
	MinExperience *int       `json:"minExperience,omitempty"`
	MaxExperience *int       `json:"maxExperience,omitempty"`
	Description   *string    `json:"description,omitempty"`
	NoOfOpenings  *int       `json:"noOfOpenings,omitempty"`
	Status        *JobStatus `json:"status,omitempty"`
	Skills        []string   `json:"skills,omitempty"`
}

// Input returns the editable fields of a job
func (j *Job) Input() JobInput {
	return JobInput{
		Title:         j.Title,
		Domain:        j.Domain,
		JobLevel:      j.JobLevel,
		UserType:      j.UserType,
		MinExperience: j.MinExperience,
		MaxExperience: j.MaxExperience,
		Description:   j.Description,
		NoOfOpenings:  j.NoOfOpenings,
		Status:        j.Status,
		Skills:        append([]string(nil), j.Skills...),
	}
}

// Apply overlays the non-nil fields of p onto in
func (p *JobPatch) Apply(in JobInput) JobInput {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Domain != nil {
		in.Domain = *p.Domain
	}
	if p.JobLevel != nil {
		in.JobLevel = *p.JobLevel
	}
	if p.UserType != nil {
		in.UserType = *p.UserType
	}
	if p.MinExperience != nil {
		in.MinExperience = *p.MinExperience
	}
	if p.MaxExperience != nil {
		in.MaxExperience = *p.MaxExperience
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.NoOfOpenings != nil {
		in.NoOfOpenings = *p.NoOfOpenings
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.Skills != nil {
		in.Skills = p.Skills
	}
	return in
}

// JobFilter narrows a job listing
type JobFilter struct {
	Search string
	Status JobStatus
	Offset int
	Limit  int
}

// JobPage is a page of jobs
type JobPage struct {
	Jobs       []*Job     `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}
