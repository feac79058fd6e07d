package model

import "time"

// Interviewer is an AI interviewer persona a recruiter assigns to rounds
type Interviewer struct {
	ID          string    `json:"id" bson:"_id"`
	RecruiterID string    `json:"recruiterId" bson:"recruiterId"`
	Name        string    `json:"name" bson:"name"`
	Voice       string    `json:"voice" bson:"voice"`
	About       string    `json:"about" bson:"about"`
	Skills      string    `json:"skills" bson:"skills"`
	RoundType   string    `json:"roundType" bson:"roundType"`
	Language    string    `json:"language" bson:"language"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// InterviewerInput is the request body for creating or replacing an interviewer
type InterviewerInput struct {
	Name      string `json:"name" validate:"notblank,max=80"`
	Voice     string `json:"voice" validate:"required"`
	About     string `json:"about" validate:"max=2000"`
	Skills    string `json:"skills" validate:"max=500"`
	RoundType string `json:"roundType" validate:"required"`
	Language  string `json:"language" validate:"required"`
}

// InterviewerPatch is the request body for a partial interviewer update
type InterviewerPatch struct {
	Name      *string `json:"name,omitempty"`
	Voice     *string `json:"voice,omitempty"`
	About     *string `json:"about,omitempty"`
	Skills    *string `json:"skills,omitempty"`
	RoundType *string `json:"roundType,omitempty"`
	Language  *string `json:"language,omitempty"`
}

// Input returns the editable fields of an interviewer
func (iv *Interviewer) Input() InterviewerInput {
	return InterviewerInput{
		Name:      iv.Name,
		Voice:     iv.Voice,
		About:     iv.About,
		Skills:    iv.Skills,
		RoundType: iv.RoundType,
		Language:  iv.Language,
	}
}

// Apply overlays the non-nil fields of p onto in
func (p *InterviewerPatch) Apply(in InterviewerInput) InterviewerInput {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Voice != nil {
		in.Voice = *p.Voice
	}
	if p.About != nil {
		in.About = *p.About
	}
	if p.Skills != nil {
		in.Skills = *p.Skills
	}
	if p.RoundType != nil {
		in.RoundType = *p.RoundType
	}
	if p.Language != nil {
		in.Language = *p.Language
	}
	return in
}
