package model

import "time"

// Applicant is a candidate who authenticated for an interview call
type Applicant struct {
	ID          string `json:"id" bson:"id"`
	FirstName   string `json:"firstName" bson:"firstName"`
	LastName    string `json:"lastName" bson:"lastName"`
	Email       string `json:"email" bson:"email"`
	CountryCode string `json:"countryCode" bson:"countryCode"`
	Phone       string `json:"phone" bson:"phone"`
}

// FullName joins first and last name
func (a Applicant) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// ApplicantAuthRequest is the request body for applicant authentication
type ApplicantAuthRequest struct {
	FirstName   string `json:"firstName" validate:"notblank,max=60"`
	LastName    string `json:"lastName" validate:"notblank,max=60"`
	Email       string `json:"email" validate:"required,email"`
	CountryCode string `json:"countryCode" validate:"required,startswith=+,max=5"`
	Phone       string `json:"phone" validate:"required,phone10"`
}

// ApplicantAuthData carries the session identifiers after authentication
type ApplicantAuthData struct {
	Token       string `json:"token"`
	InterviewID string `json:"interviewId"`
	ApplicantID string `json:"applicantId"`
	SessionID   string `json:"sessionId"`
}

// ApplicantAuthResponse is returned by applicant authentication
type ApplicantAuthResponse struct {
	Success       bool               `json:"success"`
	Authenticated bool               `json:"authenticated"`
	Message       string             `json:"message,omitempty"`
	Token         string             `json:"token,omitempty"`
	Data          *ApplicantAuthData `json:"data,omitempty"`
}

// CallResult is persisted when an applicant leaves feedback after a call
type CallResult struct {
	ID             string    `json:"id" bson:"_id"`
	InterviewID    string    `json:"interviewId" bson:"interviewId"`
	RecruiterID    string    `json:"recruiterId" bson:"recruiterId"`
	SessionID      string    `json:"sessionId" bson:"sessionId"`
	Applicant      Applicant `json:"applicant" bson:"applicant"`
	Rating         int       `json:"rating" bson:"rating"` // 1-5
	Comment        string    `json:"comment,omitempty" bson:"comment,omitempty"`
	QuestionsAsked int       `json:"questionsAsked" bson:"questionsAsked"`
	StartedAt      time.Time `json:"startedAt" bson:"startedAt"`
	CompletedAt    time.Time `json:"completedAt" bson:"completedAt"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// FeedbackRequest is the request body for post-interview feedback
type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// DeviceDeniedRequest reports a refused camera or microphone prompt
type DeviceDeniedRequest struct {
	Device string `json:"device" validate:"required,oneof=camera microphone"`
	Reason string `json:"reason" validate:"max=200"`
}

// QuestionView is the applicant's position in the question stepper
type QuestionView struct {
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Kind     string `json:"kind,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Finished bool   `json:"finished"`
}
