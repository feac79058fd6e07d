package model

import "time"

// InterviewStatus is the lifecycle state of a scheduled interview
type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "Scheduled"
	InterviewCompleted InterviewStatus = "Completed"
	InterviewCancelled InterviewStatus = "Cancelled"
)

// Reminder configures candidate reminders
type Reminder struct {
	Enabled       bool `json:"enabled" bson:"enabled"`
	MinutesBefore int  `json:"minutesBefore" bson:"minutesBefore"`
	WhatsApp      bool `json:"whatsapp" bson:"whatsapp"`
}

// Invitee is a candidate allowed to join an interview
type Invitee struct {
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"` // digits only
}

// Interview is a scheduled interview round produced by the creation wizard
type Interview struct {
	ID              string          `json:"id" bson:"_id"`
	RecruiterID     string          `json:"recruiterId" bson:"recruiterId"`
	Source          string          `json:"source" bson:"source"` // "new" or "existing"
	JobID           string          `json:"jobId" bson:"jobId"`
	JobTitle        string          `json:"jobTitle" bson:"jobTitle"`
	RoundID         string          `json:"roundId" bson:"roundId"`
	RoundName       string          `json:"roundName" bson:"roundName"`
	RoundType       string          `json:"roundType" bson:"roundType"`
	Objective       string          `json:"objective,omitempty" bson:"objective,omitempty"`
	Duration        int             `json:"duration" bson:"duration"`
	Language        string          `json:"language" bson:"language"`
	InterviewerID   string          `json:"interviewerId" bson:"interviewerId"`
	InterviewerName string          `json:"interviewerName" bson:"interviewerName"`
	QuestionType    string          `json:"questionType" bson:"questionType"`
	AIQuestionCount int             `json:"aiQuestionCount" bson:"aiQuestionCount"`
	CustomQuestions []string        `json:"customQuestions,omitempty" bson:"customQuestions,omitempty"`
	Instructions    string          `json:"instructions,omitempty" bson:"instructions,omitempty"`
	Reminder        Reminder        `json:"reminder" bson:"reminder"`
	ShareCode       string          `json:"shareCode" bson:"shareCode"`
	ShareLink       string          `json:"shareLink" bson:"shareLink"`
	Invitees        []Invitee       `json:"invitees,omitempty" bson:"invitees,omitempty"`
	Status          InterviewStatus `json:"status" bson:"status"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// InviteeInput is the request body for inviting a candidate
type InviteeInput struct {
	Name  string `json:"name" validate:"max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,phone10"`
}

// InterviewPage is a page of interviews
type InterviewPage struct {
	Interviews []*Interview `json:"interviews"`
	Pagination Pagination   `json:"pagination"`
}
