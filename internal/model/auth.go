package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RecruiterClaims are JWT claims for dashboard authentication
type RecruiterClaims struct {
	RecruiterID string `json:"recruiterId"`
	jwt.RegisteredClaims
}

// ApplicantClaims are JWT claims for an applicant's call session
type ApplicantClaims struct {
	InterviewID string `json:"interviewId"`
	ApplicantID string `json:"applicantId"`
	SessionID   string `json:"sessionId"`
	jwt.RegisteredClaims
}

// Recruiter is a dashboard user
type Recruiter struct {
	ID          string    `json:"id" bson:"_id"`
	FirstName   string    `json:"firstName" bson:"firstName"`
	LastName    string    `json:"lastName" bson:"lastName"`
	Email       string    `json:"email" bson:"email"`
	Phone       string    `json:"phone" bson:"phone"` // digits only
	CompanyName string    `json:"companyName" bson:"companyName"`
	Website     string    `json:"website,omitempty" bson:"website,omitempty"`
	Industry    string    `json:"industry" bson:"industry"`
	CompanySize string    `json:"companySize" bson:"companySize"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// SignupRequest is the request body for recruiter signup
type SignupRequest struct {
	FirstName   string `json:"firstName" validate:"notblank,max=60"`
	LastName    string `json:"lastName" validate:"notblank,max=60"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,phone10"`
	CompanyName string `json:"companyName" validate:"notblank,max=120"`
	Website     string `json:"website" validate:"omitempty,url"`
	Industry    string `json:"industry" validate:"required"`
	CompanySize string `json:"companySize" validate:"required"`
}

// LoginRequest starts a one-time-code login
type LoginRequest struct {
	EmailOrPhone string `json:"emailOrPhone" validate:"required,emailorphone"`
}

// LoginResponse is returned once a code has been sent
type LoginResponse struct {
	Message     string `json:"message"`
	Destination string `json:"destination"` // masked email or phone
	ExpiresIn   int    `json:"expiresIn"`   // seconds
}

// VerifyRequest completes a one-time-code login
type VerifyRequest struct {
	EmailOrPhone string `json:"emailOrPhone" validate:"required,emailorphone"`
	Code         string `json:"code" validate:"required,len=6,numeric"`
	KeepSignedIn bool   `json:"keepSignedIn"`
}

// TokenResponse is returned after successful verification
type TokenResponse struct {
	Token       string    `json:"token"`
	RecruiterID string    `json:"recruiterId"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
