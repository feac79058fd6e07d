package model

import (
	"hireflow/internal/wizard"
	"time"
)

// WizardSession is a recruiter's in-progress interview-creation wizard
type WizardSession struct {
	ID          string       `json:"id"`
	RecruiterID string       `json:"recruiterId"`
	State       wizard.State `json:"state"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// WizardResponse is what every wizard endpoint returns. After the final step
// the wizard is closed, so Closed is set and View shows a fresh wizard.
type WizardResponse struct {
	ID        string         `json:"id"`
	View      wizard.View    `json:"view"`
	Result    *wizard.Result `json:"result,omitempty"`
	Interview *Interview     `json:"interview,omitempty"`
	Closed    bool           `json:"closed"`
}

// FieldsRequest sets one or more wizard fields
type FieldsRequest struct {
	Fields map[string]any `json:"fields"`
}
