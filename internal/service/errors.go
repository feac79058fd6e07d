package service

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrNotInvited        = errors.New("you are not invited to this interview")
	ErrInterviewClosed   = errors.New("interview is no longer accepting applicants")
	ErrSessionNotFound   = errors.New("call session not found or expired")

	ErrParticipantNotAllowed = errors.New("cannot report for another participant")
)
