package model

import "errors"

// RequestStatus of an absence request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

var (
	ErrInvalidTransition = errors.New("request status cannot change that way")
	ErrNothingToUndo     = errors.New("nothing to undo")
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is a final decision.
func (s RequestStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// UndoToken records the status a decision replaced.
type UndoToken struct {
	Prior RequestStatus
}

// StatusState is the status of a request plus at most one level of undo.
type StatusState struct {
	Current RequestStatus
	Undo    *UndoToken
}

// Decide moves a pending request to approved or rejected.
func (s StatusState) Decide(to RequestStatus) (StatusState, error) {
	if s.Current != StatusPending || !to.IsDecision() {
		return s, ErrInvalidTransition
	}
	return StatusState{Current: to, Undo: &UndoToken{Prior: s.Current}}, nil
}

// Revert restores the status before the last decision. The token is consumed.
func (s StatusState) Revert() (StatusState, error) {
	if s.Undo == nil {
		return s, ErrNothingToUndo
	}
	return StatusState{Current: s.Undo.Prior}, nil
}
