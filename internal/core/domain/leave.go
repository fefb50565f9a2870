package domain

import (
	"errors"
	"time"
)

// LeaveStatus represents the lifecycle state of a leave record.
type LeaveStatus string

const (
	StatusPending  LeaveStatus = "pending"
	StatusApproved LeaveStatus = "approved"
	StatusRejected LeaveStatus = "rejected"
)

// LeaveType classifies the absence being requested.
type LeaveType string

const (
	LeaveAnnual LeaveType = "annual"
	LeaveSick   LeaveType = "sick"
	LeaveUnpaid LeaveType = "unpaid"
	LeaveOther  LeaveType = "other"
)

var (
	ErrLeaveNotFound  = errors.New("leave request not found")
	ErrAlreadyDecided = errors.New("leave request already decided")
	ErrForbidden      = errors.New("not authorized to approve/reject leave requests")
)

// validTransitions defines the allowed state machine transitions.
// Approved and rejected are terminal.
var validTransitions = map[LeaveStatus][]LeaveStatus{
	StatusPending: {StatusApproved, StatusRejected},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s LeaveStatus) CanTransitionTo(next LeaveStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsDecision reports whether s is a status a manager may set.
func (s LeaveStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Terminal reports whether no transition leaves s.
func (s LeaveStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeaveUnpaid, LeaveOther:
		return true
	}
	return false
}

// LeaveRecord is a single leave request and its approval state.
type LeaveRecord struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	StartDate    time.Time   `json:"startDate"`
	EndDate      time.Time   `json:"endDate"`
	Type         LeaveType   `json:"type"`
	Status       LeaveStatus `json:"status"`
	Reason       string      `json:"reason"`
	ApprovedBy   string      `json:"approvedBy,omitempty"`
	ApprovalDate *time.Time  `json:"approvalDate,omitempty"`
	Comments     string      `json:"comments,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Decision is the set of fields written by a single status transition.
type Decision struct {
	Status       LeaveStatus
	ApprovedBy   string
	ApprovalDate time.Time
	Comments     string
}
