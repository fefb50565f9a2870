package ports

import (
	"context"

	"github.com/manaable/leave-api/internal/core/domain"
)

// SubmitLeaveInput is the DTO passed from the transport layer to LeaveService.
// Dates are raw strings; the service owns parsing.
type SubmitLeaveInput struct {
	StartDate string
	EndDate   string
	Type      string
	Reason    string
}

// DecideLeaveInput carries a manager's decision.
type DecideLeaveInput struct {
	Status   string
	Comments string
}

// PersonRef is a resolved user reference for display.
type PersonRef struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

// LeaveView is a leave record with its owner and approver resolved.
type LeaveView struct {
	Record   *domain.LeaveRecord
	Owner    *PersonRef
	Approver *PersonRef
}

// LeaveService defines the leave workflow use cases.
type LeaveService interface {
	Submit(ctx context.Context, actor *domain.User, in SubmitLeaveInput) (*LeaveView, error)
	Decide(ctx context.Context, actor *domain.User, id string, in DecideLeaveInput) (*LeaveView, error)
	List(ctx context.Context, actor *domain.User) ([]*LeaveView, error)
}
