package handler

import (
	"time"

	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,max=256"`
	FirstName  string `json:"firstName"  validate:"required"`
	LastName   string `json:"lastName"   validate:"required"`
	Department string `json:"department" validate:"required"`
	Role       string `json:"role"       validate:"omitempty,oneof=employee manager admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

// --- Leave ---

type submitLeaveRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate"   validate:"required"`
	Type      string `json:"type"      validate:"required,oneof=annual sick unpaid other"`
	Reason    string `json:"reason"    validate:"required"`
}

type decideLeaveRequest struct {
	Status   string `json:"status"   validate:"required,oneof=approved rejected"`
	Comments string `json:"comments"`
}

type personResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

type leaveResponse struct {
	ID           string          `json:"id"`
	User         *personResponse `json:"user"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Reason       string          `json:"reason"`
	ApprovedBy   *personResponse `json:"approvedBy,omitempty"`
	ApprovalDate *time.Time      `json:"approvalDate,omitempty"`
	Comments     string          `json:"comments,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		Department: u.Department,
	}
}

func toPersonResponse(p *ports.PersonRef) *personResponse {
	if p == nil {
		return nil
	}
	return &personResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	}
}

func toLeaveResponse(v *ports.LeaveView) leaveResponse {
	r := v.Record
	resp := leaveResponse{
		ID:         r.ID,
		User:       toPersonResponse(v.Owner),
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Type:       string(r.Type),
		Status:     string(r.Status),
		Reason:     r.Reason,
		ApprovedBy: toPersonResponse(v.Approver),
		Comments:   r.Comments,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.ApprovalDate != nil {
		t := *r.ApprovalDate
		resp.ApprovalDate = &t
	}
	if resp.User == nil {
		resp.User = &personResponse{ID: r.UserID}
	}
	return resp
}

func toLeaveResponses(views []*ports.LeaveView) []leaveResponse {
	out := make([]leaveResponse, len(views))
	for i, v := range views {
		out[i] = toLeaveResponse(v)
	}
	return out
}
