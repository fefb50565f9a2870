package ports

import (
	"context"

	"github.com/manaable/leave-api/internal/core/domain"
)

// LeaveFilter narrows List. An empty UserID means no owner filter.
type LeaveFilter struct {
	UserID string
}

// LeaveRepository defines persistence operations for leave records.
type LeaveRepository interface {
	Create(ctx context.Context, record *domain.LeaveRecord) (*domain.LeaveRecord, error)
	FindByID(ctx context.Context, id string) (*domain.LeaveRecord, error)
	// List returns matching records, newest first.
	List(ctx context.Context, filter LeaveFilter) ([]*domain.LeaveRecord, error)
	// ApplyDecision writes d to the record and returns the updated record.
	// When requirePending is set the write only happens if the stored status
	// is still pending; otherwise domain.ErrAlreadyDecided is returned.
	ApplyDecision(ctx context.Context, id string, d domain.Decision, requirePending bool) (*domain.LeaveRecord, error)
}
