package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

type LeaveRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.LeaveRecord
}

func NewLeaveRepository() *LeaveRepository {
	return &LeaveRepository{records: make(map[string]*domain.LeaveRecord)}
}

func cloneLeave(r *domain.LeaveRecord) *domain.LeaveRecord {
	c := *r
	if r.ApprovalDate != nil {
		t := *r.ApprovalDate
		c.ApprovalDate = &t
	}
	return &c
}

func (r *LeaveRepository) Create(_ context.Context, record *domain.LeaveRecord) (*domain.LeaveRecord, error) {
	stored := cloneLeave(record)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	r.mu.Lock()
	r.records[stored.ID] = stored
	r.mu.Unlock()

	return cloneLeave(stored), nil
}

func (r *LeaveRepository) FindByID(_ context.Context, id string) (*domain.LeaveRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrLeaveNotFound
	}
	return cloneLeave(rec), nil
}

func (r *LeaveRepository) List(_ context.Context, filter ports.LeaveFilter) ([]*domain.LeaveRecord, error) {
	r.mu.RLock()
	out := make([]*domain.LeaveRecord, 0, len(r.records))
	for _, rec := range r.records {
		if filter.UserID != "" && rec.UserID != filter.UserID {
			continue
		}
		out = append(out, cloneLeave(rec))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *LeaveRepository) ApplyDecision(_ context.Context, id string, d domain.Decision, requirePending bool) (*domain.LeaveRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrLeaveNotFound
	}
	if requirePending && rec.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyDecided
	}

	approvedAt := d.ApprovalDate
	rec.Status = d.Status
	rec.ApprovedBy = d.ApprovedBy
	rec.ApprovalDate = &approvedAt
	rec.Comments = d.Comments
	rec.UpdatedAt = d.ApprovalDate
	return cloneLeave(rec), nil
}
