package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

func newPending(userID string, created time.Time) *domain.LeaveRecord {
	return &domain.LeaveRecord{
		UserID:    userID,
		StartDate: created,
		EndDate:   created.Add(24 * time.Hour),
		Type:      domain.LeaveAnnual,
		Status:    domain.StatusPending,
		Reason:    "trip",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestLeaveRepository_ListFilterAndOrder(t *testing.T) {
	repo := NewLeaveRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	old, _ := repo.Create(context.Background(), newPending("u1", base))
	_, _ = repo.Create(context.Background(), newPending("u2", base.Add(time.Hour)))
	recent, _ := repo.Create(context.Background(), newPending("u1", base.Add(2*time.Hour)))

	own, err := repo.List(context.Background(), ports.LeaveFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(own) != 2 || own[0].ID != recent.ID || own[1].ID != old.ID {
		t.Errorf("expected u1 records newest first, got %+v", own)
	}

	all, _ := repo.List(context.Background(), ports.LeaveFilter{})
	if len(all) != 3 {
		t.Errorf("expected 3 records, got %d", len(all))
	}
}

func TestLeaveRepository_ApplyDecision(t *testing.T) {
	repo := NewLeaveRepository()
	rec, _ := repo.Create(context.Background(), newPending("u1", time.Now()))
	at := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	updated, err := repo.ApplyDecision(context.Background(), rec.ID, domain.Decision{
		Status:       domain.StatusApproved,
		ApprovedBy:   "m1",
		ApprovalDate: at,
		Comments:     "fine",
	}, true)
	if err != nil {
		t.Fatalf("ApplyDecision: %v", err)
	}
	if updated.Status != domain.StatusApproved || updated.ApprovedBy != "m1" || !updated.ApprovalDate.Equal(at) || updated.Comments != "fine" {
		t.Errorf("unexpected update: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(at) {
		t.Errorf("UpdatedAt not bumped: %v", updated.UpdatedAt)
	}

	_, err = repo.ApplyDecision(context.Background(), rec.ID, domain.Decision{Status: domain.StatusRejected, ApprovalDate: at}, true)
	if !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}

	again, err := repo.ApplyDecision(context.Background(), rec.ID, domain.Decision{Status: domain.StatusRejected, ApprovedBy: "m2", ApprovalDate: at}, false)
	if err != nil || again.Status != domain.StatusRejected || again.Comments != "" {
		t.Fatalf("unconditional update should overwrite: %+v %v", again, err)
	}

	if _, err := repo.ApplyDecision(context.Background(), "missing", domain.Decision{}, true); !errors.Is(err, domain.ErrLeaveNotFound) {
		t.Errorf("expected ErrLeaveNotFound, got %v", err)
	}
}

func TestLeaveRepository_ApprovalDateIsCopied(t *testing.T) {
	repo := NewLeaveRepository()
	rec, _ := repo.Create(context.Background(), newPending("u1", time.Now()))
	at := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	updated, _ := repo.ApplyDecision(context.Background(), rec.ID, domain.Decision{Status: domain.StatusApproved, ApprovalDate: at}, true)
	*updated.ApprovalDate = time.Time{}

	stored, _ := repo.FindByID(context.Background(), rec.ID)
	if !stored.ApprovalDate.Equal(at) {
		t.Errorf("stored approval date changed through returned pointer: %v", stored.ApprovalDate)
	}
}
