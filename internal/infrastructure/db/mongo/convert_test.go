package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/manaable/leave-api/internal/core/domain"
)

func TestMongoLeave_RoundTripThroughBSON(t *testing.T) {
	approved := time.Date(2024, 4, 2, 8, 30, 0, 0, time.UTC)
	doc := mongoLeave{
		ID:           primitive.NewObjectID(),
		UserID:       "65f0c0ffee0000000000beef",
		StartDate:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		Type:         "annual",
		Status:       "approved",
		Reason:       "trip",
		ApprovedBy:   "65f0c0ffee0000000000cafe",
		ApprovalDate: &approved,
		Comments:     "ok",
		CreatedAt:    approved.Add(-time.Hour),
		UpdatedAt:    approved,
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded mongoLeave
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rec := decoded.toDomain()
	if rec.ID != doc.ID.Hex() || rec.Status != domain.StatusApproved || rec.Type != domain.LeaveAnnual {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.ApprovalDate == nil || !rec.ApprovalDate.Equal(approved) {
		t.Errorf("approval date lost: %v", rec.ApprovalDate)
	}
	if !rec.StartDate.Equal(doc.StartDate) || rec.StartDate.Location() != time.UTC {
		t.Errorf("start date not UTC: %v", rec.StartDate)
	}
}

func TestMongoLeave_PendingOmitsDecisionFields(t *testing.T) {
	raw, err := bson.Marshal(mongoLeave{UserID: "u", Status: "pending"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m bson.M
	_ = bson.Unmarshal(raw, &m)

	for _, key := range []string{"_id", "approved_by", "approval_date", "comments"} {
		if _, ok := m[key]; ok {
			t.Errorf("pending document should not carry %q", key)
		}
	}
}

func TestMongoUser_ToDomain(t *testing.T) {
	mu := mongoUser{
		ID:           primitive.NewObjectID(),
		Email:        "jane@manaable.com",
		PasswordHash: "$argon2id$...",
		FirstName:    "Jane",
		LastName:     "Doe",
		Department:   "Engineering",
		Role:         "manager",
	}
	u := mu.toDomain()
	if u.ID != mu.ID.Hex() || u.Role != domain.RoleManager || u.PasswordHash != mu.PasswordHash {
		t.Errorf("unexpected user: %+v", u)
	}
}
