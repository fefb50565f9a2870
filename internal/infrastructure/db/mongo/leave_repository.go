package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

const collectionLeaveRecords = "leave_records"

type LeaveRepository struct {
	col *mongo.Collection
}

func NewLeaveRepository(db *mongo.Database) *LeaveRepository {
	return &LeaveRepository{col: db.Collection(collectionLeaveRecords)}
}

type mongoLeave struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id"`
	StartDate    time.Time          `bson:"start_date"`
	EndDate      time.Time          `bson:"end_date"`
	Type         string             `bson:"type"`
	Status       string             `bson:"status"`
	Reason       string             `bson:"reason"`
	ApprovedBy   string             `bson:"approved_by,omitempty"`
	ApprovalDate *time.Time         `bson:"approval_date,omitempty"`
	Comments     string             `bson:"comments,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (ml *mongoLeave) toDomain() *domain.LeaveRecord {
	rec := &domain.LeaveRecord{
		ID:         ml.ID.Hex(),
		UserID:     ml.UserID,
		StartDate:  ml.StartDate.UTC(),
		EndDate:    ml.EndDate.UTC(),
		Type:       domain.LeaveType(ml.Type),
		Status:     domain.LeaveStatus(ml.Status),
		Reason:     ml.Reason,
		ApprovedBy: ml.ApprovedBy,
		Comments:   ml.Comments,
		CreatedAt:  ml.CreatedAt.UTC(),
		UpdatedAt:  ml.UpdatedAt.UTC(),
	}
	if ml.ApprovalDate != nil {
		t := ml.ApprovalDate.UTC()
		rec.ApprovalDate = &t
	}
	return rec
}

// Create inserts a new leave record document.
func (r *LeaveRepository) Create(ctx context.Context, rec *domain.LeaveRecord) (*domain.LeaveRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoLeave{
		UserID:    rec.UserID,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
		Type:      string(rec.Type),
		Status:    string(rec.Status),
		Reason:    rec.Reason,
		Comments:  rec.Comments,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert leave record: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert leave record: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*domain.LeaveRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLeaveNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoLeave
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLeaveNotFound
		}
		return nil, fmt.Errorf("find leave record: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns records matching filter, newest first.
func (r *LeaveRepository) List(ctx context.Context, filter ports.LeaveFilter) ([]*domain.LeaveRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list leave records: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoLeave
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leave records: %w", err)
	}

	out := make([]*domain.LeaveRecord, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// ApplyDecision atomically sets the decision fields. With requirePending the
// filter also matches status=pending, so of two concurrent decisions only
// one succeeds.
func (r *LeaveRepository) ApplyDecision(ctx context.Context, id string, d domain.Decision, requirePending bool) (*domain.LeaveRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLeaveNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if requirePending {
		filter["status"] = string(domain.StatusPending)
	}
	update := bson.M{"$set": bson.M{
		"status":        string(d.Status),
		"approved_by":   d.ApprovedBy,
		"approval_date": d.ApprovalDate,
		"comments":      d.Comments,
		"updated_at":    d.ApprovalDate,
	}}

	var doc mongoLeave
	err = r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update leave record: %w", err)
	}

	if requirePending {
		n, countErr := r.col.CountDocuments(ctx, bson.M{"_id": oid})
		if countErr != nil {
			return nil, fmt.Errorf("update leave record: %w", countErr)
		}
		if n > 0 {
			return nil, domain.ErrAlreadyDecided
		}
	}
	return nil, domain.ErrLeaveNotFound
}

// EnsureIndexes creates necessary indexes on the leave_records collection.
func (r *LeaveRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
