package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

// DedupClaimer abstracts the notification idempotency store (Redis).
// Claim returns true the first time a decision, identified by record,
// status and decision time, is seen. A later decision on the same record
// is a new claim even when it repeats an earlier status.
type DedupClaimer interface {
	Claim(ctx context.Context, recordID, status string, decidedAt time.Time) (bool, error)
}

// LeaveOptions tunes workflow policy. The zero value blocks re-decisions,
// notifies the first manager and skips deduplication.
type LeaveOptions struct {
	// AllowRedecision lets a decided record be decided again (last write wins).
	AllowRedecision bool
	Recipients      RecipientPolicy
	Dedup           DedupClaimer
}

// LeaveService implements the leave request state machine and visibility rules.
type LeaveService struct {
	leaves   ports.LeaveRepository
	users    ports.UserRepository
	notifier ports.Notifier
	log      zerolog.Logger
	opts     LeaveOptions
	now      func() time.Time
}

func NewLeaveService(
	leaves ports.LeaveRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	log zerolog.Logger,
	opts LeaveOptions,
) *LeaveService {
	if opts.Recipients == nil {
		opts.Recipients = FirstManager
	}
	return &LeaveService{
		leaves:   leaves,
		users:    users,
		notifier: notifier,
		log:      log,
		opts:     opts,
		now:      time.Now,
	}
}

// Submit creates a pending leave record owned by actor and tells the
// managers selected by the recipient policy.
func (s *LeaveService) Submit(ctx context.Context, actor *domain.User, in ports.SubmitLeaveInput) (*ports.LeaveView, error) {
	var problems []string

	start, startErr := parseLeaveDate(in.StartDate)
	if startErr != nil {
		problems = append(problems, "startDate must be a valid date")
	}
	end, endErr := parseLeaveDate(in.EndDate)
	if endErr != nil {
		problems = append(problems, "endDate must be a valid date")
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		problems = append(problems, "endDate must be on or after startDate")
	}
	leaveType := domain.LeaveType(strings.ToLower(strings.TrimSpace(in.Type)))
	if !leaveType.Valid() {
		problems = append(problems, "type must be one of: annual sick unpaid other")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		problems = append(problems, "reason is required")
	}
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	now := s.now().UTC()
	created, err := s.leaves.Create(ctx, &domain.LeaveRecord{
		UserID:    actor.ID,
		StartDate: start,
		EndDate:   end,
		Type:      leaveType,
		Status:    domain.StatusPending,
		Reason:    reason,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", actor.ID).Msg("failed to create leave request")
		return nil, fmt.Errorf("submit leave: %w", err)
	}

	s.log.Info().
		Str("leave_id", created.ID).
		Str("user_id", actor.ID).
		Str("type", string(created.Type)).
		Msg("leave request submitted")

	s.notifyManagers(ctx, actor, created)

	return &ports.LeaveView{Record: created, Owner: personRef(actor)}, nil
}

// Decide moves a record to approved or rejected on behalf of a manager or admin.
func (s *LeaveService) Decide(ctx context.Context, actor *domain.User, id string, in ports.DecideLeaveInput) (*ports.LeaveView, error) {
	if !actor.Role.CanDecide() {
		return nil, domain.ErrForbidden
	}

	status := domain.LeaveStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !status.IsDecision() {
		return nil, domain.NewValidationError("status must be one of: approved rejected")
	}

	current, err := s.leaves.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.opts.AllowRedecision && !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (current status %s)", domain.ErrAlreadyDecided, current.Status)
	}

	updated, err := s.leaves.ApplyDecision(ctx, id, domain.Decision{
		Status:       status,
		ApprovedBy:   actor.ID,
		ApprovalDate: s.now().UTC(),
		Comments:     in.Comments,
	}, !s.opts.AllowRedecision)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("leave_id", updated.ID).
		Str("status", string(updated.Status)).
		Str("approver_id", actor.ID).
		Msg("leave request decided")

	view := &ports.LeaveView{Record: updated, Approver: approverRef(personRef(actor))}

	owner, err := s.users.FindByID(ctx, updated.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("leave_id", updated.ID).Msg("owner lookup failed, status notification skipped")
		view.Owner = &ports.PersonRef{ID: updated.UserID}
		return view, nil
	}
	view.Owner = personRef(owner)

	s.notifyOwner(ctx, owner, updated)
	return view, nil
}

// List returns the records visible to actor: employees see their own,
// managers and admins see everything.
func (s *LeaveService) List(ctx context.Context, actor *domain.User) ([]*ports.LeaveView, error) {
	var filter ports.LeaveFilter
	if actor.Role == domain.RoleEmployee {
		filter.UserID = actor.ID
	}

	records, err := s.leaves.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list leave: %w", err)
	}

	ids := make([]string, 0, len(records))
	seen := make(map[string]struct{})
	for _, r := range records {
		for _, id := range []string{r.UserID, r.ApprovedBy} {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	people, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		// Records are still useful with bare ids.
		s.log.Warn().Err(err).Msg("failed to resolve leave record users")
		people = nil
	}

	views := make([]*ports.LeaveView, len(records))
	for i, r := range records {
		views[i] = &ports.LeaveView{
			Record:   r,
			Owner:    resolveRef(people, r.UserID),
			Approver: approverRef(resolveRef(people, r.ApprovedBy)),
		}
	}
	return views, nil
}

func (s *LeaveService) notifyManagers(ctx context.Context, actor *domain.User, r *domain.LeaveRecord) {
	recipients, err := s.opts.Recipients(ctx, s.users)
	if err != nil {
		s.log.Warn().Err(err).Str("leave_id", r.ID).Msg("failed to select notification recipients")
		return
	}
	if len(recipients) == 0 {
		s.log.Debug().Str("leave_id", r.ID).Msg("no manager to notify")
		return
	}

	subject, body := leaveRequestMessage(actor.FullName(), r)
	for _, m := range recipients {
		s.deliver(ctx, m.Email, subject, body, r.ID)
	}
}

func (s *LeaveService) notifyOwner(ctx context.Context, owner *domain.User, r *domain.LeaveRecord) {
	if s.opts.Dedup != nil {
		var decidedAt time.Time
		if r.ApprovalDate != nil {
			decidedAt = *r.ApprovalDate
		}
		first, err := s.opts.Dedup.Claim(ctx, r.ID, string(r.Status), decidedAt)
		if err != nil {
			s.log.Warn().Err(err).Str("leave_id", r.ID).Msg("dedup check failed, notifying anyway")
		} else if !first {
			s.log.Debug().Str("leave_id", r.ID).Str("status", string(r.Status)).Msg("duplicate status notification skipped")
			return
		}
	}

	subject, body := statusUpdateMessage(r)
	s.deliver(ctx, owner.Email, subject, body, r.ID)
}

// deliver never fails the caller: notification errors are logged only.
func (s *LeaveService) deliver(ctx context.Context, to, subject, body, leaveID string) {
	if err := s.notifier.Notify(ctx, to, subject, body); err != nil {
		s.log.Error().Err(err).
			Str("leave_id", leaveID).
			Str("to", to).
			Msg("failed to send notification")
		return
	}
	s.log.Debug().Str("leave_id", leaveID).Str("to", to).Msg("notification handed off")
}

// parseLeaveDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func parseLeaveDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func personRef(u *domain.User) *ports.PersonRef {
	return &ports.PersonRef{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// approverRef strips the approver down to id and names; the approver's
// email is not shown to the record owner.
func approverRef(p *ports.PersonRef) *ports.PersonRef {
	if p == nil {
		return nil
	}
	return &ports.PersonRef{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName}
}

func resolveRef(people map[string]*domain.User, id string) *ports.PersonRef {
	if id == "" {
		return nil
	}
	if u, ok := people[id]; ok {
		return personRef(u)
	}
	return &ports.PersonRef{ID: id}
}
