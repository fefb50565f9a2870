package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/manaable/leave-api/internal/api/middleware"
	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

type stubLeaveService struct {
	submitFn func(ctx context.Context, actor *domain.User, in ports.SubmitLeaveInput) (*ports.LeaveView, error)
	decideFn func(ctx context.Context, actor *domain.User, id string, in ports.DecideLeaveInput) (*ports.LeaveView, error)
	listFn   func(ctx context.Context, actor *domain.User) ([]*ports.LeaveView, error)
}

func (s *stubLeaveService) Submit(ctx context.Context, actor *domain.User, in ports.SubmitLeaveInput) (*ports.LeaveView, error) {
	return s.submitFn(ctx, actor, in)
}

func (s *stubLeaveService) Decide(ctx context.Context, actor *domain.User, id string, in ports.DecideLeaveInput) (*ports.LeaveView, error) {
	return s.decideFn(ctx, actor, id, in)
}

func (s *stubLeaveService) List(ctx context.Context, actor *domain.User) ([]*ports.LeaveView, error) {
	return s.listFn(ctx, actor)
}

var (
	employee = &domain.User{ID: "e1", Email: "jane@manaable.com", FirstName: "Jane", LastName: "Doe", Role: domain.RoleEmployee}
	manager  = &domain.User{ID: "m1", Email: "boss@manaable.com", FirstName: "Test", LastName: "Manager", Role: domain.RoleManager}
)

func pendingView() *ports.LeaveView {
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &ports.LeaveView{
		Record: &domain.LeaveRecord{
			ID:        "l1",
			UserID:    employee.ID,
			StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
			Type:      domain.LeaveAnnual,
			Status:    domain.StatusPending,
			Reason:    "Vacation",
			CreatedAt: created,
			UpdatedAt: created,
		},
		Owner: &ports.PersonRef{ID: employee.ID, FirstName: "Jane", LastName: "Doe", Email: employee.Email},
	}
}

func TestLeaveHandler_Create_Success(t *testing.T) {
	e := newEcho()
	stub := &stubLeaveService{
		submitFn: func(_ context.Context, actor *domain.User, in ports.SubmitLeaveInput) (*ports.LeaveView, error) {
			if actor.ID != employee.ID {
				t.Fatalf("expected actor %s, got %s", employee.ID, actor.ID)
			}
			if in.StartDate != "2025-07-01" || in.EndDate != "2025-07-05" || in.Type != "annual" || in.Reason != "Vacation" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return pendingView(), nil
		},
	}
	c, rec := jsonContext(e, http.MethodPost, "/api/leave",
		`{"startDate":"2025-07-01","endDate":"2025-07-05","type":"annual","reason":"Vacation"}`)
	middleware.SetUser(c, employee)

	if err := NewLeaveHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "l1" || resp["status"] != "pending" || resp["type"] != "annual" {
		t.Errorf("unexpected record fields: %v", resp)
	}
	if _, ok := resp["approvedBy"]; ok {
		t.Errorf("approvedBy should be omitted on a pending record")
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "e1" || user["firstName"] != "Jane" || user["email"] != employee.Email {
		t.Errorf("unexpected user: %v", resp["user"])
	}
}

func TestLeaveHandler_Create_Validation(t *testing.T) {
	e := newEcho()
	stub := &stubLeaveService{
		submitFn: func(context.Context, *domain.User, ports.SubmitLeaveInput) (*ports.LeaveView, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := jsonContext(e, http.MethodPost, "/api/leave", `{"startDate":"2025-07-01","type":"holiday"}`)
	middleware.SetUser(c, employee)

	err := NewLeaveHandler(stub).Create(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLeaveHandler_Create_NoUser(t *testing.T) {
	e := newEcho()
	c, _ := jsonContext(e, http.MethodPost, "/api/leave", `{}`)

	err := NewLeaveHandler(&stubLeaveService{}).Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestLeaveHandler_Update_Success(t *testing.T) {
	e := newEcho()
	stub := &stubLeaveService{
		decideFn: func(_ context.Context, actor *domain.User, id string, in ports.DecideLeaveInput) (*ports.LeaveView, error) {
			if actor.ID != manager.ID || id != "l1" {
				t.Fatalf("unexpected actor/id: %s %s", actor.ID, id)
			}
			if in.Status != "approved" || in.Comments != "Enjoy" {
				t.Fatalf("unexpected input: %+v", in)
			}
			v := pendingView()
			decided := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
			v.Record.Status = domain.StatusApproved
			v.Record.ApprovedBy = manager.ID
			v.Record.ApprovalDate = &decided
			v.Record.Comments = in.Comments
			v.Approver = &ports.PersonRef{ID: manager.ID, FirstName: "Test", LastName: "Manager"}
			return v, nil
		},
	}
	c, rec := jsonContext(e, http.MethodPatch, "/api/leave/l1", `{"status":"approved","comments":"Enjoy"}`)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	middleware.SetUser(c, manager)

	if err := NewLeaveHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp leaveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "approved" || resp.Comments != "Enjoy" {
		t.Errorf("unexpected decision: %+v", resp)
	}
	if resp.ApprovedBy == nil || resp.ApprovedBy.ID != manager.ID || resp.ApprovedBy.LastName != "Manager" || resp.ApprovedBy.Email != "" {
		t.Errorf("unexpected approver: %+v", resp.ApprovedBy)
	}
	if resp.ApprovalDate == nil {
		t.Errorf("expected approvalDate")
	}
}

func TestLeaveHandler_Update_InvalidStatus(t *testing.T) {
	e := newEcho()
	c, _ := jsonContext(e, http.MethodPatch, "/api/leave/l1", `{"status":"pending"}`)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	middleware.SetUser(c, manager)

	err := NewLeaveHandler(&stubLeaveService{}).Update(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Details() != "status must be one of: approved rejected" {
		t.Fatalf("expected status validation error, got %v", err)
	}
}

func TestLeaveHandler_Update_PropagatesServiceError(t *testing.T) {
	e := newEcho()
	stub := &stubLeaveService{
		decideFn: func(context.Context, *domain.User, string, ports.DecideLeaveInput) (*ports.LeaveView, error) {
			return nil, domain.ErrAlreadyDecided
		},
	}
	c, _ := jsonContext(e, http.MethodPatch, "/api/leave/l1", `{"status":"rejected"}`)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	middleware.SetUser(c, manager)

	if err := NewLeaveHandler(stub).Update(c); !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
}

func TestLeaveHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubLeaveService{
		listFn: func(_ context.Context, actor *domain.User) ([]*ports.LeaveView, error) {
			if actor.ID != employee.ID {
				t.Fatalf("unexpected actor %s", actor.ID)
			}
			orphan := pendingView()
			orphan.Record.ID = "l2"
			orphan.Owner = nil
			return []*ports.LeaveView{pendingView(), orphan}, nil
		},
	}
	c, rec := jsonContext(e, http.MethodGet, "/api/leave", "")
	middleware.SetUser(c, employee)

	if err := NewLeaveHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []leaveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp))
	}
	if resp[1].User == nil || resp[1].User.ID != employee.ID || resp[1].User.FirstName != "" {
		t.Errorf("unresolved owner should fall back to a bare id, got %+v", resp[1].User)
	}
}

func TestLeaveHandler_List_EmptyIsArray(t *testing.T) {
	e := newEcho()
	stub := &stubLeaveService{
		listFn: func(context.Context, *domain.User) ([]*ports.LeaveView, error) {
			return nil, nil
		},
	}
	c, rec := jsonContext(e, http.MethodGet, "/api/leave", "")
	middleware.SetUser(c, employee)

	if err := NewLeaveHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}
