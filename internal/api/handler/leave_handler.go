package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/manaable/leave-api/internal/api/metrics"
	"github.com/manaable/leave-api/internal/core/ports"
)

// LeaveHandler handles HTTP requests for leave records.
type LeaveHandler struct {
	service ports.LeaveService
}

func NewLeaveHandler(service ports.LeaveService) *LeaveHandler {
	return &LeaveHandler{service: service}
}

// Create handles POST /api/leave.
//
// @Summary      Submit a leave request
// @Tags         leave
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitLeaveRequest  true  "Leave details"
// @Success      201   {object}  leaveResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/leave [post]
func (h *LeaveHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req submitLeaveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.service.Submit(c.Request().Context(), user, ports.SubmitLeaveInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Type:      req.Type,
		Reason:    req.Reason,
	})
	if err != nil {
		return err
	}
	metrics.LeaveRequestsSubmittedTotal.WithLabelValues(string(view.Record.Type)).Inc()

	return c.JSON(http.StatusCreated, toLeaveResponse(view))
}

// Update handles PATCH /api/leave/:id.
//
// @Summary      Approve or reject a leave request
// @Tags         leave
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Leave record id"
// @Param        body  body      decideLeaveRequest  true  "Decision"
// @Success      200   {object}  leaveResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/leave/{id} [patch]
func (h *LeaveHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req decideLeaveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.service.Decide(c.Request().Context(), user, c.Param("id"), ports.DecideLeaveInput{
		Status:   req.Status,
		Comments: req.Comments,
	})
	if err != nil {
		return err
	}
	metrics.LeaveDecisionsTotal.WithLabelValues(string(view.Record.Status)).Inc()

	return c.JSON(http.StatusOK, toLeaveResponse(view))
}

// List handles GET /api/leave. Employees see their own records; managers
// and admins see all of them.
//
// @Summary      List leave requests
// @Tags         leave
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   leaveResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/leave [get]
func (h *LeaveHandler) List(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	views, err := h.service.List(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLeaveResponses(views))
}
