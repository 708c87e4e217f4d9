package workinghours

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meddesk/clinic-api/internal/handler"
	"github.com/meddesk/clinic-api/internal/model"
)

// Service is the slice of the working-hours service the handler needs.
type Service interface {
	ListClinicHours(ctx context.Context, clinicID uuid.UUID, dayOfWeek *int) ([]*model.ClinicWorkingHours, error)
	ListStaffHours(ctx context.Context, staffID uuid.UUID, dayOfWeek *int) ([]*model.StaffWorkingHoursView, error)
	CreateClinicHours(ctx context.Context, req *model.CreateWorkingHoursRequest) (*model.ClinicWorkingHours, error)
	CreateStaffHours(ctx context.Context, req *model.CreateWorkingHoursRequest) (*model.StaffWorkingHours, error)
	UpdateClinicHours(ctx context.Context, id uuid.UUID, req *model.UpdateWorkingHoursRequest) (*model.ClinicWorkingHours, error)
	UpdateStaffHours(ctx context.Context, id uuid.UUID, req *model.UpdateWorkingHoursRequest) (*model.StaffWorkingHours, error)
	DeleteClinicHours(ctx context.Context, id uuid.UUID) error
	DeleteStaffHours(ctx context.Context, id uuid.UUID) error
	BulkReplaceForStaff(ctx context.Context, staffID uuid.UUID, req *model.BulkReplaceRequest) ([]*model.StaffWorkingHours, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// GET :id is the clinic/staff id; PATCH and DELETE :id is the entry id.
	hours := r.Group("/working-hours")
	{
		hours.GET("/clinics/:id", h.ListClinicHours)
		hours.GET("/staff/:id", h.ListStaffHours)
		hours.POST("", h.Create)
		hours.PATCH("/clinics/:id", h.UpdateClinicHours)
		hours.PATCH("/staff/:id", h.UpdateStaffHours)
		hours.DELETE("/clinics/:id", h.DeleteClinicHours)
		hours.DELETE("/staff/:id", h.DeleteStaffHours)
		hours.PUT("/staff/:id/schedule", h.BulkReplace)
	}
}

func (h *Handler) ListClinicHours(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	day, err := dayFilter(c)
	if err != nil {
		handler.BindError(c, err)
		return
	}

	hours, err := h.service.ListClinicHours(c.Request.Context(), clinicID, day)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, hours)
}

func (h *Handler) ListStaffHours(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	day, err := dayFilter(c)
	if err != nil {
		handler.BindError(c, err)
		return
	}

	hours, err := h.service.ListStaffHours(c.Request.Context(), staffID, day)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, hours)
}

// Create adds a single interval. A staff_id in the payload makes it
// staff-scope, otherwise it is clinic-scope.
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	if req.StaffID != nil {
		wh, err := h.service.CreateStaffHours(c.Request.Context(), &req)
		if err != nil {
			handler.Error(c, err)
			return
		}
		handler.Success(c, http.StatusCreated, wh)
		return
	}

	wh, err := h.service.CreateClinicHours(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, wh)
}

func (h *Handler) UpdateClinicHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	var req model.UpdateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	wh, err := h.service.UpdateClinicHours(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, wh)
}

func (h *Handler) UpdateStaffHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	var req model.UpdateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	wh, err := h.service.UpdateStaffHours(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, wh)
}

func (h *Handler) DeleteClinicHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	if err := h.service.DeleteClinicHours(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, nil)
}

func (h *Handler) DeleteStaffHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	if err := h.service.DeleteStaffHours(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, nil)
}

func (h *Handler) BulkReplace(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	var req model.BulkReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	created, err := h.service.BulkReplaceForStaff(c.Request.Context(), staffID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, created)
}

func dayFilter(c *gin.Context) (*int, error) {
	raw := c.Query("day_of_week")
	if raw == "" {
		return nil, nil
	}
	day, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
