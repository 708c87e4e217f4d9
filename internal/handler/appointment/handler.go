package appointment

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meddesk/clinic-api/internal/handler"
	"github.com/meddesk/clinic-api/internal/middleware"
	"github.com/meddesk/clinic-api/internal/model"
)

// Service is the slice of the appointment service the handler needs.
type Service interface {
	Book(ctx context.Context, scheduledBy uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error)
	Complete(ctx context.Context, id uuid.UUID, staffNotes string) (*model.Appointment, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appts := r.Group("/appointments")
	{
		appts.POST("", h.Create)
		appts.GET("", h.List)
		appts.GET("/:id", h.Get)
		appts.POST("/:id/confirm", h.Confirm)
		appts.POST("/:id/cancel", h.Cancel)
		appts.POST("/:id/complete", h.Complete)
		appts.POST("/:id/no-show", h.MarkNoShow)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	appt, err := h.service.Book(c.Request.Context(), middleware.StaffID(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, appt)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}

	appt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, appt)
}

func (h *Handler) List(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		handler.BindError(c, err)
		return
	}

	appts, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, appts)
}

func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, func(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
		return h.service.Confirm(ctx, id)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	var req model.CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	appt, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, appt)
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	var req struct {
		StaffNotes string `json:"staff_notes" binding:"max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	appt, err := h.service.Complete(c.Request.Context(), id, req.StaffNotes)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, appt)
}

func (h *Handler) MarkNoShow(c *gin.Context) {
	h.transition(c, func(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
		return h.service.MarkNoShow(ctx, id)
	})
}

func (h *Handler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*model.Appointment, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}

	appt, err := fn(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, appt)
}

func parseFilters(c *gin.Context) (*model.AppointmentFilters, error) {
	filters := &model.AppointmentFilters{}

	for query, target := range map[string]*uuid.UUID{
		"clinic_id":  &filters.ClinicID,
		"staff_id":   &filters.StaffID,
		"patient_id": &filters.PatientID,
	} {
		if raw := c.Query(query); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, err
			}
			*target = id
		}
	}

	filters.Status = model.AppointmentStatus(c.Query("status"))

	if err := c.ShouldBindQuery(&filters.Page); err != nil {
		return nil, err
	}

	for query, target := range map[string]*time.Time{
		"start_date": &filters.StartDate,
		"end_date":   &filters.EndDate,
	} {
		if raw := c.Query(query); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, err
			}
			*target = t
		}
	}
	return filters, nil
}
