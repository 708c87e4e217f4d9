package clinic

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meddesk/clinic-api/internal/handler"
	"github.com/meddesk/clinic-api/internal/model"
)

type Service interface {
	Create(ctx context.Context, req *model.CreateClinicRequest) (*model.Clinic, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	List(ctx context.Context) ([]*model.Clinic, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateClinicRequest) (*model.Clinic, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateStaff(ctx context.Context, clinicID uuid.UUID, req *model.CreateStaffRequest) (*model.ClinicStaff, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*model.ClinicStaff, error)
	ListStaff(ctx context.Context, clinicID uuid.UUID) ([]*model.ClinicStaff, error)
	RemoveStaff(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinics")
	{
		clinics.POST("", h.Create)
		clinics.GET("", h.List)
		clinics.GET("/:id", h.Get)
		clinics.PATCH("/:id", h.Update)
		clinics.DELETE("/:id", h.Delete)
		clinics.POST("/:id/staff", h.CreateStaff)
		clinics.GET("/:id/staff", h.ListStaff)
	}
	staff := r.Group("/staff")
	{
		staff.GET("/:id", h.GetStaff)
		staff.DELETE("/:id", h.RemoveStaff)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	clinic, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, clinic)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}

	clinic, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, clinic)
}

func (h *Handler) List(c *gin.Context) {
	clinics, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, clinics)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	var req model.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	clinic, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, clinic)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, nil)
}

func (h *Handler) CreateStaff(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	staff, err := h.service.CreateStaff(c.Request.Context(), clinicID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, staff)
}

func (h *Handler) GetStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}

	staff, err := h.service.GetStaff(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, staff)
}

func (h *Handler) ListStaff(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}

	staff, err := h.service.ListStaff(c.Request.Context(), clinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, staff)
}

func (h *Handler) RemoveStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BindError(c, err)
		return
	}
	if err := h.service.RemoveStaff(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, nil)
}
