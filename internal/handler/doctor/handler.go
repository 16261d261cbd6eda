package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/telemeet/telemed-api/internal/middleware"
	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/service/doctor"
	"github.com/telemeet/telemed-api/internal/service/schedule"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/httputil"
)

type Handler struct {
	svc         *doctor.Service
	scheduleSvc *schedule.Service
	authMw      *middleware.AuthMiddleware
}

func NewHandler(svc *doctor.Service, scheduleSvc *schedule.Service, authMw *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, scheduleSvc: scheduleSvc, authMw: authMw}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.List)
		doctors.GET("/:id", h.Get)
		doctors.GET("/:id/slots", h.ListSlots)
		doctors.POST("/:id/slots", h.authMw.RequireRole(model.RoleDoctor), h.AddSlot)
	}
}

func (h *Handler) List(c *gin.Context) {
	doctors, err := h.svc.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) ListSlots(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "id")
	if !ok {
		return
	}

	slots, err := h.scheduleSvc.ListAvailable(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slots)
}

// AddSlot lets a doctor publish availability on their own schedule only.
func (h *Handler) AddSlot(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "id")
	if !ok {
		return
	}
	if callerID, exists := c.Get(middleware.ContextUserID); !exists || callerID != id {
		httputil.RespondWithError(c, apperrors.NotFound("doctor"))
		return
	}

	var req model.AddSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	slot, err := h.scheduleSvc.AddSlot(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, slot)
}
