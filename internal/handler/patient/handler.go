package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/service/patient"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/httputil"
)

type Handler struct {
	svc *patient.Service
}

func NewHandler(svc *patient.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.List)
		patients.GET("/:id", h.Get)
		patients.PUT("/:id", h.Update)
		patients.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	patients, err := h.svc.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patients)
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

func (h *Handler) Update(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	profile, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}
