package prescription

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/middleware"
	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/service/prescription"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/httputil"
)

type Handler struct {
	svc    *prescription.Service
	authMw *middleware.AuthMiddleware
}

func NewHandler(svc *prescription.Service, authMw *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, authMw: authMw}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", h.authMw.RequireRole(model.RoleDoctor), h.Issue)
		prescriptions.GET("", h.authMw.RequireRole(model.RolePatient), h.ListForPatient)
		prescriptions.GET("/:id", h.Get)
	}
}

// Issue writes a prescription for one of the caller's consultations and
// completes it.
func (h *Handler) Issue(c *gin.Context) {
	var req model.IssuePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	doctorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	rx, err := h.svc.Issue(c.Request.Context(), doctorID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, rx)
}

func (h *Handler) ListForPatient(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	prescriptions, err := h.svc.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, prescriptions)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "id")
	if !ok {
		return
	}

	rx, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if rx.PatientID != userID && rx.DoctorID != userID {
		httputil.RespondWithError(c, apperrors.NotFound("prescription"))
		return
	}
	httputil.RespondWithSuccess(c, rx)
}
