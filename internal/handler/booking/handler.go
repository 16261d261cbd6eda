package booking

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/middleware"
	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/service/booking"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/httputil"
)

type Handler struct {
	svc    *booking.Service
	authMw *middleware.AuthMiddleware
}

func NewHandler(svc *booking.Service, authMw *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, authMw: authMw}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	consultations := r.Group("/consultations")
	{
		consultations.POST("", h.authMw.RequireRole(model.RolePatient), h.Book)
		consultations.GET("", h.ListForUser)
		consultations.GET("/:id", h.Get)
		consultations.POST("/:id/cancel", h.Cancel)
	}
}

func (h *Handler) Book(c *gin.Context) {
	var req model.BookConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}
	req.PatientID = c.MustGet(middleware.ContextUserID).(uuid.UUID)

	consultation, err := h.svc.Book(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, consultation)
}

// ListForUser returns the caller's own consultations, keyed by role.
func (h *Handler) ListForUser(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var (
		consultations []*model.Consultation
		err           error
	)
	if c.GetString(middleware.ContextUserRole) == model.RoleDoctor {
		consultations, err = h.svc.ListForDoctor(c.Request.Context(), userID)
	} else {
		consultations, err = h.svc.ListForPatient(c.Request.Context(), userID)
	}
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, consultations)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "id")
	if !ok {
		return
	}

	consultation, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if !h.ownedByCaller(c, consultation) {
		httputil.RespondWithError(c, apperrors.NotFound("consultation"))
		return
	}
	httputil.RespondWithSuccess(c, consultation)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "id")
	if !ok {
		return
	}

	consultation, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if !h.ownedByCaller(c, consultation) {
		httputil.RespondWithError(c, apperrors.NotFound("consultation"))
		return
	}

	cancelled, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, cancelled)
}

func (h *Handler) ownedByCaller(c *gin.Context, consultation *model.Consultation) bool {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if c.GetString(middleware.ContextUserRole) == model.RoleDoctor {
		return consultation.DoctorID == userID
	}
	return consultation.PatientID == userID
}
