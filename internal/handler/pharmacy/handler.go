package pharmacy

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/middleware"
	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/service/pharmacy"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/httputil"
)

type Handler struct {
	svc    *pharmacy.Service
	authMw *middleware.AuthMiddleware
}

func NewHandler(svc *pharmacy.Service, authMw *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, authMw: authMw}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.authMw.RequireRole(model.RolePatient), h.Create)
		orders.GET("", h.authMw.RequireRole(model.RolePatient), h.ListForPatient)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/advance", h.Advance)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	patientID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	order, err := h.svc.Create(c.Request.Context(), patientID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, order)
}

func (h *Handler) ListForPatient(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	orders, err := h.svc.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, orders)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, order)
}

// Advance moves the order one step along the fulfillment chain.
func (h *Handler) Advance(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Advance(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, order)
}
