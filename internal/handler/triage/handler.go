package triage

import (
	"github.com/gin-gonic/gin"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/service/triage"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/httputil"
)

type Handler struct {
	svc *triage.Service
}

func NewHandler(svc *triage.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/triage")
	{
		group.GET("/questions", h.Questions)
		group.POST("/analyze", h.Analyze)
	}
}

func (h *Handler) Questions(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.svc.Questions(c.Request.Context()))
}

func (h *Handler) Analyze(c *gin.Context) {
	var req model.AnalyzeSymptomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	httputil.RespondWithSuccess(c, h.svc.Analyze(c.Request.Context(), &req))
}
