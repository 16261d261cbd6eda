package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/service/auth"
	"github.com/telemeet/telemed-api/internal/service/doctor"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/httputil"
)

type Handler struct {
	svc       *auth.Service
	doctorSvc *doctor.Service
}

func NewHandler(svc *auth.Service, doctorSvc *doctor.Service) *Handler {
	return &Handler{svc: svc, doctorSvc: doctorSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/auth")
	{
		group.POST("/register/doctor", h.RegisterDoctor)
		group.POST("/register/patient", h.RegisterPatient)
		group.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterDoctor(c *gin.Context) {
	var req model.RegisterDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	profile, err := h.svc.RegisterDoctor(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	h.doctorSvc.InvalidateDirectory()

	httputil.RespondWithCreated(c, profile)
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	profile, err := h.svc.RegisterPatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, profile)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	tokens, user, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	tokens.Profile = user

	httputil.RespondWithSuccess(c, tokens)
}
