package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/institute-portal-api/internal/models"
	"github.com/campushq/institute-portal-api/internal/service"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
	"github.com/campushq/institute-portal-api/pkg/response"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// InstituteLogin godoc
// @Summary Authenticate an institute by code and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.InstituteLoginRequest true "Institute credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/institute/login [post]
func (h *AuthHandler) InstituteLogin(c *gin.Context) {
	var req models.InstituteLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload"))
		return
	}

	summary, err := h.service.InstituteLogin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Login godoc
// @Summary Authenticate a portal user and issue a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "User credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload"))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
