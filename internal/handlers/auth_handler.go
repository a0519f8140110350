package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/school-service/internal/services"
	"github.com/eduverse/school-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// Login authenticates a user and issues a JWT
// @Summary Login
// @Description Authenticates with email and password and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Credentials"
// @Success 200 {object} services.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AdminSignup registers a new school with its first admin
// @Summary Admin signup
// @Description Creates a tenant, its admin account and profile, and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.AdminSignupRequest true "Signup data"
// @Success 201 {object} services.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/admin/signup [post]
func (h *AuthHandler) AdminSignup(c *gin.Context) {
	var req services.AdminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.AdminSignup(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// TeacherSignup registers a teacher under an existing school
// @Summary Teacher signup
// @Description Creates a teacher account and profile in a tenant and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.TeacherSignupRequest true "Signup data"
// @Success 201 {object} services.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/teacher/signup [post]
func (h *AuthHandler) TeacherSignup(c *gin.Context) {
	var req services.TeacherSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.TeacherSignup(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Description Changes the authenticated user's password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.ChangePasswordRequest true "Password change data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actor := actorFromContext(c)
	if err := h.authService.ChangePassword(c.Request.Context(), actor.UserID, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Password changed successfully",
	})
}
