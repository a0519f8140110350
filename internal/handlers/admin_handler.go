package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/school-service/internal/services"
	"github.com/eduverse/school-service/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	adminService        services.AdminService
	notificationService services.NotificationEventService
}

func NewAdminHandler(adminService services.AdminService, notificationService services.NotificationEventService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:         NewBaseHandler(logger),
		adminService:        adminService,
		notificationService: notificationService,
	}
}

// CreateAdmin creates an admin account and profile for a tenant
// @Summary Create admin
// @Description Creates a user account with the admin role plus its admin profile
// @Tags admins
// @Accept json
// @Produce json
// @Param admin body services.CreateAdminRequest true "Admin data"
// @Success 201 {object} services.AdminResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admins [post]
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req services.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	admin, err := h.adminService.Create(c.Request.Context(), actorFromContext(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, admin)
}

// GetMe retrieves the calling admin's own profile
// @Summary Get own admin profile
// @Tags admins
// @Produce json
// @Success 200 {object} services.AdminResponse
// @Failure 404 {object} ErrorResponse
// @Router /admins/me [get]
func (h *AdminHandler) GetMe(c *gin.Context) {
	admin, err := h.adminService.GetMe(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// UpdateAdmin updates an admin's account fields
// @Summary Update admin
// @Tags admins
// @Accept json
// @Produce json
// @Param id path string true "Admin profile ID"
// @Param admin body services.UpdateAdminRequest true "Admin update data"
// @Success 200 {object} services.AdminResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admins/{id} [put]
func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	admin, err := h.adminService.Update(c.Request.Context(), actorFromContext(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// DeleteAdmin removes an admin profile and its account
// @Summary Delete admin
// @Tags admins
// @Produce json
// @Param id path string true "Admin profile ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /admins/{id} [delete]
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting admin", "admin_id", id)

	if err := h.adminService.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetDashboard returns tenant-wide counts for the caller
// @Summary Admin dashboard
// @Tags admins
// @Produce json
// @Success 200 {object} services.AdminDashboard
// @Failure 404 {object} ErrorResponse
// @Router /admins/me/dashboard [get]
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.adminService.Dashboard(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// SendBulkNotification publishes a notification event for a set of users
// @Summary Send bulk notification
// @Description Publishes a bulk notification event for downstream delivery
// @Tags admins
// @Accept json
// @Produce json
// @Param request body object{userIds=[]string,notification=services.NotificationRequest} true "Recipients and content"
// @Success 202 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /admins/notifications [post]
func (h *AdminHandler) SendBulkNotification(c *gin.Context) {
	var req struct {
		UserIDs      []string                     `json:"userIds" binding:"required,min=1"`
		Notification services.NotificationRequest `json:"notification" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.notificationService.SendBulkNotification(c.Request.Context(), req.UserIDs, &req.Notification); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{
		Message: "Notification queued for delivery",
	})
}
