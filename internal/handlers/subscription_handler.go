package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/school-service/internal/services"
	"github.com/eduverse/school-service/internal/utils"
)

type SubscriptionHandler struct {
	BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService, logger utils.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         NewBaseHandler(logger),
		subscriptionService: subscriptionService,
	}
}

// CreateSubscription creates a subscription for a tenant
// @Summary Create subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscription body services.CreateSubscriptionRequest true "Subscription data"
// @Success 201 {object} models.Subscription
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req services.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	subscription, err := h.subscriptionService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subscription)
}

// GetSubscription retrieves a tenant's subscription
// @Summary Get subscription by tenant
// @Tags subscriptions
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {object} models.Subscription
// @Failure 404 {object} ErrorResponse
// @Router /subscriptions/tenant/{tenant_id} [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	tenantID := ParseStringIDParam(c, "tenant_id")
	if tenantID == "" {
		return
	}

	subscription, err := h.subscriptionService.GetByTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscription)
}

// GetMySubscription retrieves the caller's tenant subscription
// @Summary Get own tenant subscription
// @Tags subscriptions
// @Produce json
// @Success 200 {object} models.Subscription
// @Failure 404 {object} ErrorResponse
// @Router /subscriptions/me [get]
func (h *SubscriptionHandler) GetMySubscription(c *gin.Context) {
	actor := actorFromContext(c)
	if actor.TenantID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Caller has no tenant",
		})
		return
	}

	subscription, err := h.subscriptionService.GetByTenant(c.Request.Context(), actor.TenantID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscription)
}

// ListSubscriptions lists all subscriptions
// @Summary List subscriptions
// @Tags subscriptions
// @Produce json
// @Success 200 {array} models.Subscription
// @Failure 500 {object} ErrorResponse
// @Router /subscriptions [get]
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	subscriptions, err := h.subscriptionService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscriptions)
}

// UpdateSubscription updates a tenant's plan limits
// @Summary Update subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param subscription body services.UpdateSubscriptionRequest true "Subscription update data"
// @Success 200 {object} models.Subscription
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /subscriptions/tenant/{tenant_id} [put]
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	tenantID := ParseStringIDParam(c, "tenant_id")
	if tenantID == "" {
		return
	}

	var req services.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	subscription, err := h.subscriptionService.Update(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscription)
}

// DeleteSubscription removes a tenant's subscription
// @Summary Delete subscription
// @Tags subscriptions
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /subscriptions/tenant/{tenant_id} [delete]
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	tenantID := ParseStringIDParam(c, "tenant_id")
	if tenantID == "" {
		return
	}

	h.LogRequest(c, "Deleting subscription", "tenant_id", tenantID)

	if err := h.subscriptionService.Delete(c.Request.Context(), tenantID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
