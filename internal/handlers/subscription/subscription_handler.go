// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"net/http"

	"eventora-service/internal/domain/subscription"
	"eventora-service/internal/pkg/response"
	service "eventora-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// GetSubscriptions lists the available subscription plans
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	result, err := h.subscriptionService.ListPlans(c.Request.Context())
	if err != nil {
		response.FromError(c, "Error getting subscriptions.", err)
		return
	}

	response.Success(c, http.StatusOK, "Subscriptions successfully fetched.", result)
}

// CreateSubscription opens a checkout session for a company
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req subscription.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.subscriptionService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "Error creating subscription.", err)
		return
	}

	response.Success(c, http.StatusOK, "Checkout session created.", result)
}

// CancelSubscription schedules cancellation at period end
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	result, err := h.subscriptionService.Cancel(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		response.FromError(c, "Error canceling subscription.", err)
		return
	}

	response.Success(c, http.StatusOK,
		"Subscription scheduled for cancellation at the end of the current period", result)
}

// ReactivateSubscription clears a pending cancellation
func (h *SubscriptionHandler) ReactivateSubscription(c *gin.Context) {
	result, err := h.subscriptionService.Reactivate(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		response.FromError(c, "Error reactivating subscription.", err)
		return
	}

	response.Success(c, http.StatusOK, "Subscription reactivated successfully", result)
}

// UpgradeSubscription swaps the plan or issues a payment link
func (h *SubscriptionHandler) UpgradeSubscription(c *gin.Context) {
	var req subscription.UpgradeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.subscriptionService.Upgrade(c.Request.Context(), c.Param("companyId"), &req)
	if err != nil {
		response.FromError(c, "Error upgrading subscription.", err)
		return
	}

	message := "Subscription upgraded successfully"
	if result.PaymentLink != "" {
		message = "Payment link created for new subscription"
	}
	response.Success(c, http.StatusOK, message, result)
}
