package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lexgen/lexgen-backend/internal/services"
)

type SubscriptionHandler struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sub, err := h.subscriptionService.GetForUser(c.Request.Context())
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) Overview(c *gin.Context) {
	overview, err := h.subscriptionService.Overview(c.Request.Context())
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, overview)
}
