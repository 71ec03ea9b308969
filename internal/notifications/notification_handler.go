package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Avanquish/DoughNation-sub000/pkg/security"
)

type NotificationHandler struct {
	repo NotificationRepository
}

func NewHandler(repo NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/notifications", security.JWTMiddleware(), h.GetNotifications)
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	charityID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	notifications, err := h.repo.GetNotificationsByCharity(charityID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list notifications", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, notifications)
}
