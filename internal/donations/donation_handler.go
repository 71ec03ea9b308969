package donations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Avanquish/DoughNation-sub000/pkg/auditlog"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
	"github.com/Avanquish/DoughNation-sub000/pkg/roles"
	"github.com/Avanquish/DoughNation-sub000/pkg/security"
)

// CompletedRequestsSource feeds the append-only completed feed consumed by
// the reporting and badge collaborators.
type CompletedRequestsSource interface {
	GetCompletedRequests() ([]models.DonationRequest, error)
}

type DonationHandler struct {
	service   *DonationService
	completed CompletedRequestsSource
	auditLog  *auditlog.Auditlog
}

func NewHandler(service *DonationService, completed CompletedRequestsSource, auditLog *auditlog.Auditlog) *DonationHandler {
	return &DonationHandler{service: service, completed: completed, auditLog: auditLog}
}

func (h *DonationHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/donations", security.JWTMiddleware())
	group.POST("", security.Authorize(roles.Bakery), h.AllocateDirect)
	group.GET("", h.GetDonations)
	group.GET("/:id", h.GetDonation)
	group.PATCH("/:id/tracking", security.Authorize(roles.Bakery), h.UpdateTracking)
	group.POST("/:id/feedback", security.Authorize(roles.Charity), h.SubmitFeedback)

	router.GET("/reports/completed-donations", security.JWTMiddleware(), h.GetCompletedFeed)
}

func (h *DonationHandler) AllocateDirect(c *gin.Context) {
	bakeryID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	var req models.DirectDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	donation, err := h.service.AllocateDirect(bakeryID, req)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log("direct_allocate", map[string]interface{}{
		"bakery_id":    donation.BakeryID,
		"charity_id":   donation.CharityID,
		"inventory_id": donation.InventoryID,
		"quantity":     donation.Quantity,
	}, donation)

	c.JSON(http.StatusCreated, donation)
}

func (h *DonationHandler) GetDonations(c *gin.Context) {
	callerID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	var donations []models.DirectDonation
	if security.HasRole(c, roles.Charity) {
		donations, err = h.service.GetDonationsByCharity(callerID)
	} else {
		donations, err = h.service.GetDonationsByBakery(callerID)
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list donations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, donations)
}

// GetCompletedFeed exposes completed requests and direct donations as one
// append-only feed; this core never reads it back.
func (h *DonationHandler) GetCompletedFeed(c *gin.Context) {
	completedRequests, err := h.completed.GetCompletedRequests()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list completed requests", "details": err.Error()})
		return
	}

	completedDonations, err := h.service.GetCompletedDonations()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list completed donations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests":         completedRequests,
		"direct_donations": completedDonations,
	})
}

func (h *DonationHandler) GetDonation(c *gin.Context) {
	donationID, ok := h.donationID(c)
	if !ok {
		return
	}

	donation, err := h.service.GetDonation(donationID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, donation)
}

func (h *DonationHandler) UpdateTracking(c *gin.Context) {
	donationID, ok := h.donationID(c)
	if !ok {
		return
	}

	bakeryID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	existing, err := h.service.GetDonation(donationID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if existing.BakeryID != bakeryID && !security.IsAdmin(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: donation belongs to another bakery"})
		return
	}

	var body struct {
		TrackingStatus models.TrackingStatus `json:"btracking_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	donation, err := h.service.UpdateTracking(donationID, body.TrackingStatus)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log("tracking_update", map[string]interface{}{
		"btracking_status": donation.BTrackingStatus,
	}, donation)

	c.JSON(http.StatusOK, donation)
}

func (h *DonationHandler) SubmitFeedback(c *gin.Context) {
	donationID, ok := h.donationID(c)
	if !ok {
		return
	}

	charityID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	donation, err := h.service.SubmitFeedback(donationID, charityID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log("feedback", map[string]interface{}{
		"charity_id":   charityID,
		"completed_at": donation.CompletedAt,
	}, donation)

	c.JSON(http.StatusOK, donation)
}

func (h *DonationHandler) donationID(c *gin.Context) (int, bool) {
	donationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid donation ID"})
		return 0, false
	}
	return donationID, true
}
