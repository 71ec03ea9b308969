package requests

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

type RequestHandler struct {
	service  *RequestService
	auditLog *auditlog.Auditlog
}

func NewHandler(service *RequestService, auditLog *auditlog.Auditlog) *RequestHandler {
	return &RequestHandler{service: service, auditLog: auditLog}
}

func (h *RequestHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/requests", security.JWTMiddleware())
	group.POST("", security.Authorize(roles.Charity), h.CreateRequest)
	group.GET("", h.GetRequests)
	group.GET("/:id", h.GetRequest)
	group.POST("/:id/accept", security.Authorize(roles.Bakery), h.AcceptRequest)
	group.POST("/:id/cancel", h.CancelRequest)
	group.PATCH("/:id/tracking", security.Authorize(roles.Bakery), h.UpdateTracking)
	group.POST("/:id/feedback", security.Authorize(roles.Charity), h.SubmitFeedback)
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	charityID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	var create models.DonationRequestCreate
	if err := c.ShouldBindJSON(&create); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	req, err := h.service.CreateRequest(charityID, create)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log("create", map[string]interface{}{
		"charity_id":   req.CharityID,
		"inventory_id": req.InventoryID,
		"quantity":     req.Quantity,
	}, req)

	c.JSON(http.StatusCreated, req)
}

// GetRequests returns the caller's side of the ledger: a charity sees its own
// claims, a bakery sees the claims against its inventory.
func (h *RequestHandler) GetRequests(c *gin.Context) {
	callerID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	var reqs []models.DonationRequest
	if security.HasRole(c, roles.Charity) {
		reqs, err = h.service.GetRequestsByCharity(callerID)
	} else {
		reqs, err = h.service.GetRequestsByBakery(callerID)
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list requests", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reqs)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID, ok := h.requestID(c)
	if !ok {
		return
	}

	req, err := h.service.GetRequest(requestID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, req)
}

func (h *RequestHandler) AcceptRequest(c *gin.Context) {
	requestID, ok := h.requestID(c)
	if !ok {
		return
	}

	bakeryID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	if !h.callerOwnsRequestSide(c, requestID, bakeryID) {
		return
	}

	req, err := h.service.AcceptRequest(requestID, bakeryID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log("accept", map[string]interface{}{
		"accepted_by":  bakeryID,
		"inventory_id": req.InventoryID,
		"quantity":     req.Quantity,
	}, req)

	c.JSON(http.StatusOK, req)
}

func (h *RequestHandler) CancelRequest(c *gin.Context) {
	requestID, ok := h.requestID(c)
	if !ok {
		return
	}

	callerID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	existing, err := h.service.GetRequest(requestID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if existing.CharityID != callerID && existing.BakeryID != callerID && !security.IsAdmin(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: request belongs to another party"})
		return
	}

	req, err := h.service.CancelRequest(requestID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log("cancel", map[string]interface{}{
		"canceled_by": callerID,
	}, req)

	c.JSON(http.StatusOK, req)
}

func (h *RequestHandler) UpdateTracking(c *gin.Context) {
	requestID, ok := h.requestID(c)
	if !ok {
		return
	}

	bakeryID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	if !h.callerOwnsRequestSide(c, requestID, bakeryID) {
		return
	}

	var body struct {
		TrackingStatus models.TrackingStatus `json:"tracking_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	req, err := h.service.UpdateTracking(requestID, body.TrackingStatus)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log("tracking_update", map[string]interface{}{
		"tracking_status": req.TrackingStatus,
	}, req)

	c.JSON(http.StatusOK, req)
}

func (h *RequestHandler) SubmitFeedback(c *gin.Context) {
	requestID, ok := h.requestID(c)
	if !ok {
		return
	}

	charityID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	req, err := h.service.SubmitFeedback(requestID, charityID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log("feedback", map[string]interface{}{
		"charity_id":   charityID,
		"completed_at": req.CompletedAt,
	}, req)

	c.JSON(http.StatusOK, req)
}

func (h *RequestHandler) requestID(c *gin.Context) (int, bool) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return 0, false
	}
	return requestID, true
}

// callerOwnsRequestSide guards bakery-side operations: only the bakery the
// request targets (or an admin) may accept or advance tracking.
func (h *RequestHandler) callerOwnsRequestSide(c *gin.Context, requestID, bakeryID int) bool {
	req, err := h.service.GetRequest(requestID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return false
	}

	if req.BakeryID != bakeryID && !security.IsAdmin(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: request targets another bakery"})
		return false
	}

	return true
}
