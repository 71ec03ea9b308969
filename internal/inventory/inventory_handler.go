package inventory

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

// AuditTrail reads back the recorded lifecycle actions for one resource.
type AuditTrail interface {
	GetResourceLog(id int, resourceType string) ([]models.AuditLog, error)
}

type InventoryHandler struct {
	service  *InventoryService
	auditLog *auditlog.Auditlog
	history  AuditTrail
}

func NewHandler(service *InventoryService, auditLog *auditlog.Auditlog, history AuditTrail) *InventoryHandler {
	return &InventoryHandler{service: service, auditLog: auditLog, history: history}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/inventory", security.JWTMiddleware())
	group.POST("", security.Authorize(roles.Bakery), h.CreateItem)
	group.GET("", security.Authorize(roles.Bakery), h.GetItems)
	group.GET("/:id", h.GetItem)
	group.GET("/:id/history", security.Authorize(roles.Bakery), h.GetItemHistory)
	group.PUT("/:id", security.Authorize(roles.Bakery), h.UpdateItem)
	group.DELETE("/:id", security.Authorize(roles.Bakery), h.DeleteItem)
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	bakeryID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	var req models.InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	req.BakeryID = bakeryID

	item, err := h.service.CreateItem(req)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log("create", map[string]interface{}{
		"bakery_id": item.BakeryID,
		"quantity":  item.Quantity,
		"threshold": item.Threshold,
	}, item)

	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) GetItems(c *gin.Context) {
	bakeryID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return
	}

	items, err := h.service.GetItemsByBakery(bakeryID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list inventory", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) GetItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.service.GetItem(itemID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

// GetItemHistory returns the audit trail of one item: every create, update,
// accept, cancel, direct allocation and tracking change recorded against it.
func (h *InventoryHandler) GetItemHistory(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if !h.callerOwnsItem(c, itemID) {
		return
	}

	logs, err := h.history.GetResourceLog(itemID, "inventory_item")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to read item history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item_id": itemID, "history": logs})
}

func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if !h.callerOwnsItem(c, itemID) {
		return
	}

	var req models.InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	item, err := h.service.UpdateItem(itemID, req)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.auditLog.Log("update", map[string]interface{}{
		"quantity":  item.Quantity,
		"threshold": item.Threshold,
		"status":    item.Status,
	}, item)

	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if !h.callerOwnsItem(c, itemID) {
		return
	}

	if err := h.service.DeleteItem(itemID); err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// callerOwnsItem guards bakery mutations: only the owning bakery or an admin
// may touch an item. Writes the error response itself when the check fails.
func (h *InventoryHandler) callerOwnsItem(c *gin.Context, itemID int) bool {
	callerID, err := security.GetUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify caller"})
		return false
	}

	item, err := h.service.GetItem(itemID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return false
	}

	if item.BakeryID != callerID && !security.IsAdmin(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: item belongs to another bakery"})
		return false
	}

	return true
}
