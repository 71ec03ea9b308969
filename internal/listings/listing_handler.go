package listings

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/roles"
	"github.com/Avanquish/DoughNation-sub000/pkg/security"
)

// ListingHandler exposes the charity-facing read surface over listings plus an
// admin hook to force a sweep. Listings are never written through HTTP; the
// scheduler owns their existence.
type ListingHandler struct {
	repo      ListingRepository
	scheduler *Scheduler
}

func NewHandler(repo ListingRepository, scheduler *Scheduler) *ListingHandler {
	return &ListingHandler{repo: repo, scheduler: scheduler}
}

func (h *ListingHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/listings", security.JWTMiddleware())
	group.GET("", h.GetListings)
	group.GET("/:id", h.GetListing)
	group.POST("/sweep", security.Authorize(roles.Admin), h.TriggerSweep)
}

func (h *ListingHandler) GetListings(c *gin.Context) {
	qb := repository.NewQueryBuilder()

	if bakery := c.Query("bakery_id"); bakery != "" {
		bakeryID, err := strconv.Atoi(bakery)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid bakery ID"})
			return
		}
		qb.AddCondition("bakery", bakeryID)
	}
	if name := c.Query("name"); name != "" {
		qb.AddCondition("name", name)
	}

	listings, err := h.repo.GetListings(qb)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list donations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listings)
}

func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	listing, err := h.repo.GetListing(listingID)
	if err != nil {
		c.AbortWithStatusJSON(custom_error.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) TriggerSweep(c *gin.Context) {
	go h.scheduler.SweepAll()
	c.JSON(http.StatusAccepted, gin.H{"status": "sweep scheduled"})
}
