package requests

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

type RequestRepository interface {
	InsertRequest(tx *goqu.TxDatabase, req *models.DonationRequest) (int, error)
	GetRequest(id int) (*models.DonationRequest, error)
	GetRequestTx(tx *goqu.TxDatabase, id int) (*models.DonationRequest, error)
	GetRequestsByCharity(charityID int) ([]models.DonationRequest, error)
	GetRequestsByBakery(bakeryID int) ([]models.DonationRequest, error)
	GetPendingByInventory(tx *goqu.TxDatabase, inventoryID int) ([]models.DonationRequest, error)
	GetPendingByInventoryAndCharity(tx *goqu.TxDatabase, inventoryID, charityID int) (*models.DonationRequest, error)
	UpdateRequestStatus(tx *goqu.TxDatabase, id int, status models.RequestStatus) error
	MarkAccepted(tx *goqu.TxDatabase, id, acceptedBy int) error
	UpdateTracking(tx *goqu.TxDatabase, id int, status models.TrackingStatus) error
	CompleteWithFeedback(tx *goqu.TxDatabase, id int, completedAt time.Time, stampCompletion bool) error
	GetCompletedRequests() ([]models.DonationRequest, error)
}

type requestRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) *requestRepository {
	return &requestRepository{repo: r}
}

var requestColumns = []interface{}{
	"id", "listing_id", "inventory_id", "charity_id", "bakery_id", "quantity",
	"status", "tracking_status", "accepted_by", "feedback_submitted",
	"created_at", "updated_at", "completed_at",
}

func (r *requestRepository) InsertRequest(tx *goqu.TxDatabase, req *models.DonationRequest) (int, error) {
	var id int

	query := tx.Insert("donation_requests").
		Rows(goqu.Record{
			"listing_id":         req.ListingID,
			"inventory_id":       req.InventoryID,
			"charity_id":         req.CharityID,
			"bakery_id":          req.BakeryID,
			"quantity":           req.Quantity,
			"status":             req.Status,
			"tracking_status":    req.TrackingStatus,
			"feedback_submitted": req.FeedbackSubmitted,
			"created_at":         req.CreatedAt,
			"updated_at":         req.UpdatedAt,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert donation request: %w", err)
	}

	return id, nil
}

func (r *requestRepository) GetRequest(id int) (*models.DonationRequest, error) {
	var req models.DonationRequest

	found, err := r.repo.GoquDBWrapper.
		From("donation_requests").
		Select(requestColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&req)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.ErrRequestNotFound
	}

	return &req, nil
}

func (r *requestRepository) GetRequestTx(tx *goqu.TxDatabase, id int) (*models.DonationRequest, error) {
	var req models.DonationRequest

	found, err := tx.
		From("donation_requests").
		Select(requestColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&req)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.ErrRequestNotFound
	}

	return &req, nil
}

func (r *requestRepository) GetRequestsByCharity(charityID int) ([]models.DonationRequest, error) {
	return r.getRequestsBy(goqu.Ex{"charity_id": charityID})
}

func (r *requestRepository) GetRequestsByBakery(bakeryID int) ([]models.DonationRequest, error) {
	return r.getRequestsBy(goqu.Ex{"bakery_id": bakeryID})
}

func (r *requestRepository) getRequestsBy(conditions goqu.Ex) ([]models.DonationRequest, error) {
	var reqs []models.DonationRequest

	err := r.repo.GoquDBWrapper.
		From("donation_requests").
		Select(requestColumns...).
		Where(conditions).
		Order(goqu.I("created_at").Desc()).
		Executor().ScanStructs(&reqs)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return reqs, nil
}

func (r *requestRepository) GetPendingByInventory(tx *goqu.TxDatabase, inventoryID int) ([]models.DonationRequest, error) {
	var reqs []models.DonationRequest

	err := tx.
		From("donation_requests").
		Select(requestColumns...).
		Where(goqu.Ex{"inventory_id": inventoryID, "status": models.RequestPending}).
		Order(goqu.I("created_at").Asc()).
		Executor().ScanStructs(&reqs)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return reqs, nil
}

// GetPendingByInventoryAndCharity returns nil without error when the charity
// holds no pending claim on the item.
func (r *requestRepository) GetPendingByInventoryAndCharity(tx *goqu.TxDatabase, inventoryID, charityID int) (*models.DonationRequest, error) {
	var req models.DonationRequest

	found, err := tx.
		From("donation_requests").
		Select(requestColumns...).
		Where(goqu.Ex{
			"inventory_id": inventoryID,
			"charity_id":   charityID,
			"status":       models.RequestPending,
		}).
		Executor().ScanStruct(&req)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &req, nil
}

func (r *requestRepository) UpdateRequestStatus(tx *goqu.TxDatabase, id int, status models.RequestStatus) error {
	if _, err := tx.Update("donation_requests").
		Set(goqu.Record{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update request %d status: %w", id, err)
	}

	return nil
}

func (r *requestRepository) MarkAccepted(tx *goqu.TxDatabase, id, acceptedBy int) error {
	if _, err := tx.Update("donation_requests").
		Set(goqu.Record{
			"status":      models.RequestAccepted,
			"accepted_by": acceptedBy,
			"updated_at":  time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec(); err != nil {
		return fmt.Errorf("failed to mark request %d accepted: %w", id, err)
	}

	return nil
}

func (r *requestRepository) UpdateTracking(tx *goqu.TxDatabase, id int, status models.TrackingStatus) error {
	if _, err := tx.Update("donation_requests").
		Set(goqu.Record{
			"tracking_status": status,
			"updated_at":      time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update tracking for request %d: %w", id, err)
	}

	return nil
}

// CompleteWithFeedback flips tracking to complete and records the feedback
// flag. The completion timestamp is only written the first time.
func (r *requestRepository) CompleteWithFeedback(tx *goqu.TxDatabase, id int, completedAt time.Time, stampCompletion bool) error {
	record := goqu.Record{
		"tracking_status":    models.TrackingComplete,
		"feedback_submitted": true,
		"updated_at":         time.Now().UTC(),
	}
	if stampCompletion {
		record["completed_at"] = completedAt
	}

	if _, err := tx.Update("donation_requests").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().Exec(); err != nil {
		return fmt.Errorf("failed to complete request %d: %w", id, err)
	}

	return nil
}

func (r *requestRepository) GetCompletedRequests() ([]models.DonationRequest, error) {
	var reqs []models.DonationRequest

	err := r.repo.GoquDBWrapper.
		From("donation_requests").
		Select(requestColumns...).
		Where(goqu.Ex{"tracking_status": models.TrackingComplete}).
		Order(goqu.I("completed_at").Asc()).
		Executor().ScanStructs(&reqs)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return reqs, nil
}
