package donations

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

type DirectDonationRepository interface {
	InsertDonation(tx *goqu.TxDatabase, donation *models.DirectDonation) (int, error)
	GetDonation(id int) (*models.DirectDonation, error)
	GetDonationTx(tx *goqu.TxDatabase, id int) (*models.DirectDonation, error)
	GetDonationsByBakery(bakeryID int) ([]models.DirectDonation, error)
	GetDonationsByCharity(charityID int) ([]models.DirectDonation, error)
	UpdateTracking(tx *goqu.TxDatabase, id int, status models.TrackingStatus) error
	CompleteWithFeedback(tx *goqu.TxDatabase, id int, completedAt time.Time, stampCompletion bool) error
	GetCompletedDonations() ([]models.DirectDonation, error)
}

type directDonationRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) *directDonationRepository {
	return &directDonationRepository{repo: r}
}

var donationColumns = []interface{}{
	"id", "inventory_id", "bakery_id", "charity_id", "quantity",
	"btracking_status", "feedback_submitted", "created_at", "completed_at",
}

func (r *directDonationRepository) InsertDonation(tx *goqu.TxDatabase, donation *models.DirectDonation) (int, error) {
	var id int

	query := tx.Insert("direct_donations").
		Rows(goqu.Record{
			"inventory_id":       donation.InventoryID,
			"bakery_id":          donation.BakeryID,
			"charity_id":         donation.CharityID,
			"quantity":           donation.Quantity,
			"btracking_status":   donation.BTrackingStatus,
			"feedback_submitted": donation.FeedbackSubmitted,
			"created_at":         donation.CreatedAt,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert direct donation: %w", err)
	}

	return id, nil
}

func (r *directDonationRepository) GetDonation(id int) (*models.DirectDonation, error) {
	var donation models.DirectDonation

	found, err := r.repo.GoquDBWrapper.
		From("direct_donations").
		Select(donationColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&donation)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.ErrDonationNotFound
	}

	return &donation, nil
}

func (r *directDonationRepository) GetDonationTx(tx *goqu.TxDatabase, id int) (*models.DirectDonation, error) {
	var donation models.DirectDonation

	found, err := tx.
		From("direct_donations").
		Select(donationColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&donation)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.ErrDonationNotFound
	}

	return &donation, nil
}

func (r *directDonationRepository) GetDonationsByBakery(bakeryID int) ([]models.DirectDonation, error) {
	return r.getDonationsBy(goqu.Ex{"bakery_id": bakeryID})
}

func (r *directDonationRepository) GetDonationsByCharity(charityID int) ([]models.DirectDonation, error) {
	return r.getDonationsBy(goqu.Ex{"charity_id": charityID})
}

func (r *directDonationRepository) getDonationsBy(conditions goqu.Ex) ([]models.DirectDonation, error) {
	var donations []models.DirectDonation

	err := r.repo.GoquDBWrapper.
		From("direct_donations").
		Select(donationColumns...).
		Where(conditions).
		Order(goqu.I("created_at").Desc()).
		Executor().ScanStructs(&donations)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return donations, nil
}

func (r *directDonationRepository) UpdateTracking(tx *goqu.TxDatabase, id int, status models.TrackingStatus) error {
	if _, err := tx.Update("direct_donations").
		Set(goqu.Record{"btracking_status": status}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update tracking for donation %d: %w", id, err)
	}

	return nil
}

func (r *directDonationRepository) CompleteWithFeedback(tx *goqu.TxDatabase, id int, completedAt time.Time, stampCompletion bool) error {
	record := goqu.Record{
		"btracking_status":   models.TrackingComplete,
		"feedback_submitted": true,
	}
	if stampCompletion {
		record["completed_at"] = completedAt
	}

	if _, err := tx.Update("direct_donations").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().Exec(); err != nil {
		return fmt.Errorf("failed to complete donation %d: %w", id, err)
	}

	return nil
}

func (r *directDonationRepository) GetCompletedDonations() ([]models.DirectDonation, error) {
	var donations []models.DirectDonation

	err := r.repo.GoquDBWrapper.
		From("direct_donations").
		Select(donationColumns...).
		Where(goqu.Ex{"btracking_status": models.TrackingComplete}).
		Order(goqu.I("completed_at").Asc()).
		Executor().ScanStructs(&donations)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return donations, nil
}
