package donations

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/Avanquish/DoughNation-sub000/internal/inventory"
	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
	"github.com/Avanquish/DoughNation-sub000/pkg/roles"
)

// UserDirectory resolves the target of a direct allocation so the role gate
// can run before any stock moves.
type UserDirectory interface {
	GetUser(id int) (*models.User, error)
}

// PendingClaimChecker looks for an open donation request on the same
// inventory+charity pair; a direct allocation may not shadow one.
type PendingClaimChecker interface {
	GetPendingByInventoryAndCharity(tx *goqu.TxDatabase, inventoryID, charityID int) (*models.DonationRequest, error)
}

// ListingSweeper re-runs the listing predicate inside the allocation
// transaction; a fully consumed item must lose its listing immediately.
type ListingSweeper interface {
	SweepItemTx(tx *goqu.TxDatabase, itemID int) error
}

// DonationService owns direct bakery-to-charity allocations, which draw stock
// synchronously at creation instead of through the request/accept negotiation.
type DonationService struct {
	tx      repository.TxRunner
	dr      DirectDonationRepository
	ir      inventory.InventoryRepository
	users   UserDirectory
	claims  PendingClaimChecker
	sweeper ListingSweeper
	log     *zap.Logger
}

func NewService(
	tx repository.TxRunner,
	dr DirectDonationRepository,
	ir inventory.InventoryRepository,
	users UserDirectory,
	claims PendingClaimChecker,
	sweeper ListingSweeper,
	log *zap.Logger,
) *DonationService {
	return &DonationService{
		tx:      tx,
		dr:      dr,
		ir:      ir,
		users:   users,
		claims:  claims,
		sweeper: sweeper,
		log:     log,
	}
}

// AllocateDirect immediately reserves stock for a chosen charity. No cascade
// runs here: pending requests that no longer fit are resolved lazily by the
// live-quantity check when someone tries to accept them.
func (s *DonationService) AllocateDirect(bakeryID int, req models.DirectDonationRequest) (*models.DirectDonation, error) {
	if req.Quantity <= 0 {
		return nil, custom_error.ErrInvalidQuantity
	}

	target, err := s.users.GetUser(req.CharityID)
	if err != nil {
		return nil, custom_error.ErrInvalidCharity
	}
	if !target.Role.Satisfies(roles.Charity) {
		return nil, custom_error.ErrInvalidCharity
	}

	var donation *models.DirectDonation

	err = s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		item, err := s.ir.GetItemTx(tx, req.InventoryID)
		if err != nil {
			return err
		}
		if item.BakeryID != bakeryID {
			return custom_error.ErrItemNotFound
		}

		existing, err := s.claims.GetPendingByInventoryAndCharity(tx, item.ID, req.CharityID)
		if err != nil {
			return err
		}
		if existing != nil {
			return custom_error.ErrDuplicatePendingRequest
		}

		if req.Quantity > item.Quantity {
			return custom_error.ErrInsufficientStock
		}

		donation = &models.DirectDonation{
			InventoryID:     item.ID,
			BakeryID:        bakeryID,
			CharityID:       req.CharityID,
			Quantity:        req.Quantity,
			BTrackingStatus: models.TrackingPreparing,
			CreatedAt:       time.Now().UTC(),
		}
		if donation.ID, err = s.dr.InsertDonation(tx, donation); err != nil {
			return err
		}

		if err = s.ir.AdjustQuantity(tx, item, -req.Quantity); err != nil {
			return err
		}

		if _, err = s.ir.RecomputeStatus(tx, item.ID); err != nil {
			return err
		}

		return s.sweeper.SweepItemTx(tx, item.ID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("direct donation allocated",
		zap.Int("donation_id", donation.ID),
		zap.Int("bakery_id", bakeryID),
		zap.Int("charity_id", req.CharityID),
		zap.Int("quantity", req.Quantity))

	return donation, nil
}

// UpdateTracking advances the delivery sub-state; completion stays reserved
// for feedback submission, same as on the request side.
func (s *DonationService) UpdateTracking(donationID int, next models.TrackingStatus) (*models.DirectDonation, error) {
	var donation *models.DirectDonation

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		if donation, err = s.dr.GetDonationTx(tx, donationID); err != nil {
			return err
		}

		if err = donation.BTrackingStatus.CanAdvanceTo(next); err != nil {
			return err
		}

		if err = s.dr.UpdateTracking(tx, donation.ID, next); err != nil {
			return err
		}
		donation.BTrackingStatus = next

		return nil
	})
	if err != nil {
		return nil, err
	}

	return donation, nil
}

// SubmitFeedback concludes the donation: tracking flips to complete and the
// completion date is stamped exactly once. Resubmission is a no-op.
func (s *DonationService) SubmitFeedback(donationID, charityID int) (*models.DirectDonation, error) {
	var donation *models.DirectDonation

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		if donation, err = s.dr.GetDonationTx(tx, donationID); err != nil {
			return err
		}

		if donation.CharityID != charityID {
			return custom_error.ErrDonationNotFound
		}
		if donation.FeedbackSubmitted {
			return nil
		}
		if donation.BTrackingStatus != models.TrackingReceived {
			return custom_error.ErrNotReady
		}

		now := time.Now().UTC()
		stamp := donation.CompletedAt == nil

		if err = s.dr.CompleteWithFeedback(tx, donation.ID, now, stamp); err != nil {
			return err
		}

		donation.BTrackingStatus = models.TrackingComplete
		donation.FeedbackSubmitted = true
		if stamp {
			donation.CompletedAt = &now
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return donation, nil
}

func (s *DonationService) GetDonation(donationID int) (*models.DirectDonation, error) {
	return s.dr.GetDonation(donationID)
}

func (s *DonationService) GetDonationsByBakery(bakeryID int) ([]models.DirectDonation, error) {
	return s.dr.GetDonationsByBakery(bakeryID)
}

func (s *DonationService) GetDonationsByCharity(charityID int) ([]models.DirectDonation, error) {
	return s.dr.GetDonationsByCharity(charityID)
}

func (s *DonationService) GetCompletedDonations() ([]models.DirectDonation, error) {
	return s.dr.GetCompletedDonations()
}
