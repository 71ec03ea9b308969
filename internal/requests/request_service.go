package requests

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/Avanquish/DoughNation-sub000/internal/inventory"
	"github.com/Avanquish/DoughNation-sub000/internal/listings"
	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

// ListingSweeper re-runs the listing predicate for one item inside the accept
// transaction, so a fully consumed item loses its listing atomically.
type ListingSweeper interface {
	SweepItemTx(tx *goqu.TxDatabase, itemID int) error
}

// CancellationNotifier delivers cascade-cancellation events after the accept
// transaction has committed. Delivery failures must not undo the cancellation.
type CancellationNotifier interface {
	CascadeCanceled(ev models.CascadeCancellation)
}

// RequestService owns the donation request ledger and coordinates the accept
// and cancel cascades across the inventory store and the listing scheduler.
type RequestService struct {
	tx       repository.TxRunner
	rr       RequestRepository
	ir       inventory.InventoryRepository
	lr       listings.ListingRepository
	sweeper  ListingSweeper
	notifier CancellationNotifier
	log      *zap.Logger
}

func NewService(
	tx repository.TxRunner,
	rr RequestRepository,
	ir inventory.InventoryRepository,
	lr listings.ListingRepository,
	sweeper ListingSweeper,
	notifier CancellationNotifier,
	log *zap.Logger,
) *RequestService {
	return &RequestService{
		tx:       tx,
		rr:       rr,
		ir:       ir,
		lr:       lr,
		sweeper:  sweeper,
		notifier: notifier,
		log:      log,
	}
}

// CreateRequest records a charity's claim against a listing. Over-subscription
// against other charities is tolerated; only the requested quantity exceeding
// the live inventory count is rejected. A stale pending request by the same
// charity that no longer fits current stock is auto-canceled so a legitimate
// smaller re-request is not blocked.
func (s *RequestService) CreateRequest(charityID int, create models.DonationRequestCreate) (*models.DonationRequest, error) {
	if create.Quantity <= 0 {
		return nil, custom_error.ErrInvalidQuantity
	}

	var req *models.DonationRequest

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		listing, err := s.lr.GetListingTx(tx, create.ListingID)
		if err != nil {
			return err
		}

		// Checked against the live inventory row, not the listing snapshot,
		// which may be momentarily stale between sweeps.
		item, err := s.ir.GetItemTx(tx, listing.InventoryID)
		if err != nil {
			return err
		}

		if create.Quantity > item.Quantity {
			return custom_error.ErrInsufficientStock
		}

		existing, err := s.rr.GetPendingByInventoryAndCharity(tx, item.ID, charityID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Quantity <= item.Quantity {
				return custom_error.ErrDuplicatePendingRequest
			}
			// The earlier claim outgrew the remaining stock; reconcile it and
			// let the new request proceed.
			if err := s.rr.UpdateRequestStatus(tx, existing.ID, models.RequestCanceled); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		req = &models.DonationRequest{
			ListingID:      listing.ID,
			InventoryID:    item.ID,
			CharityID:      charityID,
			BakeryID:       item.BakeryID,
			Quantity:       create.Quantity,
			Status:         models.RequestPending,
			TrackingStatus: models.TrackingPreparing,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if req.ID, err = s.rr.InsertRequest(tx, req); err != nil {
			return err
		}

		_, err = s.ir.RecomputeStatus(tx, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("donation request created",
		zap.Int("request_id", req.ID),
		zap.Int("charity_id", charityID),
		zap.Int("inventory_id", req.InventoryID),
		zap.Int("quantity", req.Quantity))

	return req, nil
}

// CancelRequest withdraws a pending claim. Nothing was reserved, so quantity
// is untouched; only the item status projection is refreshed.
func (s *RequestService) CancelRequest(requestID int) (*models.DonationRequest, error) {
	var req *models.DonationRequest

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		if req, err = s.rr.GetRequestTx(tx, requestID); err != nil {
			return err
		}

		if req.Status != models.RequestPending {
			return custom_error.ErrNotPending
		}

		if err = s.rr.UpdateRequestStatus(tx, req.ID, models.RequestCanceled); err != nil {
			return err
		}
		req.Status = models.RequestCanceled

		_, err = s.ir.RecomputeStatus(tx, req.InventoryID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return req, nil
}

// AcceptRequest is the core lifecycle operation: it claims stock for one
// pending request and lazily resolves the over-subscription the create path
// tolerated. Everything up to the listing sweep runs in a single transaction;
// cascade notifications are delivered only after it commits.
func (s *RequestService) AcceptRequest(requestID, acceptedBy int) (*models.DonationRequest, error) {
	var (
		req    *models.DonationRequest
		events []models.CascadeCancellation
	)

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		if req, err = s.rr.GetRequestTx(tx, requestID); err != nil {
			return err
		}

		if req.Status != models.RequestPending {
			return custom_error.ErrNotPending
		}

		// Re-read the authoritative quantity; the listing snapshot or the
		// request's own create-time check may both be stale by now.
		item, err := s.ir.GetItemTx(tx, req.InventoryID)
		if err != nil {
			return err
		}

		if req.Quantity > item.Quantity {
			return custom_error.ErrInsufficientStock
		}

		if err = s.ir.AdjustQuantity(tx, item, -req.Quantity); err != nil {
			return err
		}
		remaining := item.Quantity

		if err = s.rr.MarkAccepted(tx, req.ID, acceptedBy); err != nil {
			return err
		}
		req.Status = models.RequestAccepted
		req.AcceptedBy = &acceptedBy

		// Cascade: competing pending claims that no longer fit the remaining
		// balance are canceled; the rest stay eligible for a future accept.
		pending, err := s.rr.GetPendingByInventory(tx, item.ID)
		if err != nil {
			return err
		}
		for _, other := range pending {
			if other.ID == req.ID || other.Quantity <= remaining {
				continue
			}

			if err = s.rr.UpdateRequestStatus(tx, other.ID, models.RequestCanceled); err != nil {
				return err
			}
			events = append(events, models.CascadeCancellation{
				RequestID:   other.ID,
				InventoryID: item.ID,
				CharityID:   other.CharityID,
				ProductName: item.Name,
				Requested:   other.Quantity,
				Remaining:   remaining,
			})
		}

		if _, err = s.ir.RecomputeStatus(tx, item.ID); err != nil {
			return err
		}

		return s.sweeper.SweepItemTx(tx, item.ID)
	})
	if err != nil {
		return nil, err
	}

	// Fire-and-forget relative to the committed transaction.
	for _, ev := range events {
		s.notifier.CascadeCanceled(ev)
	}

	s.log.Info("donation request accepted",
		zap.Int("request_id", req.ID),
		zap.Int("accepted_by", acceptedBy),
		zap.Int("cascade_canceled", len(events)))

	return req, nil
}

// UpdateTracking advances the delivery sub-state for an accepted request.
// Completion is rejected here; it only happens through feedback submission.
func (s *RequestService) UpdateTracking(requestID int, next models.TrackingStatus) (*models.DonationRequest, error) {
	var req *models.DonationRequest

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		if req, err = s.rr.GetRequestTx(tx, requestID); err != nil {
			return err
		}

		if req.Status != models.RequestAccepted {
			return custom_error.ErrNotAccepted
		}

		if err = req.TrackingStatus.CanAdvanceTo(next); err != nil {
			return err
		}

		if err = s.rr.UpdateTracking(tx, req.ID, next); err != nil {
			return err
		}
		req.TrackingStatus = next

		return nil
	})
	if err != nil {
		return nil, err
	}

	return req, nil
}

// SubmitFeedback concludes the tracking machine: the charity confirms receipt,
// the request flips to complete, and the completion date is stamped exactly
// once. Resubmitting feedback is a no-op.
func (s *RequestService) SubmitFeedback(requestID, charityID int) (*models.DonationRequest, error) {
	var req *models.DonationRequest

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		if req, err = s.rr.GetRequestTx(tx, requestID); err != nil {
			return err
		}

		if req.CharityID != charityID {
			return custom_error.ErrRequestNotFound
		}
		if req.Status != models.RequestAccepted {
			return custom_error.ErrNotAccepted
		}
		if req.FeedbackSubmitted {
			return nil
		}
		if req.TrackingStatus != models.TrackingReceived {
			return custom_error.ErrNotReady
		}

		now := time.Now().UTC()
		stamp := req.CompletedAt == nil

		if err = s.rr.CompleteWithFeedback(tx, req.ID, now, stamp); err != nil {
			return err
		}

		req.TrackingStatus = models.TrackingComplete
		req.FeedbackSubmitted = true
		if stamp {
			req.CompletedAt = &now
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return req, nil
}

func (s *RequestService) GetRequest(requestID int) (*models.DonationRequest, error) {
	return s.rr.GetRequest(requestID)
}

func (s *RequestService) GetRequestsByCharity(charityID int) ([]models.DonationRequest, error) {
	return s.rr.GetRequestsByCharity(charityID)
}

func (s *RequestService) GetRequestsByBakery(bakeryID int) ([]models.DonationRequest, error) {
	return s.rr.GetRequestsByBakery(bakeryID)
}
