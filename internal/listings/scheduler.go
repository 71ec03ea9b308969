package listings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/Avanquish/DoughNation-sub000/internal/inventory"
	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

const DefaultSweepInterval = time.Hour

// SweepAction is what the listing predicate demands for a single item.
type SweepAction int

const (
	SweepNone SweepAction = iota
	SweepCreate
	SweepRefresh
	SweepDelete
)

// DecideSweep applies the listing existence predicate: a listing exists iff
// quantity > 0, status is not donated, the item has not expired, and today is
// on or past expiration minus threshold days. The trigger comparison is
// inclusive, so threshold 0 lists an item on the expiration day itself.
func DecideSweep(item *models.InventoryItem, hasListing bool, today time.Time) SweepAction {
	if item.Quantity <= 0 || item.Status == models.InventoryDonated || item.Expired(today) {
		if hasListing {
			return SweepDelete
		}
		return SweepNone
	}

	if hasListing {
		return SweepRefresh
	}

	trigger, ok := item.TriggerDate()
	if !ok {
		// No expiration date means no trigger window; the item never lists.
		return SweepNone
	}

	if !models.DateOnly(today).Before(trigger) {
		return SweepCreate
	}

	return SweepNone
}

// Scheduler derives listing existence from inventory state. It runs as a
// periodic sweep and is also invoked synchronously, inside the mutating
// transaction, after every operation that can change the predicate.
type Scheduler struct {
	tx       repository.TxRunner
	lr       ListingRepository
	ir       inventory.InventoryRepository
	interval time.Duration
	log      *zap.Logger

	mu sync.Mutex
}

func NewScheduler(tx repository.TxRunner, lr ListingRepository, ir inventory.InventoryRepository, interval time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &Scheduler{
		tx:       tx,
		lr:       lr,
		ir:       ir,
		interval: interval,
		log:      log,
	}
}

// Start launches the periodic sweep until the context is canceled. The first
// sweep runs immediately so restarts converge without waiting a full interval.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.SweepAll()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepAll()
			}
		}
	}()
}

// SweepAll walks every inventory item in its own transaction. Overlapping runs
// are skipped; a failure on one item is logged and does not abort the rest.
func (s *Scheduler) SweepAll() {
	if !s.mu.TryLock() {
		s.log.Warn("listing sweep already running, skipping overlapping run")
		return
	}
	defer s.mu.Unlock()

	ids, err := s.lr.GetInventoryIDs()
	if err != nil {
		s.log.Error("listing sweep failed to enumerate inventory", zap.Error(err))
		return
	}

	swept := 0
	for _, id := range ids {
		err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
			return s.SweepItemTx(tx, id)
		})
		if err != nil {
			s.log.Error("listing sweep failed for item", zap.Int("item_id", id), zap.Error(err))
			continue
		}
		swept++
	}

	s.log.Info("listing sweep finished", zap.Int("items", swept), zap.Int("total", len(ids)))
}

// SweepItemTx re-evaluates the predicate for one item inside an existing
// transaction. Items deleted mid-sweep are skipped; their listings go away
// with the owning row.
func (s *Scheduler) SweepItemTx(tx *goqu.TxDatabase, itemID int) error {
	item, err := s.ir.GetItemTx(tx, itemID)
	if err != nil {
		if errors.Is(err, custom_error.ErrItemNotFound) {
			return nil
		}
		return err
	}

	listing, err := s.lr.GetListingByInventory(tx, itemID)
	if err != nil {
		return err
	}

	switch DecideSweep(item, listing != nil, time.Now()) {
	case SweepCreate:
		return s.lr.InsertListing(tx, item)
	case SweepRefresh:
		return s.lr.RefreshListing(tx, item)
	case SweepDelete:
		return s.lr.DeleteListingByInventory(tx, itemID)
	default:
		return nil
	}
}
