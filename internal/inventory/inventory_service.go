package inventory

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

// ListingSweeper re-evaluates the listing predicate for one item inside the
// caller's transaction. Satisfied by the listings scheduler.
type ListingSweeper interface {
	SweepItemTx(tx *goqu.TxDatabase, itemID int) error
}

type InventoryService struct {
	tx      repository.TxRunner
	repo    InventoryRepository
	sweeper ListingSweeper
	log     *zap.Logger
}

func NewService(tx repository.TxRunner, repo InventoryRepository, sweeper ListingSweeper, log *zap.Logger) *InventoryService {
	return &InventoryService{
		tx:      tx,
		repo:    repo,
		sweeper: sweeper,
		log:     log,
	}
}

// CreateItem stores a new batch and immediately evaluates the listing
// predicate, so an item created inside its threshold window is listed without
// waiting for the next periodic sweep.
func (s *InventoryService) CreateItem(req models.InventoryItemRequest) (*models.InventoryItem, error) {
	if req.Quantity < 0 {
		return nil, custom_error.ErrInsufficientStock
	}

	var item *models.InventoryItem

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		if item, err = s.repo.PersistItem(tx, req); err != nil {
			return err
		}

		return s.sweeper.SweepItemTx(tx, item.ID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("inventory item created",
		zap.Int("item_id", item.ID),
		zap.Int("bakery_id", item.BakeryID),
		zap.Int("quantity", item.Quantity))

	return item, nil
}

func (s *InventoryService) UpdateItem(itemID int, req models.InventoryItemRequest) (*models.InventoryItem, error) {
	if req.Quantity < 0 {
		return nil, custom_error.ErrInsufficientStock
	}

	var item *models.InventoryItem

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		if item, err = s.repo.GetItemTx(tx, itemID); err != nil {
			return err
		}

		if err = s.repo.UpdateItem(tx, item, req); err != nil {
			return err
		}

		if item.Status, err = s.repo.RecomputeStatus(tx, itemID); err != nil {
			return err
		}

		return s.sweeper.SweepItemTx(tx, itemID)
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *InventoryService) DeleteItem(itemID int) error {
	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		return s.repo.DeleteItem(tx, itemID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	s.log.Info("inventory item deleted", zap.Int("item_id", itemID))
	return nil
}

func (s *InventoryService) GetItem(itemID int) (*models.InventoryItem, error) {
	return s.repo.GetItem(itemID)
}

func (s *InventoryService) GetItemsByBakery(bakeryID int) ([]models.InventoryItem, error) {
	return s.repo.GetItemsByBakery(bakeryID)
}
