package inventory

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

type InventoryRepository interface {
	PersistItem(tx *goqu.TxDatabase, req models.InventoryItemRequest) (*models.InventoryItem, error)
	GetItem(id int) (*models.InventoryItem, error)
	GetItemTx(tx *goqu.TxDatabase, id int) (*models.InventoryItem, error)
	GetItemsByBakery(bakeryID int) ([]models.InventoryItem, error)
	UpdateItem(tx *goqu.TxDatabase, item *models.InventoryItem, req models.InventoryItemRequest) error
	DeleteItem(tx *goqu.TxDatabase, id int) error
	AdjustQuantity(tx *goqu.TxDatabase, item *models.InventoryItem, delta int) error
	RecomputeStatus(tx *goqu.TxDatabase, itemID int) (models.InventoryStatus, error)
}

type inventoryRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) *inventoryRepository {
	return &inventoryRepository{repo: r}
}

var itemColumns = []interface{}{
	"id", "bakery_id", "name", "quantity", "threshold", "status", "version", "creation_date", "expiration_date",
}

func (r *inventoryRepository) PersistItem(tx *goqu.TxDatabase, req models.InventoryItemRequest) (*models.InventoryItem, error) {
	item := models.InventoryItem{
		BakeryID:       req.BakeryID,
		Name:           req.Name,
		Quantity:       req.Quantity,
		Threshold:      req.Threshold,
		Status:         models.DeriveInventoryStatus(req.Quantity, false, false, false),
		Version:        1,
		CreationDate:   time.Now().UTC(),
		ExpirationDate: req.ExpirationDate,
	}

	query := tx.Insert("inventory_items").
		Rows(goqu.Record{
			"bakery_id":       item.BakeryID,
			"name":            item.Name,
			"quantity":        item.Quantity,
			"threshold":       item.Threshold,
			"status":          item.Status,
			"version":         item.Version,
			"creation_date":   item.CreationDate,
			"expiration_date": item.ExpirationDate,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&item.ID); err != nil {
		return nil, fmt.Errorf("failed to insert inventory item: %w", err)
	}

	return &item, nil
}

func (r *inventoryRepository) GetItem(id int) (*models.InventoryItem, error) {
	var item models.InventoryItem

	found, err := r.repo.GoquDBWrapper.
		From("inventory_items").
		Select(itemColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.ErrItemNotFound
	}

	return &item, nil
}

func (r *inventoryRepository) GetItemTx(tx *goqu.TxDatabase, id int) (*models.InventoryItem, error) {
	var item models.InventoryItem

	found, err := tx.
		From("inventory_items").
		Select(itemColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.ErrItemNotFound
	}

	return &item, nil
}

func (r *inventoryRepository) GetItemsByBakery(bakeryID int) ([]models.InventoryItem, error) {
	var items []models.InventoryItem

	err := r.repo.GoquDBWrapper.
		From("inventory_items").
		Select(itemColumns...).
		Where(goqu.Ex{"bakery_id": bakeryID}).
		Order(goqu.I("creation_date").Desc()).
		Executor().ScanStructs(&items)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return items, nil
}

func (r *inventoryRepository) UpdateItem(tx *goqu.TxDatabase, item *models.InventoryItem, req models.InventoryItemRequest) error {
	result, err := tx.Update("inventory_items").
		Set(goqu.Record{
			"name":            req.Name,
			"quantity":        req.Quantity,
			"threshold":       req.Threshold,
			"expiration_date": req.ExpirationDate,
			"version":         goqu.L("version + 1"),
		}).
		Where(goqu.Ex{"id": item.ID, "version": item.Version}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update inventory item %d: %w", item.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for item %d: %w", item.ID, err)
	}
	if affected == 0 {
		return custom_error.ErrVersionConflict
	}

	item.Name = req.Name
	item.Quantity = req.Quantity
	item.Threshold = req.Threshold
	item.ExpirationDate = req.ExpirationDate
	item.Version++

	return nil
}

func (r *inventoryRepository) DeleteItem(tx *goqu.TxDatabase, id int) error {
	result, err := tx.Delete("inventory_items").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError(fmt.Sprintf("(inventory item %d has donation records)", id), string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete inventory item %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for item %d: %w", id, err)
	}
	if affected == 0 {
		return custom_error.ErrItemNotFound
	}

	return nil
}

// AdjustQuantity applies a delta to the live counter under an optimistic
// version check. A zero-row update means another accept or allocation moved
// the version between our read and this write.
func (r *inventoryRepository) AdjustQuantity(tx *goqu.TxDatabase, item *models.InventoryItem, delta int) error {
	if item.Quantity+delta < 0 {
		return custom_error.ErrInsufficientStock
	}

	result, err := tx.Update("inventory_items").
		Set(goqu.Record{
			"quantity": goqu.L("quantity + ?", delta),
			"version":  goqu.L("version + 1"),
		}).
		Where(goqu.Ex{"id": item.ID, "version": item.Version}).
		Where(goqu.L("quantity + ? >= 0", delta)).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to adjust quantity for item %d: %w", item.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for item %d: %w", item.ID, err)
	}
	if affected == 0 {
		return custom_error.ErrVersionConflict
	}

	item.Quantity += delta
	item.Version++

	return nil
}

// RecomputeStatus is the sole writer of inventory status. It projects the
// current quantity, request statuses and expiry onto the status column and
// must run after every ledger or allocator mutation in the same transaction.
func (r *inventoryRepository) RecomputeStatus(tx *goqu.TxDatabase, itemID int) (models.InventoryStatus, error) {
	item, err := r.GetItemTx(tx, itemID)
	if err != nil {
		return "", err
	}

	accepted, err := countRequests(tx, itemID, models.RequestAccepted)
	if err != nil {
		return "", err
	}
	pending, err := countRequests(tx, itemID, models.RequestPending)
	if err != nil {
		return "", err
	}

	status := models.DeriveInventoryStatus(item.Quantity, accepted > 0, pending > 0, item.Expired(time.Now()))
	if status == item.Status {
		return status, nil
	}

	if _, err := tx.Update("inventory_items").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"id": itemID}).
		Executor().Exec(); err != nil {
		return "", fmt.Errorf("failed to update status for item %d: %w", itemID, err)
	}

	return status, nil
}

func countRequests(tx *goqu.TxDatabase, itemID int, status models.RequestStatus) (int64, error) {
	var count int64

	_, err := tx.From("donation_requests").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"inventory_id": itemID, "status": status}).
		Executor().ScanVal(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s requests for item %d: %w", status, itemID, err)
	}

	return count, nil
}
