package listings

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

type ListingRepository interface {
	GetListings(qb repository.QueryBuilder) ([]models.Listing, error)
	GetListing(id int) (*models.Listing, error)
	GetListingTx(tx *goqu.TxDatabase, id int) (*models.Listing, error)
	GetListingByInventory(tx *goqu.TxDatabase, inventoryID int) (*models.Listing, error)
	InsertListing(tx *goqu.TxDatabase, item *models.InventoryItem) error
	RefreshListing(tx *goqu.TxDatabase, item *models.InventoryItem) error
	DeleteListingByInventory(tx *goqu.TxDatabase, inventoryID int) error
	GetInventoryIDs() ([]int, error)
}

type listingRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) *listingRepository {
	return &listingRepository{repo: r}
}

var listingColumns = []interface{}{
	"id", "inventory_id", "bakery_id", "name", "quantity", "threshold", "expiration_date", "created_at",
}

var listingFilterAliases = map[string]string{
	"bakery": "bakery_id",
}

func (r *listingRepository) GetListings(qb repository.QueryBuilder) ([]models.Listing, error) {
	var listings []models.Listing

	query := r.repo.GoquDBWrapper.
		From("listings").
		Select(listingColumns...)

	if qb != nil && !qb.Empty() {
		query = query.Where(qb.BuildConditions(listingFilterAliases))
	}

	err := query.
		Order(goqu.I("expiration_date").Asc()).
		Executor().ScanStructs(&listings)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return listings, nil
}

func (r *listingRepository) GetListing(id int) (*models.Listing, error) {
	var listing models.Listing

	found, err := r.repo.GoquDBWrapper.
		From("listings").
		Select(listingColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&listing)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.ErrListingNotFound
	}

	return &listing, nil
}

func (r *listingRepository) GetListingTx(tx *goqu.TxDatabase, id int) (*models.Listing, error) {
	var listing models.Listing

	found, err := tx.
		From("listings").
		Select(listingColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&listing)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.ErrListingNotFound
	}

	return &listing, nil
}

// GetListingByInventory returns nil without error when the item has no
// listing; the scheduler treats absence as a normal state.
func (r *listingRepository) GetListingByInventory(tx *goqu.TxDatabase, inventoryID int) (*models.Listing, error) {
	var listing models.Listing

	found, err := tx.
		From("listings").
		Select(listingColumns...).
		Where(goqu.Ex{"inventory_id": inventoryID}).
		Executor().ScanStruct(&listing)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &listing, nil
}

func (r *listingRepository) InsertListing(tx *goqu.TxDatabase, item *models.InventoryItem) error {
	query := tx.Insert("listings").
		Rows(goqu.Record{
			"inventory_id":    item.ID,
			"bakery_id":       item.BakeryID,
			"name":            item.Name,
			"quantity":        item.Quantity,
			"threshold":       item.Threshold,
			"expiration_date": item.ExpirationDate,
			"created_at":      time.Now().UTC(),
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert listing for item %d: %w", item.ID, err)
	}

	return nil
}

// RefreshListing re-syncs the denormalized copy from the inventory row;
// quantity may have changed without listing existence changing.
func (r *listingRepository) RefreshListing(tx *goqu.TxDatabase, item *models.InventoryItem) error {
	query := tx.Update("listings").
		Set(goqu.Record{
			"name":            item.Name,
			"quantity":        item.Quantity,
			"threshold":       item.Threshold,
			"expiration_date": item.ExpirationDate,
		}).
		Where(goqu.Ex{"inventory_id": item.ID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to refresh listing for item %d: %w", item.ID, err)
	}

	return nil
}

func (r *listingRepository) DeleteListingByInventory(tx *goqu.TxDatabase, inventoryID int) error {
	query := tx.Delete("listings").
		Where(goqu.Ex{"inventory_id": inventoryID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to delete listing for item %d: %w", inventoryID, err)
	}

	return nil
}

func (r *listingRepository) GetInventoryIDs() ([]int, error) {
	var ids []int

	err := r.repo.GoquDBWrapper.
		From("inventory_items").
		Select("id").
		Order(goqu.I("id").Asc()).
		Executor().ScanVals(&ids)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return ids, nil
}
