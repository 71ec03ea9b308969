package listings

import (
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

type fakeTxRunner struct {
	tx *goqu.TxDatabase
}

func (f *fakeTxRunner) WithTransaction(fn func(tx *goqu.TxDatabase) error) error {
	return fn(f.tx)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) GetListings(qb repository.QueryBuilder) ([]models.Listing, error) {
	args := m.Called(qb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingRepository) GetListing(id int) (*models.Listing, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) GetListingTx(tx *goqu.TxDatabase, id int) (*models.Listing, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) GetListingByInventory(tx *goqu.TxDatabase, inventoryID int) (*models.Listing, error) {
	args := m.Called(tx, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) InsertListing(tx *goqu.TxDatabase, item *models.InventoryItem) error {
	args := m.Called(tx, item)
	return args.Error(0)
}

func (m *MockListingRepository) RefreshListing(tx *goqu.TxDatabase, item *models.InventoryItem) error {
	args := m.Called(tx, item)
	return args.Error(0)
}

func (m *MockListingRepository) DeleteListingByInventory(tx *goqu.TxDatabase, inventoryID int) error {
	args := m.Called(tx, inventoryID)
	return args.Error(0)
}

func (m *MockListingRepository) GetInventoryIDs() ([]int, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) PersistItem(tx *goqu.TxDatabase, req models.InventoryItemRequest) (*models.InventoryItem, error) {
	args := m.Called(tx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) GetItem(id int) (*models.InventoryItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) GetItemTx(tx *goqu.TxDatabase, id int) (*models.InventoryItem, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) GetItemsByBakery(bakeryID int) ([]models.InventoryItem, error) {
	args := m.Called(bakeryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) UpdateItem(tx *goqu.TxDatabase, item *models.InventoryItem, req models.InventoryItemRequest) error {
	args := m.Called(tx, item, req)
	return args.Error(0)
}

func (m *MockInventoryRepository) DeleteItem(tx *goqu.TxDatabase, id int) error {
	args := m.Called(tx, id)
	return args.Error(0)
}

func (m *MockInventoryRepository) AdjustQuantity(tx *goqu.TxDatabase, item *models.InventoryItem, delta int) error {
	args := m.Called(tx, item, delta)
	return args.Error(0)
}

func (m *MockInventoryRepository) RecomputeStatus(tx *goqu.TxDatabase, itemID int) (models.InventoryStatus, error) {
	args := m.Called(tx, itemID)
	return args.Get(0).(models.InventoryStatus), args.Error(1)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDecideSweep(t *testing.T) {
	today := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		item       models.InventoryItem
		hasListing bool
		expected   SweepAction
	}{
		{
			name:     "inside trigger window, no listing",
			item:     models.InventoryItem{Quantity: 5, Threshold: 3, Status: models.InventoryAvailable, ExpirationDate: datePtr(2026, 9, 12)},
			expected: SweepCreate,
		},
		{
			name:     "before trigger window",
			item:     models.InventoryItem{Quantity: 5, Threshold: 3, Status: models.InventoryAvailable, ExpirationDate: datePtr(2026, 9, 20)},
			expected: SweepNone,
		},
		{
			name:     "threshold zero lists on the expiration day",
			item:     models.InventoryItem{Quantity: 5, Threshold: 0, Status: models.InventoryAvailable, ExpirationDate: datePtr(2026, 9, 10)},
			expected: SweepCreate,
		},
		{
			name:     "threshold zero, day before expiration",
			item:     models.InventoryItem{Quantity: 5, Threshold: 0, Status: models.InventoryAvailable, ExpirationDate: datePtr(2026, 9, 11)},
			expected: SweepNone,
		},
		{
			name:       "expired item loses its listing",
			item:       models.InventoryItem{Quantity: 5, Threshold: 3, Status: models.InventoryAvailable, ExpirationDate: datePtr(2026, 9, 9)},
			hasListing: true,
			expected:   SweepDelete,
		},
		{
			name:     "expired item without listing",
			item:     models.InventoryItem{Quantity: 5, Threshold: 3, Status: models.InventoryAvailable, ExpirationDate: datePtr(2026, 9, 9)},
			expected: SweepNone,
		},
		{
			name:       "consumed item loses its listing",
			item:       models.InventoryItem{Quantity: 0, Threshold: 3, Status: models.InventoryDonated, ExpirationDate: datePtr(2026, 9, 12)},
			hasListing: true,
			expected:   SweepDelete,
		},
		{
			name:       "donated status with stock left loses its listing",
			item:       models.InventoryItem{Quantity: 5, Threshold: 3, Status: models.InventoryDonated, ExpirationDate: datePtr(2026, 9, 12)},
			hasListing: true,
			expected:   SweepDelete,
		},
		{
			name:       "eligible item with listing is refreshed",
			item:       models.InventoryItem{Quantity: 5, Threshold: 3, Status: models.InventoryRequested, ExpirationDate: datePtr(2026, 9, 12)},
			hasListing: true,
			expected:   SweepRefresh,
		},
		{
			name:     "no expiration date never lists",
			item:     models.InventoryItem{Quantity: 5, Threshold: 3, Status: models.InventoryAvailable},
			expected: SweepNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecideSweep(&tt.item, tt.hasListing, today))
		})
	}
}

func TestSweepItemTx(t *testing.T) {
	tx := new(goqu.TxDatabase)

	t.Run("creates a listing when the predicate holds", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockInventory := new(MockInventoryRepository)
		scheduler := NewScheduler(&fakeTxRunner{tx: tx}, mockListings, mockInventory, 0, zap.NewNop())

		expiration := models.DateOnly(time.Now())
		item := &models.InventoryItem{ID: 7, Quantity: 4, Threshold: 2, Status: models.InventoryAvailable, ExpirationDate: &expiration}

		mockInventory.On("GetItemTx", tx, 7).Return(item, nil).Once()
		mockListings.On("GetListingByInventory", tx, 7).Return(nil, nil).Once()
		mockListings.On("InsertListing", tx, item).Return(nil).Once()

		assert.NoError(t, scheduler.SweepItemTx(tx, 7))
		mockListings.AssertExpectations(t)
		mockInventory.AssertExpectations(t)
	})

	t.Run("deletes the listing of an expired item", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockInventory := new(MockInventoryRepository)
		scheduler := NewScheduler(&fakeTxRunner{tx: tx}, mockListings, mockInventory, 0, zap.NewNop())

		expiration := models.DateOnly(time.Now()).AddDate(0, 0, -1)
		item := &models.InventoryItem{ID: 7, Quantity: 4, Threshold: 2, Status: models.InventoryAvailable, ExpirationDate: &expiration}

		mockInventory.On("GetItemTx", tx, 7).Return(item, nil).Once()
		mockListings.On("GetListingByInventory", tx, 7).Return(&models.Listing{ID: 3, InventoryID: 7}, nil).Once()
		mockListings.On("DeleteListingByInventory", tx, 7).Return(nil).Once()

		assert.NoError(t, scheduler.SweepItemTx(tx, 7))
		mockListings.AssertExpectations(t)
	})

	t.Run("refreshes an existing listing", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockInventory := new(MockInventoryRepository)
		scheduler := NewScheduler(&fakeTxRunner{tx: tx}, mockListings, mockInventory, 0, zap.NewNop())

		expiration := models.DateOnly(time.Now()).AddDate(0, 0, 1)
		item := &models.InventoryItem{ID: 7, Quantity: 4, Threshold: 5, Status: models.InventoryRequested, ExpirationDate: &expiration}

		mockInventory.On("GetItemTx", tx, 7).Return(item, nil).Once()
		mockListings.On("GetListingByInventory", tx, 7).Return(&models.Listing{ID: 3, InventoryID: 7}, nil).Once()
		mockListings.On("RefreshListing", tx, item).Return(nil).Once()

		assert.NoError(t, scheduler.SweepItemTx(tx, 7))
		mockListings.AssertExpectations(t)
	})

	t.Run("sweeping an unchanged item twice creates at most one listing", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockInventory := new(MockInventoryRepository)
		scheduler := NewScheduler(&fakeTxRunner{tx: tx}, mockListings, mockInventory, 0, zap.NewNop())

		expiration := models.DateOnly(time.Now())
		item := &models.InventoryItem{ID: 7, Quantity: 4, Threshold: 2, Status: models.InventoryAvailable, ExpirationDate: &expiration}

		mockInventory.On("GetItemTx", tx, 7).Return(item, nil).Twice()
		mockListings.On("GetListingByInventory", tx, 7).Return(nil, nil).Once()
		mockListings.On("InsertListing", tx, item).Return(nil).Once()

		assert.NoError(t, scheduler.SweepItemTx(tx, 7))

		// The second pass sees the listing the first one created.
		mockListings.On("GetListingByInventory", tx, 7).Return(&models.Listing{ID: 3, InventoryID: 7}, nil).Once()
		mockListings.On("RefreshListing", tx, item).Return(nil).Once()

		assert.NoError(t, scheduler.SweepItemTx(tx, 7))

		mockListings.AssertNumberOfCalls(t, "InsertListing", 1)
		mockListings.AssertNotCalled(t, "DeleteListingByInventory", mock.Anything, mock.Anything)
		mockListings.AssertExpectations(t)
	})

	t.Run("skips items deleted mid-sweep", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockInventory := new(MockInventoryRepository)
		scheduler := NewScheduler(&fakeTxRunner{tx: tx}, mockListings, mockInventory, 0, zap.NewNop())

		mockInventory.On("GetItemTx", tx, 7).Return(nil, custom_error.ErrItemNotFound).Once()

		assert.NoError(t, scheduler.SweepItemTx(tx, 7))
		mockListings.AssertNotCalled(t, "GetListingByInventory", mock.Anything, mock.Anything)
	})
}
