package inventory

import (
	"net/http"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	custom_error "github.com/Avanquish/DoughNation-sub000/pkg/errors"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

type fakeTxRunner struct {
	tx *goqu.TxDatabase
}

func (f *fakeTxRunner) WithTransaction(fn func(tx *goqu.TxDatabase) error) error {
	return fn(f.tx)
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

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) SweepItemTx(tx *goqu.TxDatabase, itemID int) error {
	args := m.Called(tx, itemID)
	return args.Error(0)
}

func TestCreateItem(t *testing.T) {
	tx := new(goqu.TxDatabase)

	t.Run("persists and sweeps inside one transaction", func(t *testing.T) {
		mockRepo := new(MockInventoryRepository)
		mockSweeper := new(MockSweeper)
		service := NewService(&fakeTxRunner{tx: tx}, mockRepo, mockSweeper, zap.NewNop())

		expiration := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
		req := models.InventoryItemRequest{BakeryID: 20, Name: "baguette", Quantity: 12, Threshold: 2, ExpirationDate: &expiration}
		item := &models.InventoryItem{ID: 5, BakeryID: 20, Name: "baguette", Quantity: 12, Threshold: 2, Status: models.InventoryAvailable, ExpirationDate: &expiration}

		mockRepo.On("PersistItem", tx, req).Return(item, nil).Once()
		mockSweeper.On("SweepItemTx", tx, 5).Return(nil).Once()

		created, err := service.CreateItem(req)

		assert.NoError(t, err)
		assert.Equal(t, 5, created.ID)
		mockRepo.AssertExpectations(t)
		mockSweeper.AssertExpectations(t)
	})

	t.Run("negative quantity is rejected", func(t *testing.T) {
		mockRepo := new(MockInventoryRepository)
		mockSweeper := new(MockSweeper)
		service := NewService(&fakeTxRunner{tx: tx}, mockRepo, mockSweeper, zap.NewNop())

		_, err := service.CreateItem(models.InventoryItemRequest{Name: "baguette", Quantity: -1})

		assert.ErrorIs(t, err, custom_error.ErrInsufficientStock)
		mockRepo.AssertNotCalled(t, "PersistItem", mock.Anything, mock.Anything)
	})
}

func TestUpdateItem(t *testing.T) {
	tx := new(goqu.TxDatabase)

	mockRepo := new(MockInventoryRepository)
	mockSweeper := new(MockSweeper)
	service := NewService(&fakeTxRunner{tx: tx}, mockRepo, mockSweeper, zap.NewNop())

	item := &models.InventoryItem{ID: 5, BakeryID: 20, Name: "baguette", Quantity: 12}
	req := models.InventoryItemRequest{Name: "baguette", Quantity: 0, Threshold: 2}

	mockRepo.On("GetItemTx", tx, 5).Return(item, nil).Once()
	mockRepo.On("UpdateItem", tx, item, req).Return(nil).Once()
	mockRepo.On("RecomputeStatus", tx, 5).Return(models.InventoryDonated, nil).Once()
	mockSweeper.On("SweepItemTx", tx, 5).Return(nil).Once()

	updated, err := service.UpdateItem(5, req)

	assert.NoError(t, err)
	// status is always the derived projection, never the caller's value
	assert.Equal(t, models.InventoryDonated, updated.Status)
	mockRepo.AssertExpectations(t)
	mockSweeper.AssertExpectations(t)
}

func TestDeleteItem(t *testing.T) {
	tx := new(goqu.TxDatabase)

	t.Run("deletes the item", func(t *testing.T) {
		mockRepo := new(MockInventoryRepository)
		mockSweeper := new(MockSweeper)
		service := NewService(&fakeTxRunner{tx: tx}, mockRepo, mockSweeper, zap.NewNop())

		mockRepo.On("DeleteItem", tx, 5).Return(nil).Once()

		assert.NoError(t, service.DeleteItem(5))
		mockRepo.AssertExpectations(t)
	})

	t.Run("item referenced by donation records surfaces as a conflict", func(t *testing.T) {
		mockRepo := new(MockInventoryRepository)
		mockSweeper := new(MockSweeper)
		service := NewService(&fakeTxRunner{tx: tx}, mockRepo, mockSweeper, zap.NewNop())

		mockRepo.On("DeleteItem", tx, 5).
			Return(custom_error.WrapDBError("(inventory item 5 has donation records)", "23503")).Once()

		err := service.DeleteItem(5)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, custom_error.HTTPStatus(err))
	})
}
