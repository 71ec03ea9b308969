package inventory

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Avanquish/DoughNation-sub000/pkg/auditlog"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

type MockAuditTrail struct {
	mock.Mock
}

func (m *MockAuditTrail) GetResourceLog(id int, resourceType string) ([]models.AuditLog, error) {
	args := m.Called(id, resourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

func setupTestContext(role string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", "1")
	c.Set("role", role)
	return c, w
}

func TestGetItemHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tx := new(goqu.TxDatabase)

	newHandler := func() (*InventoryHandler, *MockInventoryRepository, *MockAuditTrail) {
		mockRepo := new(MockInventoryRepository)
		mockTrail := new(MockAuditTrail)
		service := NewService(&fakeTxRunner{tx: tx}, mockRepo, new(MockSweeper), zap.NewNop())
		return NewHandler(service, auditlog.NewAuditLog(nil), mockTrail), mockRepo, mockTrail
	}

	t.Run("owner reads the recorded actions", func(t *testing.T) {
		handler, mockRepo, mockTrail := newHandler()

		mockRepo.On("GetItem", 7).Return(&models.InventoryItem{ID: 7, BakeryID: 1}, nil).Once()
		mockTrail.On("GetResourceLog", 7, "inventory_item").Return([]models.AuditLog{
			{ID: 1, ResourceID: 7, ResourceType: "inventory_item", Action: "create", CreatedAt: time.Now()},
			{ID: 2, ResourceID: 7, ResourceType: "inventory_item", Action: "accept", CreatedAt: time.Now()},
		}, nil).Once()

		c, w := setupTestContext("bakery")
		c.Request = httptest.NewRequest(http.MethodGet, "/inventory/7/history", nil)
		c.Params = gin.Params{{Key: "id", Value: "7"}}

		handler.GetItemHistory(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockTrail.AssertExpectations(t)
	})

	t.Run("item of another bakery is off limits", func(t *testing.T) {
		handler, mockRepo, mockTrail := newHandler()

		mockRepo.On("GetItem", 7).Return(&models.InventoryItem{ID: 7, BakeryID: 2}, nil).Once()

		c, w := setupTestContext("bakery")
		c.Request = httptest.NewRequest(http.MethodGet, "/inventory/7/history", nil)
		c.Params = gin.Params{{Key: "id", Value: "7"}}

		handler.GetItemHistory(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockTrail.AssertNotCalled(t, "GetResourceLog", mock.Anything, mock.Anything)
	})

	t.Run("admin reads any item", func(t *testing.T) {
		handler, mockRepo, mockTrail := newHandler()

		mockRepo.On("GetItem", 7).Return(&models.InventoryItem{ID: 7, BakeryID: 2}, nil).Once()
		mockTrail.On("GetResourceLog", 7, "inventory_item").Return([]models.AuditLog{}, nil).Once()

		c, w := setupTestContext("admin")
		c.Request = httptest.NewRequest(http.MethodGet, "/inventory/7/history", nil)
		c.Params = gin.Params{{Key: "id", Value: "7"}}

		handler.GetItemHistory(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockTrail.AssertExpectations(t)
	})
}
