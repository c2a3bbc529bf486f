package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/grocery-pos/internal/order"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Place(ctx context.Context, customerID int64, items []order.LineRequest) (*order.Placement, error) {
	args := m.Called(ctx, customerID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Placement), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context) ([]order.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Summary), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]order.HistoryEntry, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.HistoryEntry), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, id int64) (*order.Order, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*order.Order), args.Bool(1)
}

func (m *MockCache) Set(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

func (m *MockCache) Delete(ctx context.Context, id int64) {
	m.Called(ctx, id)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) OrderPlaced(ctx context.Context, p *order.Placement) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	svc := order.NewService(mockRepo, nil, mockPub)

	items := []order.LineRequest{{ProductID: 1, Quantity: 3}}
	placement := &order.Placement{
		OrderID:     42,
		CustomerID:  7,
		TotalAmount: decimal.RequireFromString("15.00"),
		OrderDate:   time.Now(),
		Items: []order.OrderItem{{
			ID: 1, OrderID: 42, ProductID: 1, Quantity: 3,
			UnitPrice: decimal.RequireFromString("5.00"),
			Subtotal:  decimal.RequireFromString("15.00"),
		}},
	}

	mockRepo.On("Place", mock.Anything, int64(7), items).Return(placement, nil).Once()
	mockPub.On("OrderPlaced", mock.Anything, placement).Return(nil).Once()

	got, err := svc.PlaceOrder(context.Background(), 7, items)
	require.NoError(t, err)
	assert.Equal(t, placement, got)
	assert.Equal(t, "15.00", got.TotalAmount.StringFixed(2))

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_PublishFailureDoesNotFail(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	svc := order.NewService(mockRepo, nil, mockPub)

	items := []order.LineRequest{{ProductID: 1, Quantity: 1}}
	placement := &order.Placement{OrderID: 1, CustomerID: 1, TotalAmount: decimal.NewFromInt(1)}

	mockRepo.On("Place", mock.Anything, int64(1), items).Return(placement, nil).Once()
	mockPub.On("OrderPlaced", mock.Anything, placement).Return(errors.New("broker down")).Once()

	got, err := svc.PlaceOrder(context.Background(), 1, items)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.OrderID)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_PublishOutlivesRequest(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	svc := order.NewService(mockRepo, nil, mockPub)

	items := []order.LineRequest{{ProductID: 1, Quantity: 1}}
	placement := &order.Placement{OrderID: 5, CustomerID: 1, TotalAmount: decimal.NewFromInt(1)}

	ctx, cancel := context.WithCancel(context.Background())
	mockRepo.On("Place", mock.Anything, int64(1), items).Run(func(mock.Arguments) {
		// the client goes away right after the commit
		cancel()
	}).Return(placement, nil).Once()
	mockPub.On("OrderPlaced", mock.MatchedBy(func(pubCtx context.Context) bool {
		deadline, ok := pubCtx.Deadline()
		return pubCtx.Err() == nil && ok && time.Until(deadline) <= 5*time.Second
	}), placement).Return(nil).Once()

	_, err := svc.PlaceOrder(ctx, 1, items)
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		customerID int64
		items      []order.LineRequest
	}{
		{name: "missing_customer", customerID: 0, items: []order.LineRequest{{ProductID: 1, Quantity: 1}}},
		{name: "no_items", customerID: 1, items: nil},
		{name: "empty_items", customerID: 1, items: []order.LineRequest{}},
		{name: "zero_quantity", customerID: 1, items: []order.LineRequest{{ProductID: 1, Quantity: 0}}},
		{name: "negative_quantity", customerID: 1, items: []order.LineRequest{{ProductID: 1, Quantity: -2}}},
		{name: "missing_product", customerID: 1, items: []order.LineRequest{{ProductID: 1, Quantity: 1}, {ProductID: 0, Quantity: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			mockPub := new(MockPublisher)
			svc := order.NewService(mockRepo, nil, mockPub)

			got, err := svc.PlaceOrder(context.Background(), tt.customerID, tt.items)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, order.ErrInvalidInput)

			mockRepo.AssertNotCalled(t, "Place", mock.Anything, mock.Anything, mock.Anything)
			mockPub.AssertNotCalled(t, "OrderPlaced", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_PlaceOrder_RepositoryErrors(t *testing.T) {
	tests := []struct {
		name          string
		repoErr       error
		wantErrIs     error
		wantProductID int64
	}{
		{
			name:          "insufficient_stock",
			repoErr:       &order.ProductError{ProductID: 2, Requested: 5, Available: 1, Err: order.ErrInsufficientStock},
			wantErrIs:     order.ErrInsufficientStock,
			wantProductID: 2,
		},
		{
			name:          "product_not_found",
			repoErr:       &order.ProductError{ProductID: 99, Err: order.ErrProductNotFound},
			wantErrIs:     order.ErrProductNotFound,
			wantProductID: 99,
		},
		{
			name:      "customer_not_found",
			repoErr:   order.ErrCustomerNotFound,
			wantErrIs: order.ErrCustomerNotFound,
		},
		{
			name:      "persistence",
			repoErr:   errors.New("connection reset"),
			wantErrIs: order.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			mockPub := new(MockPublisher)
			svc := order.NewService(mockRepo, nil, mockPub)

			items := []order.LineRequest{{ProductID: 1, Quantity: 1}}
			mockRepo.On("Place", mock.Anything, int64(1), items).Return(nil, tt.repoErr).Once()

			got, err := svc.PlaceOrder(context.Background(), 1, items)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErrIs)

			if tt.wantProductID != 0 {
				var productErr *order.ProductError
				require.ErrorAs(t, err, &productErr)
				assert.Equal(t, tt.wantProductID, productErr.ProductID)
			}

			mockRepo.AssertExpectations(t)
			mockPub.AssertNotCalled(t, "OrderPlaced", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_GetOrderByID(t *testing.T) {
	ctx := context.Background()
	stored := &order.Order{ID: 5, CustomerID: 1, TotalAmount: decimal.RequireFromString("9.99")}

	t.Run("cache_hit", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCache := new(MockCache)
		svc := order.NewService(mockRepo, mockCache, nil)

		mockCache.On("Get", mock.Anything, int64(5)).Return(stored, true).Once()

		got, err := svc.GetOrderByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, stored, got)

		mockCache.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("cache_miss_fills_cache", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCache := new(MockCache)
		svc := order.NewService(mockRepo, mockCache, nil)

		mockCache.On("Get", mock.Anything, int64(5)).Return(nil, false).Once()
		mockRepo.On("GetByID", mock.Anything, int64(5)).Return(stored, nil).Once()
		mockCache.On("Set", mock.Anything, stored).Once()

		got, err := svc.GetOrderByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, stored, got)

		mockCache.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not_found", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCache := new(MockCache)
		svc := order.NewService(mockRepo, mockCache, nil)

		mockCache.On("Get", mock.Anything, int64(6)).Return(nil, false).Once()
		mockRepo.On("GetByID", mock.Anything, int64(6)).Return(nil, order.ErrOrderNotFound).Once()

		got, err := svc.GetOrderByID(ctx, 6)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)

		mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	})
}

func TestOrderService_ListOrders(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := order.NewService(mockRepo, nil, nil)

	summaries := []order.Summary{{ID: 2, CustomerName: "Asha", Status: order.StatusPending}}
	mockRepo.On("List", mock.Anything).Return(summaries, nil).Once()

	got, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, summaries, got)

	dbErr := errors.New("db down")
	mockRepo.On("List", mock.Anything).Return(nil, dbErr).Once()

	_, err = svc.ListOrders(context.Background())
	assert.ErrorIs(t, err, dbErr)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_CustomerHistory(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := order.NewService(mockRepo, nil, nil)

	_, err := svc.CustomerHistory(context.Background(), 0)
	assert.ErrorIs(t, err, order.ErrInvalidInput)

	history := []order.HistoryEntry{{OrderID: 3, Status: "Completed", ItemCount: 2}}
	mockRepo.On("ListByCustomer", mock.Anything, int64(4)).Return(history, nil).Once()

	got, err := svc.CustomerHistory(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, history, got)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts_cache", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCache := new(MockCache)
		svc := order.NewService(mockRepo, mockCache, nil)

		mockRepo.On("Delete", mock.Anything, int64(9)).Return(nil).Once()
		mockCache.On("Delete", mock.Anything, int64(9)).Once()

		require.NoError(t, svc.DeleteOrder(ctx, 9))
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("not_found", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCache := new(MockCache)
		svc := order.NewService(mockRepo, mockCache, nil)

		mockRepo.On("Delete", mock.Anything, int64(9)).Return(order.ErrOrderNotFound).Once()

		err := svc.DeleteOrder(ctx, 9)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
		mockCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
