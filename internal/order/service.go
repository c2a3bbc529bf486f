package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// EventPublisher is notified after an order has been committed.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, p *Placement) error
}

// publishTimeout bounds the post-commit publish. It runs detached from the
// request so a client disconnect does not cancel it.
const publishTimeout = 5 * time.Second

type Service interface {
	PlaceOrder(ctx context.Context, customerID int64, items []LineRequest) (*Placement, error)
	GetOrderByID(ctx context.Context, id int64) (*Order, error)
	ListOrders(ctx context.Context) ([]Summary, error)
	CustomerHistory(ctx context.Context, customerID int64) ([]HistoryEntry, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type service struct {
	orderRepo Repository
	cache     Cache
	publisher EventPublisher
}

// NewService wires the order service. cache and publisher may be nil.
func NewService(orderRepo Repository, cache Cache, publisher EventPublisher) Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &service{
		orderRepo: orderRepo,
		cache:     cache,
		publisher: publisher,
	}
}

func validatePlacement(customerID int64, items []LineRequest) error {
	if customerID <= 0 {
		return fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}

	if len(items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", ErrInvalidInput)
	}

	for i, item := range items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: item %d has no product id", ErrInvalidInput, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for product %d must be greater than zero, got %d", ErrInvalidInput, item.ProductID, item.Quantity)
		}
	}

	return nil
}

// PlaceOrder validates the request and places the order atomically. It is
// not idempotent: every successful call creates a new order.
func (s *service) PlaceOrder(ctx context.Context, customerID int64, items []LineRequest) (*Placement, error) {
	if err := validatePlacement(customerID, items); err != nil {
		log.Warn().Err(err).Int64("customer_id", customerID).Msg("service: rejected order input")
		return nil, err
	}

	placement, err := s.orderRepo.Place(ctx, customerID, items)
	if err != nil {
		var productErr *ProductError
		switch {
		case errors.As(err, &productErr):
			log.Warn().Err(err).
				Int64("customer_id", customerID).
				Int64("product_id", productErr.ProductID).
				Msg("service: order rejected")
			return nil, err
		case errors.Is(err, ErrCustomerNotFound):
			log.Warn().Err(err).Int64("customer_id", customerID).Msg("service: order for unknown customer")
			return nil, err
		}

		log.Error().Err(err).Int64("customer_id", customerID).Msg("service: failed to place order in repository")
		if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return nil, fmt.Errorf("service: failed to place order: %w", err)
	}

	log.Info().
		Int64("order_id", placement.OrderID).
		Int64("customer_id", customerID).
		Str("total_amount", placement.TotalAmount.StringFixed(2)).
		Int("items", len(placement.Items)).
		Msg("service: order placed")

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := s.publisher.OrderPlaced(pubCtx, placement); err != nil {
			log.Error().Err(err).Int64("order_id", placement.OrderID).Msg("service: failed to publish order placed event")
		}
	}

	return placement, nil
}

func (s *service) GetOrderByID(ctx context.Context, id int64) (*Order, error) {
	if o, ok := s.cache.Get(ctx, id); ok {
		return o, nil
	}

	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Int64("order_id", id).Msg("service: order not found by id")
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to fetch order by id in repository")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}

	s.cache.Set(ctx, o)
	return o, nil
}

func (s *service) ListOrders(ctx context.Context) ([]Summary, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders in repository")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}

	return orders, nil
}

func (s *service) CustomerHistory(ctx context.Context, customerID int64) ([]HistoryEntry, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}

	history, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		log.Error().Err(err).Int64("customer_id", customerID).Msg("service: failed to fetch customer orders in repository")
		return nil, fmt.Errorf("service: failed to fetch customer orders: %w", err)
	}

	return history, nil
}

func (s *service) DeleteOrder(ctx context.Context, id int64) error {
	err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Int64("order_id", id).Msg("service: order not found, cannot delete")
			return ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to delete order in repository")
		return fmt.Errorf("service: failed to delete order: %w", err)
	}

	s.cache.Delete(ctx, id)
	log.Info().Int64("order_id", id).Msg("service: order deleted")
	return nil
}
