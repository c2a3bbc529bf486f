package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/grocery-pos/internal/catalog"
)

type Service interface {
	SetStock(ctx context.Context, productID int64, quantity int) error
	List(ctx context.Context) ([]Item, error)
	LowStock(ctx context.Context, threshold int) ([]LowStockItem, error)
	DefaultThreshold() int
}

type service struct {
	repo      Repository
	threshold int
}

func NewService(repo Repository, lowStockThreshold int) Service {
	return &service{repo: repo, threshold: lowStockThreshold}
}

func (s *service) DefaultThreshold() int {
	return s.threshold
}

// SetStock overwrites the stock of a product, used for restocking.
func (s *service) SetStock(ctx context.Context, productID int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	err := s.repo.SetStock(ctx, productID, quantity)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			log.Warn().Err(err).Int64("product_id", productID).Msg("service: stock update for unknown product")
			return err
		}
		log.Error().Err(err).Int64("product_id", productID).Msg("service: failed to set stock")
		return fmt.Errorf("service: failed to set stock of product %d: %w", productID, err)
	}

	log.Info().Int64("product_id", productID).Int("quantity", quantity).Msg("service: stock updated")
	return nil
}

func (s *service) List(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list inventory")
		return nil, fmt.Errorf("service: failed to list inventory: %w", err)
	}
	return items, nil
}

func (s *service) LowStock(ctx context.Context, threshold int) ([]LowStockItem, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold got %d", ErrInvalidQuantity, threshold)
	}

	items, err := s.repo.LowStock(ctx, threshold)
	if err != nil {
		log.Error().Err(err).Int("threshold", threshold).Msg("service: failed to list low stock")
		return nil, fmt.Errorf("service: failed to list low stock: %w", err)
	}
	return items, nil
}
