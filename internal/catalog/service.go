package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Service interface {
	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, filter Filter) ([]Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// maxPrice is the first value NUMERIC(12,2) cannot hold.
var maxPrice = decimal.New(1, 10)

func validate(p *Product, withStock bool) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative, got %s", ErrInvalidProduct, p.Price)
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return fmt.Errorf("%w: price must have at most 2 decimal places, got %s", ErrInvalidProduct, p.Price)
	}
	if p.Price.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: price must be below %s, got %s", ErrInvalidProduct, maxPrice, p.Price)
	}
	if withStock && p.StockQuantity < 0 {
		return fmt.Errorf("%w: stock quantity cannot be negative, got %d", ErrInvalidProduct, p.StockQuantity)
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	if err := validate(p, true); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, ErrInvalidProduct) {
			return nil, err
		}
		log.Error().Err(err).Str("product_name", p.Name).Msg("service: failed to create product")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	p.ID = id
	log.Info().Int64("product_id", id).Int("stock", p.StockQuantity).Msg("service: product created")

	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to fetch product")
		return nil, fmt.Errorf("service: failed to fetch product %d: %w", id, err)
	}

	return p, nil
}

func (s *service) ListProducts(ctx context.Context, filter Filter) ([]Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list products")
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	return products, nil
}

// UpdateProduct changes descriptive fields and price. Stock is left alone:
// it only moves through order placement and inventory restocking.
func (s *service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := validate(p, false); err != nil {
		return err
	}

	if err := s.repo.UpdateDetails(ctx, p); err != nil {
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInvalidProduct) {
			return err
		}
		log.Error().Err(err).Int64("product_id", p.ID).Msg("service: failed to update product")
		return fmt.Errorf("service: failed to update product %d: %w", p.ID, err)
	}

	return nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrProductInUse) {
			return err
		}
		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to delete product")
		return fmt.Errorf("service: failed to delete product %d: %w", id, err)
	}

	return nil
}
