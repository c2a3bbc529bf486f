package supplier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateSupplier(ctx context.Context, s *Supplier) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	UpdateSupplier(ctx context.Context, s *Supplier) error
	DeleteSupplier(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateSupplier(ctx context.Context, sup *Supplier) (*Supplier, error) {
	if strings.TrimSpace(sup.Name) == "" {
		return nil, fmt.Errorf("%w: supplier name is required", ErrInvalidSupplier)
	}

	if err := s.repo.Create(ctx, sup); err != nil {
		log.Error().Err(err).Str("supplier_name", sup.Name).Msg("service: failed to create supplier")
		return nil, fmt.Errorf("service: failed to create supplier: %w", err)
	}

	return sup, nil
}

func (s *service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list suppliers")
		return nil, fmt.Errorf("service: failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *service) UpdateSupplier(ctx context.Context, sup *Supplier) error {
	if strings.TrimSpace(sup.Name) == "" {
		return fmt.Errorf("%w: supplier name is required", ErrInvalidSupplier)
	}

	if err := s.repo.Update(ctx, sup); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		log.Error().Err(err).Int64("supplier_id", sup.ID).Msg("service: failed to update supplier")
		return fmt.Errorf("service: failed to update supplier %d: %w", sup.ID, err)
	}
	return nil
}

func (s *service) DeleteSupplier(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInUse) {
			return err
		}
		log.Error().Err(err).Int64("supplier_id", id).Msg("service: failed to delete supplier")
		return fmt.Errorf("service: failed to delete supplier %d: %w", id, err)
	}
	return nil
}
