package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateCustomer(ctx context.Context, c *Customer) (*Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCustomer(ctx context.Context, c *Customer) (*Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalidCustomer)
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to create customer in repository")
		return nil, fmt.Errorf("service: failed to save customer: %w", err)
	}

	c.ID = id
	return c, nil
}

func (s *service) GetCustomerByID(ctx context.Context, id int64) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Int64("customer_id", id).Msg("service: failed to get customer by id in repository")
		return nil, fmt.Errorf("failed to get customer by id '%d': %w", id, err)
	}

	return c, nil
}

func (s *service) ListCustomers(ctx context.Context) ([]Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list customers in repository")
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

func (s *service) UpdateCustomer(ctx context.Context, c *Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidCustomer)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Int64("customer_id", c.ID).Msg("service: failed to update customer")
		return fmt.Errorf("failed to update customer by id '%d': %w", c.ID, err)
	}

	return nil
}

func (s *service) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Int64("customer_id", id).Msg("service: failed to delete customer")
		return fmt.Errorf("failed to delete customer by id '%d': %w", id, err)
	}

	return nil
}
