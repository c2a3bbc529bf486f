package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	RecordPayment(ctx context.Context, p *Payment) (*Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]Payment, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RecordPayment(ctx context.Context, p *Payment) (*Payment, error) {
	if p.OrderID <= 0 {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidPayment)
	}
	if p.Method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrInvalidPayment)
	}
	if !p.AmountPaid.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidPayment, p.AmountPaid)
	}
	if p.Status == "" {
		p.Status = StatusCompleted
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Int64("order_id", p.OrderID).Msg("service: payment for unknown order")
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", p.OrderID).Msg("service: failed to record payment")
		return nil, fmt.Errorf("service: failed to record payment: %w", err)
	}

	log.Info().Int64("payment_id", p.ID).Int64("order_id", p.OrderID).Str("status", p.Status).Msg("service: payment recorded")
	return p, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID int64) ([]Payment, error) {
	payments, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Int64("order_id", orderID).Msg("service: failed to list payments")
		return nil, fmt.Errorf("service: failed to list payments: %w", err)
	}

	return payments, nil
}
