package coupons

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/internal/orders"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service applies and clears discount codes on a draft cart.
type Service interface {
	Apply(ctx context.Context, orderID uuid.UUID, code string) (*models.Order, error)
	Remove(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	ordersRepo *orders.Repository
	coupons    *Repository
	tx         txRunner
}

// NewService builds the coupon applier.
func NewService(ordersRepo *orders.Repository, coupons *Repository, tx txRunner) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{ordersRepo: ordersRepo, coupons: coupons, tx: tx}, nil
}

// Apply resolves the code and replaces the applied coupon list with it.
// Only one code is active at a time; applying a new one swaps the old
// one out.
func (s *service) Apply(ctx context.Context, orderID uuid.UUID, code string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "A coupon code is required.").
			WithPointer("coupons")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		order, err := loadDraft(ctx, repo, orderID)
		if err != nil {
			return err
		}

		coupon, err := s.coupons.WithTx(tx).FindEnabledByCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeUnprocessable, fmt.Sprintf("The coupon code %q is not valid.", code)).
					WithPointer("coupons")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
		}

		if err := repo.ReplaceCoupons(ctx, order, []models.Coupon{*coupon}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace coupons")
		}
		return repo.Save(ctx, order, "coupons")
	}); err != nil {
		return nil, err
	}

	return s.ordersRepo.FindByID(ctx, orderID)
}

// Remove clears every applied coupon unconditionally.
func (s *service) Remove(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		order, err := loadDraft(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if err := repo.ReplaceCoupons(ctx, order, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear coupons")
		}
		return repo.Save(ctx, order)
	}); err != nil {
		return nil, err
	}

	return s.ordersRepo.FindByID(ctx, orderID)
}

func loadDraft(ctx context.Context, repo *orders.Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !order.IsDraft() {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "The order is no longer editable.").
			WithPointer("state")
	}
	return order, nil
}
