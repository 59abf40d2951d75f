package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/internal/orders"
	"github.com/mpoberly/storefront-backend/internal/shipping"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/enums"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type instrumentResolver interface {
	ResolveInstrument(ctx context.Context, customerID, paymentMethodID uuid.UUID) (*models.PaymentMethod, error)
}

// Service applies checkout patch documents to a draft order and builds
// the checkout summary returned by every checkout read or write.
type Service interface {
	Patch(ctx context.Context, orderID uuid.UUID, input PatchInput) (*Summary, error)
	Show(ctx context.Context, orderID uuid.UUID) (*Summary, error)
}

// PatchInput is the sparse checkout patch document. Nil fields are left
// untouched; present fields are applied in a fixed order regardless of
// their order in the request body.
type PatchInput struct {
	Email               *string        `json:"email"`
	ShippingInformation *types.Address `json:"shippingInformation"`
	ShippingMethod      *string        `json:"shippingMethod"`
	BillingInformation  *types.Address `json:"billingInformation"`
	PaymentInstrument   *uuid.UUID     `json:"paymentInstrument"`
}

// Empty reports whether the patch touches nothing.
func (p PatchInput) Empty() bool {
	return p.Email == nil && p.ShippingInformation == nil && p.ShippingMethod == nil &&
		p.BillingInformation == nil && p.PaymentInstrument == nil
}

type service struct {
	ordersRepo *orders.Repository
	shipping   shipping.Service
	payments   instrumentResolver
	validate   *validator.Validate
	tx         txRunner
}

// NewService builds the checkout orchestrator.
func NewService(ordersRepo *orders.Repository, shippingSvc shipping.Service, paymentsSvc instrumentResolver, tx txRunner) (Service, error) {
	if ordersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if shippingSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shipping service required")
	}
	if paymentsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments service required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		ordersRepo: ordersRepo,
		shipping:   shippingSvc,
		payments:   paymentsSvc,
		validate:   validator.New(),
		tx:         tx,
	}, nil
}

// Patch applies the present fields in fixed order: email, then
// shippingInformation (which repacks shipments), then shippingMethod,
// then billingInformation, then paymentInstrument. Every present field
// is validated before the first write, so a 422 leaves the order
// untouched.
func (s *service) Patch(ctx context.Context, orderID uuid.UUID, input PatchInput) (*Summary, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.loadDraft(ctx, s.ordersRepo, orderID)
	if err != nil {
		return nil, err
	}

	email, instrumentID, err := s.vetPatch(ctx, order, input)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := s.applyEmail(ctx, orderID, email); err != nil {
			return nil, err
		}
	}
	if input.ShippingInformation != nil {
		if _, err := s.shipping.Repack(ctx, orderID, *input.ShippingInformation); err != nil {
			return nil, err
		}
	}
	if input.ShippingMethod != nil {
		if _, err := s.shipping.ApplyRate(ctx, orderID, *input.ShippingMethod); err != nil {
			return nil, err
		}
	}
	if input.BillingInformation != nil {
		if err := s.applyBilling(ctx, orderID, *input.BillingInformation); err != nil {
			return nil, err
		}
	}
	if input.PaymentInstrument != nil {
		if err := s.applyInstrument(ctx, orderID, instrumentID); err != nil {
			return nil, err
		}
	}

	return s.Show(ctx, orderID)
}

// vetPatch validates every present field against the loaded order before
// anything is written. It returns the normalized email and the resolved
// instrument id for the apply phase.
func (s *service) vetPatch(ctx context.Context, order *models.Order, input PatchInput) (string, uuid.UUID, error) {
	var email string
	if input.Email != nil {
		email = strings.TrimSpace(*input.Email)
		if err := s.validate.Var(email, "required,email"); err != nil {
			return "", uuid.Nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "The email address is not valid.").
				WithPointer("email")
		}
	}
	if input.ShippingInformation != nil {
		if err := validateAddress(*input.ShippingInformation, "shippingInformation"); err != nil {
			return "", uuid.Nil, err
		}
	}
	if input.ShippingMethod != nil {
		if _, _, err := s.shipping.ResolveOption(ctx, *input.ShippingMethod); err != nil {
			return "", uuid.Nil, err
		}
		// A shipping address in the same patch creates the shipments the
		// rate will attach to; without one they must already exist.
		if input.ShippingInformation == nil && len(order.Shipments) == 0 {
			return "", uuid.Nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "The order has no shipments yet. Please provide a shipping address first.").
				WithPointer("shippingMethod")
		}
	}
	if input.BillingInformation != nil {
		if err := validateAddress(*input.BillingInformation, "billingInformation"); err != nil {
			return "", uuid.Nil, err
		}
	}
	var instrumentID uuid.UUID
	if input.PaymentInstrument != nil {
		method, err := s.payments.ResolveInstrument(ctx, order.CustomerID, *input.PaymentInstrument)
		if err != nil {
			return "", uuid.Nil, err
		}
		instrumentID = method.ID
	}
	return email, instrumentID, nil
}

// Show loads the order and assembles the checkout summary. Unlike Patch
// it works on any order state so placed orders stay readable.
func (s *service) Show(ctx context.Context, orderID uuid.UUID) (*Summary, error) {
	order, err := s.ordersRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return &Summary{
		Order:       order,
		Projection:  Project(order),
		Constraints: BuildRequiredFieldReport(ctx, s.ordersRepo, order),
	}, nil
}

func (s *service) applyEmail(ctx context.Context, orderID uuid.UUID, email string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		order, err := s.loadDraft(ctx, repo, orderID)
		if err != nil {
			return err
		}
		order.Email = &email
		return repo.Save(ctx, order, "email")
	})
}

func (s *service) applyBilling(ctx context.Context, orderID uuid.UUID, address types.Address) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		order, err := s.loadDraft(ctx, repo, orderID)
		if err != nil {
			return err
		}

		profile := order.BillingProfile
		if profile == nil {
			profile = &models.Profile{Kind: enums.ProfileKindBilling, Address: address}
		} else {
			profile.Address = address
		}
		if err := repo.SaveProfile(ctx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist billing profile")
		}
		order.BillingProfileID = &profile.ID
		order.BillingProfile = profile

		return repo.Save(ctx, order, "billingInformation")
	})
}

func (s *service) applyInstrument(ctx context.Context, orderID, instrumentID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		order, err := s.loadDraft(ctx, repo, orderID)
		if err != nil {
			return err
		}
		order.PaymentMethodID = &instrumentID
		return repo.Save(ctx, order, "paymentInstrument")
	})
}

func validateAddress(address types.Address, pointer string) error {
	if address.Empty() {
		return pkgerrors.New(pkgerrors.CodeUnprocessable, "The address is empty.").
			WithPointer(pointer)
	}
	if strings.TrimSpace(address.CountryCode) == "" {
		return pkgerrors.New(pkgerrors.CodeUnprocessable, "The address country code is required.").
			WithPointer(pointer + ".country_code")
	}
	if strings.TrimSpace(address.PostalCode) == "" {
		return pkgerrors.New(pkgerrors.CodeUnprocessable, "The address postal code is required.").
			WithPointer(pointer + ".postal_code")
	}
	return nil
}

func (s *service) loadDraft(ctx context.Context, repo *orders.Repository, orderID uuid.UUID) (*models.Order, error) {
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
