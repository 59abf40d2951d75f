package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/internal/orders"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/enums"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service orchestrates the shipping side of checkout: the shipping
// profile, shipment packing, and rate selection.
type Service interface {
	Repack(ctx context.Context, orderID uuid.UUID, address types.Address) (*models.Order, error)
	ApplyRate(ctx context.Context, orderID uuid.UUID, optionID string) (*models.Order, error)
	ResolveOption(ctx context.Context, optionID string) (*models.ShippingMethod, string, error)
	ListRateOptions(ctx context.Context, orderID uuid.UUID) ([]RateOption, error)
}

type service struct {
	ordersRepo         *orders.Repository
	shipments          *Repository
	packer             Packer
	defaultPackageType string
	tx                 txRunner
}

// NewService builds the shipping orchestrator.
func NewService(ordersRepo *orders.Repository, shipments *Repository, packer Packer, defaultPackageType string, tx txRunner) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if shipments == nil {
		return nil, fmt.Errorf("shipment repository required")
	}
	if packer == nil {
		packer = NewSingleShipmentPacker()
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		ordersRepo:         ordersRepo,
		shipments:          shipments,
		packer:             packer,
		defaultPackageType: defaultPackageType,
		tx:                 tx,
	}, nil
}

// Repack writes the shipping address and rebuilds the shipment set from
// scratch: the packer regroups every current line against the new
// address and stale shipments are deleted.
func (s *service) Repack(ctx context.Context, orderID uuid.UUID, address types.Address) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		order, err := loadDraft(ctx, repo, orderID)
		if err != nil {
			return err
		}

		profile := order.ShippingProfile
		if profile == nil {
			// Lazily created: the order has no shipping profile row until
			// the first shipping-relevant mutation.
			profile = &models.Profile{Kind: enums.ProfileKindShipping, Address: address}
		} else {
			profile.Address = address
		}
		if err := repo.SaveProfile(ctx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist shipping profile")
		}
		order.ShippingProfileID = &profile.ID
		order.ShippingProfile = profile

		shipments, err := s.packer.Pack(ctx, order, profile)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "pack shipments")
		}
		if err := s.shipments.WithTx(tx).ReplaceForOrder(ctx, order.ID, shipments); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace shipments")
		}
		order.Shipments = shipments

		return repo.Save(ctx, order, "shippingInformation")
	}); err != nil {
		return nil, err
	}

	return s.ordersRepo.FindByID(ctx, orderID)
}

// ApplyRate applies the chosen "methodId--serviceId" rate to every
// current shipment. A stale service id falls back to the method's first
// computed option instead of failing.
func (s *service) ApplyRate(ctx context.Context, orderID uuid.UUID, optionID string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	methodID, serviceID, err := ParseOptionID(optionID)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		order, err := loadDraft(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if len(order.Shipments) == 0 {
			return pkgerrors.New(pkgerrors.CodeUnprocessable, "The order has no shipments yet. Please provide a shipping address first.").
				WithPointer("shippingMethod")
		}

		method, err := findEnabledMethod(ctx, s.shipments.WithTx(tx), methodID)
		if err != nil {
			return err
		}

		for i := range order.Shipments {
			shipment := &order.Shipments[i]
			shipment.MethodID = &method.ID
			shipment.Method = method
			if shipment.PackageType == nil {
				shipment.PackageType = s.packageTypeFor(method)
			}

			options := OptionsForShipment(shipment, method)
			chosen := bestEffortRateMatch(options, serviceID)
			if chosen == nil {
				return pkgerrors.New(pkgerrors.CodeUnprocessable, "The shipping method has no available services.").
					WithPointer("shippingMethod")
			}
			shipment.ServiceID = &chosen.ServiceID
			shipment.Amount = chosen.Amount.Number

			if err := s.shipments.WithTx(tx).Save(ctx, shipment); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist shipment")
			}
		}

		return repo.Save(ctx, order, "shippingMethod")
	}); err != nil {
		return nil, err
	}

	return s.ordersRepo.FindByID(ctx, orderID)
}

// ResolveOption parses a "methodId--serviceId" rate option id and loads
// the enabled method it names, without touching any order. Callers use
// it to vet a selection before applying it.
func (s *service) ResolveOption(ctx context.Context, optionID string) (*models.ShippingMethod, string, error) {
	methodID, serviceID, err := ParseOptionID(optionID)
	if err != nil {
		return nil, "", err
	}
	method, err := findEnabledMethod(ctx, s.shipments, methodID)
	if err != nil {
		return nil, "", err
	}
	return method, serviceID, nil
}

// ListRateOptions flattens the computed options of every enabled method
// across the order's shipments, in shipment order.
func (s *service) ListRateOptions(ctx context.Context, orderID uuid.UUID) ([]RateOption, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.ordersRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if len(order.Shipments) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "The order has no shipments yet. Please provide a shipping address first.").
			WithPointer("shippingInformation")
	}

	methods, err := s.shipments.ListEnabledMethods(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping methods")
	}

	var options []RateOption
	for i := range order.Shipments {
		for j := range methods {
			options = append(options, OptionsForShipment(&order.Shipments[i], &methods[j])...)
		}
	}
	return options, nil
}

func (s *service) packageTypeFor(method *models.ShippingMethod) *string {
	if method.DefaultPackageType != nil {
		return method.DefaultPackageType
	}
	if s.defaultPackageType == "" {
		return nil
	}
	fallback := s.defaultPackageType
	return &fallback
}

func findEnabledMethod(ctx context.Context, repo *Repository, methodID uuid.UUID) (*models.ShippingMethod, error) {
	method, err := repo.FindMethod(ctx, methodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "The shipping method does not exist.").
				WithPointer("shippingMethod")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping method")
	}
	if !method.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "The shipping method is not available.").
			WithPointer("shippingMethod")
	}
	return method, nil
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
