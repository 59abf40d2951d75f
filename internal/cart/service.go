package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/internal/catalog"
	"github.com/mpoberly/storefront-backend/internal/orders"
	"github.com/mpoberly/storefront-backend/internal/stores"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service mutates the item lines of a draft cart.
type Service interface {
	AddItems(ctx context.Context, orderID uuid.UUID, inputs []AddItemInput) (*models.Order, []models.OrderItem, error)
	RemoveItems(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (*models.Order, []RemoveResult, error)
	UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, patch ItemPatch) (*models.Order, *models.OrderItem, []FieldResult, error)
}

// AddItemInput is one entry of an add batch.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Combine   *bool
	ArityKey  *string
}

// ItemPatch carries the fields an item update may touch. Nil means
// untouched.
type ItemPatch struct {
	Quantity *int
	ArityKey *string
}

type service struct {
	ordersRepo   *orders.Repository
	products     *catalog.Repository
	pricing      *catalog.ChainPriceResolver
	resolver     *stores.Resolver
	availability *stores.AvailabilityManager
	manager      *Manager
	policy       FieldPolicy
	tx           txRunner
}

// NewService builds the cart mutator backed by the provided stack.
func NewService(
	ordersRepo *orders.Repository,
	products *catalog.Repository,
	pricing *catalog.ChainPriceResolver,
	resolver *stores.Resolver,
	availability *stores.AvailabilityManager,
	manager *Manager,
	policy FieldPolicy,
	tx txRunner,
) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if pricing == nil {
		return nil, fmt.Errorf("price resolver required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("store resolver required")
	}
	if availability == nil {
		return nil, fmt.Errorf("availability manager required")
	}
	if manager == nil {
		manager = NewManager()
	}
	if policy == nil {
		policy = NewDefaultFieldPolicy()
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		ordersRepo:   ordersRepo,
		products:     products,
		pricing:      pricing,
		resolver:     resolver,
		availability: availability,
		manager:      manager,
		policy:       policy,
		tx:           tx,
	}, nil
}

// AddItems appends the batch to the cart atomically: any invalid entry
// rejects the whole batch and nothing is written. The second return
// carries the persisted lines the batch produced or grew, in batch
// order.
func (s *service) AddItems(ctx context.Context, orderID uuid.UUID, inputs []AddItemInput) (*models.Order, []models.OrderItem, error) {
	if orderID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if len(inputs) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for i, input := range inputs {
		if input.Quantity <= 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "Quantity must be greater than zero.").
				WithPointer(fmt.Sprintf("items.%d.quantity", i))
		}
	}

	var touched []uuid.UUID
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		touched = touched[:0]
		repo := s.ordersRepo.WithTx(tx)
		order, err := s.loadDraft(ctx, repo, orderID)
		if err != nil {
			return err
		}

		for i, input := range inputs {
			item, combined, err := s.addOne(ctx, tx, order, i, input)
			if err != nil {
				return err
			}
			if combined {
				if err := repo.SaveItem(ctx, item); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist combined item")
				}
			} else {
				if err := repo.CreateItem(ctx, item); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist item")
				}
			}
			touched = append(touched, item.ID)
		}

		return repo.Save(ctx, order, "items")
	}); err != nil {
		return nil, nil, err
	}

	order, err := s.ordersRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, pickItems(order, touched), nil
}

func (s *service) addOne(ctx context.Context, tx *gorm.DB, order *models.Order, index int, input AddItemInput) (*models.OrderItem, bool, error) {
	product, err := s.products.WithTx(tx).FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, pkgerrors.New(pkgerrors.CodeUnprocessable, "The purchased entity does not exist.").
				WithPointer(fmt.Sprintf("items.%d.purchasedEntity", index))
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if _, err := s.resolver.SelectStore(ctx, product, order.StoreID); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnprocessable {
			return nil, false, pkgerrors.New(pkgerrors.CodeUnprocessable, typed.Message()).
				WithPointer(fmt.Sprintf("items.%d.purchasedEntity", index))
		}
		return nil, false, err
	}

	pctx := purchaseContext(order)
	item, combined := s.manager.AddLine(order, product, input.Quantity, product.ListPrice, AddOptions{
		Combine:  input.Combine,
		ArityKey: input.ArityKey,
	})

	// Availability is judged on the resulting line quantity, so a combine
	// that pushes past a cap still rejects the batch.
	if !s.availability.IsAvailable(ctx, product, item.Quantity, pctx) {
		return nil, false, pkgerrors.New(pkgerrors.CodeUnprocessable, "The requested quantity is not available.").
			WithPointer(fmt.Sprintf("items.%d.quantity", index))
	}

	if !combined {
		price, err := s.pricing.Resolve(ctx, product, catalog.PriceContext{
			StoreID:    order.StoreID.String(),
			CustomerID: order.CustomerID.String(),
			Quantity:   item.Quantity,
		})
		if err != nil {
			return nil, false, err
		}
		item.UnitPrice = price.Number
	}
	return item, combined, nil
}

// RemoveItems deletes the referenced lines best-effort: one bad
// reference does not abort the batch, and successful removals persist.
// The per-entry outcomes come back alongside the aggregate error.
func (s *service) RemoveItems(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (*models.Order, []RemoveResult, error) {
	if orderID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.loadDraft(ctx, s.ordersRepo, orderID)
	if err != nil {
		return nil, nil, err
	}

	owned := map[uuid.UUID]struct{}{}
	for _, item := range order.Items {
		owned[item.ID] = struct{}{}
	}

	results := make([]RemoveResult, 0, len(itemIDs))
	var errs error
	for _, id := range itemIDs {
		if _, ok := owned[id]; !ok {
			missing := pkgerrors.New(pkgerrors.CodeNotFound, "The item does not belong to this order.")
			results = append(results, RemoveResult{ItemID: id, Err: missing})
			errs = multierr.Append(errs, missing)
			continue
		}
		if err := s.ordersRepo.DeleteItem(ctx, orderID, id); err != nil {
			failed := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove item")
			results = append(results, RemoveResult{ItemID: id, Err: failed})
			errs = multierr.Append(errs, failed)
			continue
		}
		results = append(results, RemoveResult{ItemID: id})
	}

	// Deferred save: the rows already removed stay removed regardless of
	// failures above, and the aggregate re-validates once at the end.
	order, reloadErr := s.ordersRepo.FindByID(ctx, orderID)
	if reloadErr != nil {
		return nil, results, multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, reloadErr, "reload order"))
	}
	if saveErr := s.ordersRepo.Save(ctx, order, "items"); saveErr != nil {
		errs = multierr.Append(errs, saveErr)
	}
	return order, results, errs
}

// UpdateItem applies the patch field by field. A field the policy denies
// is skipped silently and reported in the results; applied fields are
// validated and may recombine the line with a sibling, in which case the
// returned item is the surviving line.
func (s *service) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, patch ItemPatch) (*models.Order, *models.OrderItem, []FieldResult, error) {
	if orderID == uuid.Nil || itemID == uuid.Nil {
		return nil, nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id are required")
	}

	var results []FieldResult
	survivorID := itemID
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		order, err := s.loadDraft(ctx, repo, orderID)
		if err != nil {
			return err
		}

		item := findItem(order, itemID)
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}

		applied := 0
		if patch.Quantity != nil {
			if !s.policy.CanWrite(ctx, "quantity", item.Quantity, *patch.Quantity) {
				results = append(results, FieldResult{Field: "quantity", Outcome: FieldSkipped})
			} else {
				if *patch.Quantity <= 0 {
					return pkgerrors.New(pkgerrors.CodeUnprocessable, "Quantity must be greater than zero.").
						WithPointer("quantity")
				}
				if item.Product != nil && !s.availability.IsAvailable(ctx, item.Product, *patch.Quantity, purchaseContext(order)) {
					return pkgerrors.New(pkgerrors.CodeUnprocessable, "The requested quantity is not available.").
						WithPointer("quantity")
				}
				item.Quantity = *patch.Quantity
				results = append(results, FieldResult{Field: "quantity", Outcome: FieldApplied})
				applied++
			}
		}
		if patch.ArityKey != nil {
			if !s.policy.CanWrite(ctx, "arityKey", item.ArityKey, patch.ArityKey) {
				results = append(results, FieldResult{Field: "arityKey", Outcome: FieldSkipped})
			} else {
				item.ArityKey = patch.ArityKey
				results = append(results, FieldResult{Field: "arityKey", Outcome: FieldApplied})
				applied++
			}
		}
		if applied == 0 {
			return nil
		}

		survivor, absorbedID := s.manager.Recombine(order, item)
		survivorID = survivor.ID
		if absorbedID != uuid.Nil {
			if err := repo.DeleteItem(ctx, orderID, absorbedID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drop absorbed item")
			}
		}
		if err := repo.SaveItem(ctx, survivor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist item")
		}

		return repo.Save(ctx, order, "items")
	}); err != nil {
		return nil, nil, results, err
	}

	order, err := s.ordersRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, results, err
	}
	return order, findItem(order, survivorID), results, nil
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

// pickItems returns the order's lines matching ids, deduplicated so a
// batch that combined two entries into one line reports it once.
func pickItems(order *models.Order, ids []uuid.UUID) []models.OrderItem {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	items := make([]models.OrderItem, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item := findItem(order, id); item != nil {
			items = append(items, *item)
		}
	}
	return items
}

func findItem(order *models.Order, itemID uuid.UUID) *models.OrderItem {
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			return &order.Items[i]
		}
	}
	return nil
}

func purchaseContext(order *models.Order) stores.PurchaseContext {
	return stores.PurchaseContext{
		StoreID:    order.StoreID.String(),
		CustomerID: order.CustomerID.String(),
	}
}
