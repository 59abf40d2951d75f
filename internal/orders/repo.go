package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/enums"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/validation"
)

// Repository owns persistence of the cart aggregate. Every save runs the
// registered cross-cutting rules; violations on fields the caller
// declared as touched abort before anything is written.
type Repository struct {
	db    *gorm.DB
	rules *RuleSet
}

// NewRepository constructs an order repository bound to the provided DB.
func NewRepository(db *gorm.DB, rules *RuleSet) *Repository {
	if rules == nil {
		rules = NewRuleSet()
	}
	return &Repository{db: db, rules: rules}
}

// WithTx binds the repository to a transaction, keeping the rule set.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx, rules: r.rules}
}

// Rules exposes the registered rule set.
func (r *Repository) Rules() *RuleSet {
	return r.rules
}

// FindByID loads the aggregate with every association the checkout
// surfaces need.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at ASC") }).
		Preload("Items.Product").
		Preload("Items.Product.Stores").
		Preload("Shipments", func(db *gorm.DB) *gorm.DB { return db.Order("shipments.created_at ASC") }).
		Preload("Shipments.Method").
		Preload("Shipments.Profile").
		Preload("Coupons").
		Preload("Coupons.Promotion").
		Preload("BillingProfile").
		Preload("ShippingProfile").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindDraftByCustomer returns the customer's current draft cart in the
// given store, if any.
func (r *Repository) FindDraftByCustomer(ctx context.Context, storeID, customerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND customer_id = ? AND state = ?", storeID, customerID, enums.OrderStateDraft).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, order.ID)
}

// Create inserts a new draft order.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.State == "" {
		order.State = enums.OrderStateDraft
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Validate runs every registered rule against the aggregate.
func (r *Repository) Validate(ctx context.Context, order *models.Order) validation.Violations {
	return r.rules.Check(ctx, order)
}

// Save persists the order row after running the rule set. touched names
// the property-path roots this save mutated; a violation under a touched
// root aborts with 422 before persistence. Violations elsewhere stay
// advisory and do not block.
func (r *Repository) Save(ctx context.Context, order *models.Order, touched ...string) error {
	violations := r.rules.Check(ctx, order)
	if hard := violations.Filter(touched...); len(touched) > 0 && len(hard) > 0 {
		return pkgerrors.New(pkgerrors.CodeUnprocessable, hard[0].Detail).
			WithPointer(hard[0].Pointer).
			WithDetails(hard)
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

// ReplaceCoupons swaps the applied coupon list wholesale, preserving the
// order of application.
func (r *Repository) ReplaceCoupons(ctx context.Context, order *models.Order, coupons []models.Coupon) error {
	if err := r.db.WithContext(ctx).Model(order).Association("Coupons").Replace(coupons); err != nil {
		return err
	}
	order.Coupons = coupons
	return nil
}

// CreateItem inserts a new order item row.
func (r *Repository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

// SaveItem persists an existing order item row.
func (r *Repository) SaveItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

// FindItem loads an order item restricted to its owning order.
func (r *Repository) FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Stores").
		Where("id = ? AND order_id = ?", itemID, orderID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an order item row.
func (r *Repository) DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Delete(&models.OrderItem{}).Error
}

// SaveProfile persists an address profile row.
func (r *Repository) SaveProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
