package shipping

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
)

// Repository persists shipments and looks up shipping methods.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shipment repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ReplaceForOrder swaps the order's shipment set wholesale. Rows from the
// previous packing are deleted first so nothing stale survives.
func (r *Repository) ReplaceForOrder(ctx context.Context, orderID uuid.UUID, shipments []models.Shipment) error {
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.Shipment{}).Error; err != nil {
		return err
	}
	for i := range shipments {
		shipments[i].OrderID = orderID
		if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&shipments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Save persists one shipment row.
func (r *Repository) Save(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(shipment).Error
}

// FindMethod loads a shipping method by ID.
func (r *Repository) FindMethod(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	if err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &method, nil
}

// ListEnabledMethods returns every method currently quoting rates.
func (r *Repository) ListEnabledMethods(ctx context.Context) ([]models.ShippingMethod, error) {
	var methods []models.ShippingMethod
	if err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("name ASC").
		Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}
