package stores

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
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

// FindByID loads a store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindBySlug loads a store by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByHostname resolves the enabled store serving the given hostname.
// Hostname lists are tiny, so candidates are matched in memory rather
// than leaning on array operators.
func (r *Repository) FindByHostname(ctx context.Context, host string) (*models.Store, error) {
	var candidates []models.Store
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		for _, h := range candidates[i].Hostnames {
			if strings.EqualFold(h, host) {
				return &candidates[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}
