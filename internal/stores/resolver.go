package stores

import (
	"context"

	"github.com/google/uuid"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
)

// Resolver picks the selling store for a purchasable item against the
// active storefront context.
type Resolver struct{}

// NewResolver builds a store resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// SelectStore returns the store the item is sold from. The item must
// belong to at least one store, and when a contextual store is active it
// must be among the item's owning stores.
func (r *Resolver) SelectStore(ctx context.Context, product *models.Product, contextStoreID uuid.UUID) (*models.Store, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "purchased entity is required").WithPointer("purchasedEntity")
	}
	if len(product.Stores) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "The given entity is not assigned to any store.").WithPointer("purchasedEntity")
	}
	if len(product.Stores) == 1 && contextStoreID == uuid.Nil {
		store := product.Stores[0]
		return &store, nil
	}
	for _, store := range product.Stores {
		if store.ID == contextStoreID {
			matched := store
			return &matched, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "The given entity can't be purchased from the current store.").WithPointer("purchasedEntity")
}
