package catalog

import (
	"context"

	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

// PriceContext keys a price resolution: who is buying, from which store,
// and how many.
type PriceContext struct {
	StoreID    string
	CustomerID string
	Quantity   int
}

// PriceResolver is one link of the price-resolution chain. Resolvers opt
// in via Applies; the first applying resolver wins.
type PriceResolver interface {
	Applies(ctx context.Context, product *models.Product, pctx PriceContext) bool
	Resolve(ctx context.Context, product *models.Product, pctx PriceContext) (types.Money, error)
}

// ChainPriceResolver walks registered resolvers in order and falls back
// to the product's list price.
type ChainPriceResolver struct {
	resolvers []PriceResolver
}

// NewChainPriceResolver assembles the chain. The list-price fallback is
// always the terminal link.
func NewChainPriceResolver(resolvers ...PriceResolver) *ChainPriceResolver {
	return &ChainPriceResolver{resolvers: resolvers}
}

// Resolve returns the selling price for the product in the given context.
func (c *ChainPriceResolver) Resolve(ctx context.Context, product *models.Product, pctx PriceContext) (types.Money, error) {
	if product == nil {
		return types.Money{}, pkgerrors.New(pkgerrors.CodeInternal, "product is required for price resolution")
	}
	for _, resolver := range c.resolvers {
		if !resolver.Applies(ctx, product, pctx) {
			continue
		}
		return resolver.Resolve(ctx, product, pctx)
	}
	return product.Price(), nil
}
