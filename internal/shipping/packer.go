package shipping

import (
	"context"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

// Packer regroups the order's current lines into shipments against a
// destination address. Implementations decide how many shipments come
// out; the orchestrator replaces the order's shipment set with whatever
// the packer returns.
type Packer interface {
	Pack(ctx context.Context, order *models.Order, profile *models.Profile) ([]models.Shipment, error)
}

// singleShipmentPacker puts every line into one shipment. Orders with no
// lines produce no shipments.
type singleShipmentPacker struct{}

// NewSingleShipmentPacker builds the default packer.
func NewSingleShipmentPacker() Packer {
	return singleShipmentPacker{}
}

func (singleShipmentPacker) Pack(ctx context.Context, order *models.Order, profile *models.Profile) ([]models.Shipment, error) {
	if order == nil || len(order.Items) == 0 {
		return nil, nil
	}
	packed := make(types.PackedItems, 0, len(order.Items))
	for _, item := range order.Items {
		packed = append(packed, types.PackedItem{OrderItemID: item.ID, Quantity: item.Quantity})
	}
	shipment := models.Shipment{
		OrderID: order.ID,
		Items:   packed,
	}
	if profile != nil {
		shipment.ProfileID = &profile.ID
	}
	return []models.Shipment{shipment}, nil
}
