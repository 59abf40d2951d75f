package shipping

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/enums"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

func TestParseOptionID(t *testing.T) {
	t.Parallel()

	methodID := uuid.New()
	gotMethod, gotService, err := ParseOptionID(OptionID(methodID, "overnight"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != methodID || gotService != "overnight" {
		t.Fatalf("round trip mismatch: %s / %s", gotMethod, gotService)
	}

	for _, raw := range []string{"", "no-separator", "--overnight", methodID.String() + "--", "not-a-uuid--svc"} {
		_, _, err := ParseOptionID(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnprocessable {
			t.Fatalf("expected unprocessable for %q, got %v", raw, err)
		}
		if typed.Pointer() != "shippingMethod" {
			t.Fatalf("expected shippingMethod pointer for %q, got %q", raw, typed.Pointer())
		}
	}
}

func quoteMethod() *models.ShippingMethod {
	days := 2
	return &models.ShippingMethod{
		ID:      uuid.New(),
		Name:    "UPS",
		Enabled: true,
		Services: types.RateServices{
			{ID: "ground", Label: "Ground", Amount: decimal.NewFromInt(5), Currency: enums.CurrencyUSD},
			{ID: "overnight", Label: "Overnight", Amount: decimal.NewFromInt(20), Currency: enums.CurrencyUSD, DeliveryDays: &days},
		},
	}
}

func TestOptionsForShipment(t *testing.T) {
	t.Parallel()

	method := quoteMethod()
	shipment := &models.Shipment{ID: uuid.New()}

	options := OptionsForShipment(shipment, method)
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	if options[0].ID != OptionID(method.ID, "ground") {
		t.Fatalf("unexpected option id %q", options[0].ID)
	}
	if options[0].Label != "UPS Ground" {
		t.Fatalf("unexpected label %q", options[0].Label)
	}
	if options[1].DeliveryDays == nil || *options[1].DeliveryDays != 2 {
		t.Fatal("expected delivery estimate on overnight option")
	}

	method.Enabled = false
	if got := OptionsForShipment(shipment, method); got != nil {
		t.Fatalf("disabled method must quote nothing, got %d options", len(got))
	}
}

func TestBestEffortRateMatch(t *testing.T) {
	t.Parallel()

	options := OptionsForShipment(&models.Shipment{ID: uuid.New()}, quoteMethod())

	if chosen := bestEffortRateMatch(options, "overnight"); chosen == nil || chosen.ServiceID != "overnight" {
		t.Fatalf("expected exact match, got %+v", chosen)
	}

	// A stale service id substitutes the first option instead of failing.
	if chosen := bestEffortRateMatch(options, "gone"); chosen == nil || chosen.ServiceID != "ground" {
		t.Fatalf("expected first-option fallback, got %+v", chosen)
	}

	if chosen := bestEffortRateMatch(nil, "ground"); chosen != nil {
		t.Fatalf("expected nil for empty options, got %+v", chosen)
	}
}
