package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/internal/testdb"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/enums"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/validation"
)

type staticRule struct {
	name       string
	roots      []string
	violations validation.Violations
}

func (r staticRule) Name() string    { return r.name }
func (r staticRule) Roots() []string { return r.roots }
func (r staticRule) Check(ctx context.Context, order *models.Order) validation.Violations {
	return r.violations
}

func seedOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()

	store := &models.Store{ID: uuid.New(), Name: "Main", Slug: "main-" + uuid.NewString()}
	require.NoError(t, db.Create(store).Error)
	order := &models.Order{
		ID:         uuid.New(),
		State:      enums.OrderStateDraft,
		StoreID:    store.ID,
		CustomerID: uuid.New(),
		Currency:   enums.CurrencyUSD,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestSaveBlocksViolationsOnTouchedRoots(t *testing.T) {
	db := testdb.Open(t)
	rules := NewRuleSet(staticRule{
		name:  "stock",
		roots: []string{"items"},
		violations: validation.Violations{
			{Detail: "\"Widget\" is not available at the requested quantity.", Pointer: "items.0.quantity"},
		},
	})
	repo := NewRepository(db, rules)
	order := seedOrder(t, db)

	email := "buyer@example.com"
	order.Email = &email
	err := repo.Save(context.Background(), order, "items")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnprocessable, typed.Code())
	assert.Equal(t, "items.0.quantity", typed.Pointer())

	// The write was aborted before persistence.
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Nil(t, reloaded.Email)
}

func TestSaveViolationsOutsideTouchedRootsAreAdvisory(t *testing.T) {
	db := testdb.Open(t)
	rules := NewRuleSet(staticRule{
		name:  "stock",
		roots: []string{"items"},
		violations: validation.Violations{
			{Detail: "out of stock", Pointer: "items.0.quantity"},
		},
	})
	repo := NewRepository(db, rules)
	order := seedOrder(t, db)

	// An email save does not touch "items"; the standing violation stays
	// advisory and the write goes through.
	email := "buyer@example.com"
	order.Email = &email
	require.NoError(t, repo.Save(context.Background(), order, "email"))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	require.NotNil(t, reloaded.Email)
	assert.Equal(t, email, *reloaded.Email)
}

func TestSaveWithoutTouchedRootsNeverBlocks(t *testing.T) {
	db := testdb.Open(t)
	rules := NewRuleSet(staticRule{
		name:       "stock",
		roots:      []string{"items"},
		violations: validation.Violations{{Detail: "out of stock", Pointer: "items.0.quantity"}},
	})
	repo := NewRepository(db, rules)
	order := seedOrder(t, db)

	require.NoError(t, repo.Save(context.Background(), order))
}

func TestValidateReturnsEveryViolation(t *testing.T) {
	db := testdb.Open(t)
	rules := NewRuleSet(
		staticRule{name: "a", roots: []string{"items"}, violations: validation.Violations{{Detail: "x", Pointer: "items.0.quantity"}}},
		staticRule{name: "b", roots: []string{"coupons"}, violations: validation.Violations{{Detail: "y", Pointer: "coupons.0"}}},
	)
	repo := NewRepository(db, rules)
	order := seedOrder(t, db)

	violations := repo.Validate(context.Background(), order)
	require.Len(t, violations, 2)
	assert.Equal(t, "items.0.quantity", violations[0].Pointer)
	assert.Equal(t, "coupons.0", violations[1].Pointer)
}

func TestFindDraftByCustomer(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db, nil)
	order := seedOrder(t, db)

	found, err := repo.FindDraftByCustomer(context.Background(), order.StoreID, order.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	require.NoError(t, db.Model(order).Update("state", enums.OrderStateCompleted).Error)
	_, err = repo.FindDraftByCustomer(context.Background(), order.StoreID, order.CustomerID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateDefaultsToDraft(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db, nil)

	store := &models.Store{ID: uuid.New(), Name: "Main", Slug: "main-" + uuid.NewString()}
	require.NoError(t, db.Create(store).Error)

	created, err := repo.Create(context.Background(), &models.Order{
		StoreID:    store.ID,
		CustomerID: uuid.New(),
		Currency:   enums.CurrencyUSD,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStateDraft, created.State)
}
