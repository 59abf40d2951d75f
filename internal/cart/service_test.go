package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/internal/catalog"
	"github.com/mpoberly/storefront-backend/internal/orders"
	"github.com/mpoberly/storefront-backend/internal/stores"
	"github.com/mpoberly/storefront-backend/internal/testdb"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/enums"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
)

type dbTxRunner struct {
	db *gorm.DB
}

func (r dbTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type denyPolicy struct {
	fields map[string]struct{}
}

func (p denyPolicy) CanWrite(ctx context.Context, field string, oldValue, newValue any) bool {
	_, denied := p.fields[field]
	return !denied
}

func newCartService(t *testing.T, db *gorm.DB, policy FieldPolicy) (Service, *orders.Repository) {
	t.Helper()

	availability := stores.NewAvailabilityManager()
	rules := orders.NewRuleSet(NewItemAvailabilityRule(availability))
	repo := orders.NewRepository(db, rules)
	svc, err := NewService(
		repo,
		catalog.NewRepository(db),
		catalog.NewChainPriceResolver(),
		stores.NewResolver(),
		availability,
		NewManager(),
		policy,
		dbTxRunner{db: db},
	)
	require.NoError(t, err)
	return svc, repo
}

func seedStore(t *testing.T, db *gorm.DB) *models.Store {
	t.Helper()

	// The sqlite test database is shared process-wide, so slugs must not
	// collide across tests.
	store := &models.Store{ID: uuid.New(), Name: "Main", Slug: "main-" + uuid.NewString()}
	require.NoError(t, db.Create(store).Error)
	return store
}

func seedProduct(t *testing.T, db *gorm.DB, store *models.Store, sku string, price int64, maxQty int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:        uuid.New(),
		SKU:       sku,
		Title:     "Product " + sku,
		Published: true,
		ListPrice: decimal.NewFromInt(price),
		Currency:  enums.CurrencyUSD,
		MaxQty:    maxQty,
		Stores:    []models.Store{*store},
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedDraftOrder(t *testing.T, db *gorm.DB, store *models.Store) *models.Order {
	t.Helper()

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

func TestServiceAddItemsCombinesAndPersists(t *testing.T) {
	db := testdb.Open(t)
	svc, _ := newCartService(t, db, nil)
	store := seedStore(t, db)
	product := seedProduct(t, db, store, "MUG-01", 10, 0)
	order := seedDraftOrder(t, db, store)

	saved, created, err := svc.AddItems(context.Background(), order.ID, []AddItemInput{
		{ProductID: product.ID, Quantity: 2},
		{ProductID: product.ID, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, 5, saved.Items[0].Quantity)
	assert.True(t, saved.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))

	// Both entries landed on the same line, so the batch reports it once.
	require.Len(t, created, 1)
	assert.Equal(t, saved.Items[0].ID, created[0].ID)
}

func TestServiceAddItemsQuantityCapRejectsBatch(t *testing.T) {
	db := testdb.Open(t)
	svc, repo := newCartService(t, db, nil)
	store := seedStore(t, db)
	capped := seedProduct(t, db, store, "CAP-01", 10, 2)
	open := seedProduct(t, db, store, "OPEN-01", 5, 0)
	order := seedDraftOrder(t, db, store)

	_, _, err := svc.AddItems(context.Background(), order.ID, []AddItemInput{
		{ProductID: open.ID, Quantity: 1},
		{ProductID: capped.ID, Quantity: 3},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnprocessable, typed.Code())
	assert.Equal(t, "items.1.quantity", typed.Pointer())

	// Atomic batch: the valid first entry must not have been written.
	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Items)
}

func TestServiceAddItemsUnknownProduct(t *testing.T) {
	db := testdb.Open(t)
	svc, _ := newCartService(t, db, nil)
	store := seedStore(t, db)
	order := seedDraftOrder(t, db, store)

	_, _, err := svc.AddItems(context.Background(), order.ID, []AddItemInput{
		{ProductID: uuid.New(), Quantity: 1},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnprocessable, typed.Code())
	assert.Equal(t, "items.0.purchasedEntity", typed.Pointer())
}

func TestServiceAddItemsRejectsCompletedOrder(t *testing.T) {
	db := testdb.Open(t)
	svc, _ := newCartService(t, db, nil)
	store := seedStore(t, db)
	product := seedProduct(t, db, store, "MUG-02", 10, 0)
	order := seedDraftOrder(t, db, store)
	require.NoError(t, db.Model(order).Update("state", enums.OrderStateCompleted).Error)

	_, _, err := svc.AddItems(context.Background(), order.ID, []AddItemInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnprocessable, typed.Code())
}

func TestServiceRemoveItemsBestEffort(t *testing.T) {
	db := testdb.Open(t)
	svc, repo := newCartService(t, db, nil)
	store := seedStore(t, db)
	product := seedProduct(t, db, store, "MUG-03", 10, 0)
	order := seedDraftOrder(t, db, store)

	saved, _, err := svc.AddItems(context.Background(), order.ID, []AddItemInput{
		{ProductID: product.ID, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)
	itemID := saved.Items[0].ID
	bogus := uuid.New()

	_, results, err := svc.RemoveItems(context.Background(), order.ID, []uuid.UUID{bogus, itemID})
	require.Error(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Removed())
	assert.Equal(t, bogus, results[0].ItemID)
	assert.True(t, results[1].Removed())

	// The valid removal sticks even though a sibling entry failed.
	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Items)
}

func TestServiceUpdateItemAppliesQuantity(t *testing.T) {
	db := testdb.Open(t)
	svc, _ := newCartService(t, db, nil)
	store := seedStore(t, db)
	product := seedProduct(t, db, store, "MUG-04", 10, 0)
	order := seedDraftOrder(t, db, store)

	saved, _, err := svc.AddItems(context.Background(), order.ID, []AddItemInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)
	itemID := saved.Items[0].ID

	qty := 4
	updated, item, results, err := svc.UpdateItem(context.Background(), order.ID, itemID, ItemPatch{Quantity: &qty})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, FieldApplied, results[0].Outcome)
	require.Len(t, updated.Items, 1)
	require.NotNil(t, item)
	assert.Equal(t, itemID, item.ID)
	assert.Equal(t, 4, item.Quantity)
}

func TestServiceUpdateItemSkipsDeniedField(t *testing.T) {
	db := testdb.Open(t)
	svc, repo := newCartService(t, db, denyPolicy{fields: map[string]struct{}{"arityKey": {}}})
	store := seedStore(t, db)
	product := seedProduct(t, db, store, "MUG-05", 10, 0)
	order := seedDraftOrder(t, db, store)

	saved, _, err := svc.AddItems(context.Background(), order.ID, []AddItemInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)
	itemID := saved.Items[0].ID

	gift := "gift-wrap"
	qty := 2
	_, _, results, err := svc.UpdateItem(context.Background(), order.ID, itemID, ItemPatch{Quantity: &qty, ArityKey: &gift})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, FieldResult{Field: "quantity", Outcome: FieldApplied}, results[0])
	assert.Equal(t, FieldResult{Field: "arityKey", Outcome: FieldSkipped}, results[1])

	reloaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, 2, reloaded.Items[0].Quantity)
	assert.Nil(t, reloaded.Items[0].ArityKey)
}

func TestServiceUpdateItemRecombines(t *testing.T) {
	db := testdb.Open(t)
	svc, _ := newCartService(t, db, nil)
	store := seedStore(t, db)
	product := seedProduct(t, db, store, "MUG-06", 10, 0)
	order := seedDraftOrder(t, db, store)

	noCombine := false
	saved, created, err := svc.AddItems(context.Background(), order.ID, []AddItemInput{
		{ProductID: product.ID, Quantity: 2},
		{ProductID: product.ID, Quantity: 1, Combine: &noCombine},
	})
	require.NoError(t, err)
	require.Len(t, saved.Items, 2)
	require.Len(t, created, 2)

	// Touching the second line makes it identical to the first, so the
	// update hook merges them and the survivor comes back.
	qty := 3
	updated, item, results, err := svc.UpdateItem(context.Background(), order.ID, saved.Items[1].ID, ItemPatch{Quantity: &qty})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, FieldApplied, results[0].Outcome)
	require.Len(t, updated.Items, 1)
	require.NotNil(t, item)
	assert.Equal(t, updated.Items[0].ID, item.ID)
	assert.Equal(t, 5, item.Quantity)
}
