package payments

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	sq "github.com/square/square-go-sdk"
	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/pagination"
	"github.com/mpoberly/storefront-backend/pkg/square"
)

type cardCreator interface {
	CreateCard(ctx context.Context, params square.CardCreateParams) (*sq.Card, error)
}

type customerCreator interface {
	CreateCustomer(ctx context.Context, params square.CustomerCreateParams) (*sq.Customer, error)
}

type squareClient interface {
	cardCreator
	customerCreator
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service orchestrates card-on-file persistence and instrument lookup
// for checkout.
type Service interface {
	StoreCard(ctx context.Context, customerID uuid.UUID, input StoreCardInput) (*models.PaymentMethod, error)
	ResolveInstrument(ctx context.Context, customerID, paymentMethodID uuid.UUID) (*models.PaymentMethod, error)
	ListInstruments(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.PaymentMethod, string, error)
}

// StoreCardInput captures the payload required to vault a card.
type StoreCardInput struct {
	SourceID          string
	CardholderName    string
	VerificationToken string
	IsDefault         bool
	IdempotencyKey    string
}

type service struct {
	repo     *Repository
	square   squareClient
	txRunner txRunner
}

// NewService constructs a payment method service.
func NewService(repo *Repository, squareClient squareClient, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments repo required")
	}
	if squareClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "square client required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: repo, square: squareClient, txRunner: tx}, nil
}

// StoreCard vaults the tokenized card with Square and persists the
// instrument. The customer is registered with Square lazily on first
// use.
func (s *service) StoreCard(ctx context.Context, customerID uuid.UUID, input StoreCardInput) (*models.PaymentMethod, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	sourceID := strings.TrimSpace(input.SourceID)
	if sourceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source_id is required")
	}
	idempotencyKey := strings.TrimSpace(input.IdempotencyKey)
	if idempotencyKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "idempotency key is required")
	}

	customer, err := s.repo.FindCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	squareCustomerID, err := s.ensureSquareCustomer(ctx, customer)
	if err != nil {
		return nil, err
	}

	params := square.CardCreateParams{
		CustomerID:     squareCustomerID,
		SourceID:       sourceID,
		IdempotencyKey: idempotencyKey,
	}
	if cardholder := strings.TrimSpace(input.CardholderName); cardholder != "" {
		params.CardholderName = cardholder
	}
	if token := strings.TrimSpace(input.VerificationToken); token != "" {
		params.VerificationToken = token
	}

	card, err := s.square.CreateCard(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create square card")
	}
	if card == nil || card.GetID() == nil || strings.TrimSpace(*card.GetID()) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "square card missing id")
	}

	existing, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment methods")
	}
	shouldDefault := len(existing) == 0 || input.IsDefault

	method := buildPaymentMethod(card, customerID, squareCustomerID, shouldDefault)

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if shouldDefault && len(existing) > 0 {
			if err := txRepo.ClearDefault(ctx, customerID); err != nil {
				return err
			}
		}
		return txRepo.Create(ctx, method)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment method")
	}

	return method, nil
}

// ResolveInstrument loads the referenced instrument, rejecting
// references to another customer's card the same way as unknown ids.
func (s *service) ResolveInstrument(ctx context.Context, customerID, paymentMethodID uuid.UUID) (*models.PaymentMethod, error) {
	if customerID == uuid.Nil || paymentMethodID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "The payment instrument is not valid.").
			WithPointer("paymentInstrument")
	}
	method, err := s.repo.FindForCustomer(ctx, paymentMethodID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "The payment instrument does not belong to this customer.").
				WithPointer("paymentInstrument")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment method")
	}
	return method, nil
}

// ListInstruments returns one cursor page of the customer's vaulted
// instruments plus the cursor of the next page, empty on the last one.
func (s *service) ListInstruments(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.PaymentMethod, string, error) {
	if customerID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	methods, err := s.repo.ListPageByCustomer(ctx, customerID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment methods")
	}

	next := ""
	if len(methods) > limit {
		methods = methods[:limit]
		last := methods[limit-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return methods, next, nil
}

func (s *service) ensureSquareCustomer(ctx context.Context, customer *models.Customer) (string, error) {
	if customer.SquareCustomerID != nil && strings.TrimSpace(*customer.SquareCustomerID) != "" {
		return strings.TrimSpace(*customer.SquareCustomerID), nil
	}

	created, err := s.square.CreateCustomer(ctx, square.CustomerCreateParams{
		Email:       customer.Email,
		ReferenceID: customer.ID.String(),
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create square customer")
	}
	if created == nil || created.GetID() == nil || strings.TrimSpace(*created.GetID()) == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "square customer missing id")
	}

	id := strings.TrimSpace(*created.GetID())
	customer.SquareCustomerID = &id
	if err := s.repo.SaveCustomer(ctx, customer); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist square customer id")
	}
	return id, nil
}

func buildPaymentMethod(card *sq.Card, customerID uuid.UUID, squareCustomerID string, isDefault bool) *models.PaymentMethod {
	method := &models.PaymentMethod{
		CustomerID:   customerID,
		SquareCardID: strings.TrimSpace(*card.GetID()),
		CardLast4:    card.GetLast4(),
		CardExpMonth: intPointer(card.GetExpMonth()),
		CardExpYear:  intPointer(card.GetExpYear()),
		IsDefault:    isDefault,
	}
	if brand := card.GetCardBrand(); brand != nil && strings.TrimSpace(string(*brand)) != "" {
		value := string(*brand)
		method.CardBrand = &value
	}

	meta := map[string]string{"square_customer_id": squareCustomerID}
	if name := card.GetCardholderName(); name != nil && strings.TrimSpace(*name) != "" {
		meta["cardholder_name"] = strings.TrimSpace(*name)
	}
	if data, err := json.Marshal(meta); err == nil {
		method.Metadata = data
	}
	return method
}

func intPointer(value *int64) *int {
	if value == nil {
		return nil
	}
	v := int(*value)
	return &v
}
