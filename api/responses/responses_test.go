package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/types"
	"github.com/mpoberly/storefront-backend/pkg/validation"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteAttachesMetaAndLinks(t *testing.T) {
	w := httptest.NewRecorder()
	meta := map[string]any{"constraints": []string{"email"}}
	links := map[string]string{"shipping-methods": "/api/v1/cart/abc/shipping-methods"}
	Write(w, http.StatusOK, map[string]string{}, meta, links)

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Meta == nil || body.Meta["constraints"] == nil {
		t.Fatalf("expected constraints meta, got %v", body.Meta)
	}
	if body.Links["shipping-methods"] == "" {
		t.Fatalf("expected shipping-methods link, got %v", body.Links)
	}
}

func TestWriteErrorCarriesPointer(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeUnprocessable, "The order is no longer editable.").
		WithPointer("state")
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if len(body.Errors) != 1 {
		t.Fatalf("expected one entry, got %d", len(body.Errors))
	}
	entry := body.Errors[0]
	if entry.Status != "422" {
		t.Fatalf("unexpected status %s", entry.Status)
	}
	if entry.Detail != "The order is no longer editable." {
		t.Fatalf("unexpected detail %q", entry.Detail)
	}
	if entry.Source == nil || entry.Source.Pointer != "state" {
		t.Fatalf("expected source pointer state, got %v", entry.Source)
	}
}

func TestWriteErrorExpandsViolations(t *testing.T) {
	w := httptest.NewRecorder()
	violations := validation.Violations{
		{Detail: "first", Pointer: "items.0.quantity"},
		{Detail: "second", Pointer: "items.1.quantity"},
	}
	err := pkgerrors.New(pkgerrors.CodeUnprocessable, "first").
		WithPointer("items.0.quantity").
		WithDetails(violations)
	WriteError(context.Background(), nil, w, err)

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if len(body.Errors) != 2 {
		t.Fatalf("expected two entries, got %d", len(body.Errors))
	}
	if body.Errors[1].Source == nil || body.Errors[1].Source.Pointer != "items.1.quantity" {
		t.Fatalf("unexpected second entry %+v", body.Errors[1])
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if len(body.Errors) != 1 {
		t.Fatalf("expected one entry, got %d", len(body.Errors))
	}
	if body.Errors[0].Detail == "boom" {
		t.Fatalf("internal error details must not leak")
	}
}
