package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
)

type stubStoreResolver struct {
	byHost map[string]*models.Store
	bySlug map[string]*models.Store
}

func (s stubStoreResolver) FindByHostname(_ context.Context, host string) (*models.Store, error) {
	if store, ok := s.byHost[host]; ok {
		return store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s stubStoreResolver) FindBySlug(_ context.Context, slug string) (*models.Store, error) {
	if store, ok := s.bySlug[slug]; ok {
		return store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestResolveStoreByHostname(t *testing.T) {
	store := &models.Store{ID: uuid.New(), Enabled: true}
	resolver := stubStoreResolver{byHost: map[string]*models.Store{"shop.example.com": store}}

	var captured string
	handler := ResolveStore(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = StoreIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "shop.example.com:8443"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured != store.ID.String() {
		t.Fatalf("expected store %s in context, got %q", store.ID, captured)
	}
}

func TestResolveStoreSlugHeaderWins(t *testing.T) {
	hostStore := &models.Store{ID: uuid.New(), Enabled: true}
	slugStore := &models.Store{ID: uuid.New(), Enabled: true}
	resolver := stubStoreResolver{
		byHost: map[string]*models.Store{"shop.example.com": hostStore},
		bySlug: map[string]*models.Store{"boutique": slugStore},
	}

	var captured string
	handler := ResolveStore(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = StoreIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "shop.example.com"
	req.Header.Set("X-Store-Slug", "boutique")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if captured != slugStore.ID.String() {
		t.Fatalf("expected slug store %s, got %q", slugStore.ID, captured)
	}
}

func TestResolveStoreUnknownHostForbidden(t *testing.T) {
	resolver := stubStoreResolver{}
	handler := ResolveStore(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "unknown.example.com"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestResolveStoreDisabledStoreForbidden(t *testing.T) {
	store := &models.Store{ID: uuid.New(), Enabled: false}
	resolver := stubStoreResolver{bySlug: map[string]*models.Store{"dark": store}}
	handler := ResolveStore(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Store-Slug", "dark")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestStoreContextGuard(t *testing.T) {
	handler := StoreContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	seeded := req.WithContext(WithStoreID(req.Context(), uuid.NewString()))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, seeded)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
