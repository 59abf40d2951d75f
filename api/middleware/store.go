package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/api/responses"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/logger"
)

type storeResolver interface {
	FindByHostname(ctx context.Context, host string) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
}

// ResolveStore binds the storefront the request is addressed to. The
// X-Store-Slug header wins when present, otherwise the request host is
// matched against store hostname lists.
func ResolveStore(resolver storeResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				store *models.Store
				err   error
			)
			if slug := strings.TrimSpace(r.Header.Get("X-Store-Slug")); slug != "" {
				store, err = resolver.FindBySlug(r.Context(), slug)
			} else {
				store, err = resolver.FindByHostname(r.Context(), requestHost(r))
			}
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "unknown storefront"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve store"))
				return
			}
			if !store.Enabled {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "storefront disabled"))
				return
			}

			ctx := WithStoreID(r.Context(), store.ID.String())
			if logg != nil {
				ctx = logg.WithStoreID(ctx, store.ID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StoreContext rejects requests that reached a store-scoped route
// without a resolved store.
func StoreContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if StoreIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestHost(r *http.Request) string {
	host := r.Host
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-Host")); forwarded != "" {
		host = forwarded
	}
	if trimmed, _, err := net.SplitHostPort(host); err == nil && trimmed != "" {
		host = trimmed
	}
	return strings.ToLower(host)
}
