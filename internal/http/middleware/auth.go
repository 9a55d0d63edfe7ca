// Package middleware holds the HTTP middlewares specific to the API surface:
// owner authentication and request rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/http/response"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/repository"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/auth"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/logger"
)

type ctxKey string

const ctxOwner ctxKey = "owner"

// Owner is the authenticated caller with their hotel set resolved once per
// request. Handlers scope every query to HotelIDs instead of re-checking
// ownership row by row.
type Owner struct {
	ID       int64
	Email    string
	HotelIDs []int64
}

// OwnerAuth authenticates the Bearer token and resolves the owner's hotels.
type OwnerAuth struct {
	secret string
	db     repository.Querier
	hotels repository.HotelRepository
}

func NewOwnerAuth(secret string, db repository.Querier, hotels repository.HotelRepository) *OwnerAuth {
	return &OwnerAuth{secret: secret, db: db, hotels: hotels}
}

func (a *OwnerAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			response.Unauthorized(w, "missing bearer token")
			return
		}

		claims, err := auth.Parse(strings.TrimPrefix(authz, "Bearer "), a.secret)
		if err != nil {
			response.Unauthorized(w, "invalid token")
			return
		}
		if claims.Role != "owner" {
			response.Unauthorized(w, "owner token required")
			return
		}

		ownerID := claims.Sub
		if ownerID <= 0 {
			response.Unauthorized(w, "invalid token subject")
			return
		}

		hotelIDs, err := a.hotels.ListIDsByOwner(r.Context(), a.db, ownerID)
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to resolve owner hotels", "error", err, "owner_id", ownerID)
			response.InternalError(w, "internal error")
			return
		}

		owner := &Owner{ID: ownerID, Email: claims.Email, HotelIDs: hotelIDs}
		ctx := context.WithValue(r.Context(), ctxOwner, owner)
		ctx = context.WithValue(ctx, logger.OwnerIDKey, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithOwner injects an authenticated owner into the context. Handler tests
// use it to skip the JWT round-trip.
func WithOwner(ctx context.Context, o *Owner) context.Context {
	return context.WithValue(ctx, ctxOwner, o)
}

// CurrentOwner returns the authenticated owner, or nil outside the
// authenticated route group.
func CurrentOwner(r *http.Request) *Owner {
	v := r.Context().Value(ctxOwner)
	if v == nil {
		return nil
	}
	return v.(*Owner)
}
