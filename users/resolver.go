package users

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/auth"
)

// Resolver maps an external authenticated principal to an internal user
// record, creating one on first sight. Email is the reconciliation fallback
// for users who previously existed under a different principal.
type Resolver struct {
	store Store
}

// NewResolver creates a new Resolver.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the internal user for the principal. Performs at most one
// write: either attaching the external id to an existing email-matched record
// or creating a new user.
func (r *Resolver) Resolve(ctx context.Context, p *auth.Principal) (*User, error) {
	user, err := r.store.GetByExternalID(ctx, p.ExternalID)
	if err == nil {
		return user, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	// Email uniqueness is the fallback join key; without it a user can
	// neither be reconciled nor created.
	if p.Email == "" {
		return nil, apperror.NewValidationError("identity token carries no usable email", nil)
	}

	user, err = r.store.GetByEmail(ctx, p.Email)
	if err == nil {
		attached, attachErr := r.store.AttachExternalID(ctx, user.ID, p.ExternalID)
		if attachErr != nil {
			return nil, attachErr
		}
		slog.Info("reconciled user with new external identity", "user_id", attached.ID)
		return attached, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	created, err := r.store.Create(ctx, &User{
		ExternalID: p.ExternalID,
		Email:      p.Email,
		Name:       p.Name,
		AvatarURL:  p.AvatarURL,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("created user on first authenticated request", "user_id", created.ID)
	return created, nil
}

// ResolveUser is middleware that runs the resolver once per request and adds
// the internal user id to the context. It must sit behind auth.Middleware.
func ResolveUser(resolver *Resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				auth.WriteError(w, r, apperror.NewAuthError("no authenticated principal in context", nil))
				return
			}

			user, err := resolver.Resolve(r.Context(), principal)
			if err != nil {
				auth.WriteError(w, r, err)
				return
			}

			ctx := auth.NewContextWithUserID(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
