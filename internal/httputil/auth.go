package httputil

import (
	"context"
	"errors"
	"net/http"

	"restaurant-system/internal/apperror"
	"restaurant-system/internal/auth"
	"restaurant-system/internal/models"
)

// UserLookup resolves the user named in a token.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticator gates handlers behind a valid bearer token. The token's user
// is re-read on every request so deleted users and role changes take effect
// before the token expires.
type Authenticator struct {
	validator auth.TokenValidator
	users     UserLookup
	responder *Responder
}

func NewAuthenticator(validator auth.TokenValidator, users UserLookup, rs *Responder) *Authenticator {
	return &Authenticator{validator: validator, users: users, responder: rs}
}

// Authenticate resolves the request's user from its bearer token.
func (a *Authenticator) Authenticate(r *http.Request) (*models.User, error) {
	claims, err := a.validator.Validate(auth.ExtractBearerToken(r))
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) {
			return nil, apperror.Unauthorized("not authenticated")
		}
		return nil, apperror.Wrap(apperror.KindUnauthorized, err, "could not validate credentials")
	}

	user, err := a.users.GetUserByUsername(r.Context(), claims.Subject)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Unauthorized("could not validate credentials")
		}
		return nil, err
	}
	if user.Role != claims.Role {
		return nil, apperror.Unauthorized("could not validate credentials")
	}
	return user, nil
}

// RequireUser admits any authenticated user.
func (a *Authenticator) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := a.Authenticate(r)
		if err != nil {
			a.responder.Error(w, r, "authentication_failed", err)
			return
		}
		next(w, r.WithContext(auth.WithUser(r.Context(), user)))
	}
}

// RequireAdmin admits only users with the admin role.
func (a *Authenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		user, _ := auth.UserFromContext(r.Context())
		if user.Role != models.RoleAdmin {
			a.responder.Error(w, r, "authorization_failed", apperror.Forbidden("admin privileges required"))
			return
		}
		next(w, r)
	})
}
