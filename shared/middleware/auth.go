package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/medina-starter/accounts/shared/domain"
	"github.com/medina-starter/accounts/shared/errors"
	jwt_internal "github.com/medina-starter/accounts/shared/jwt"
	"github.com/medina-starter/accounts/shared/utils"
)

// Principal is the authenticated caller of a protected route.
type Principal struct {
	Id    domain.UserId
	Email domain.Email
}

// Key to store the principal in the request context
type key int

const PrincipalKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService jwt_internal.JwtService
}

func NewAuth(jwtService jwt_internal.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

var errNoToken = errors.New(errors.KindUnauthorized, "Please sign-in")

// extractPrincipal validates the bearer token of r.
func (a *Auth) extractPrincipal(r *http.Request) (*Principal, error) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, domain.TokenTypeBearer) || strings.TrimSpace(token) == "" {
		return nil, errNoToken
	}

	claims, err := a.jwtService.DecodeToken(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	id, err := claims.UserId()
	if err != nil {
		return nil, errors.Wrap(errors.KindUnauthorized, "Invalid token", err)
	}
	return &Principal{Id: id, Email: claims.Email}, nil
}

// NeedAuth returns middleware that requires a valid bearer token.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := a.extractPrincipal(r)
			if err != nil {
				utils.WriteError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipalFromContext retrieves the principal stored by NeedAuth.
func GetPrincipalFromContext(r *http.Request) *Principal {
	principal, ok := r.Context().Value(PrincipalKey).(*Principal)
	if !ok {
		return nil
	}
	return principal
}
