package middleware

import (
	"net/http"
	"strings"

	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/auth"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
)

// ErrorHandlerFunc writes err as the response.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// Authenticate requires a valid bearer token and stores the caller in the
// request context.
func Authenticate(verifier TokenVerifier, onError ErrorHandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				onError(w, r, apperr.UnauthorizedErr)
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				onError(w, r, apperr.UnauthorizedErr.WrapParent(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), principal)))
		})
	}
}

// RequireRoles rejects callers holding none of roles. It must run after
// Authenticate.
func RequireRoles(onError ErrorHandlerFunc, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.FromContext(r.Context())
			if !ok {
				onError(w, r, apperr.UnauthorizedErr)
				return
			}
			if !principal.HasAnyRole(roles...) {
				onError(w, r, apperr.ForbiddenErr)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
