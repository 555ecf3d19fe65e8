package auth

import (
	"net/http"
	"strings"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
	apphttp "github.com/forgelabs/forge/pkg/app/http"
)

// Middleware returns a chi middleware that requires a valid Bearer token and
// puts the authenticated user's identity on the request context.
func Middleware(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				apphttp.DefaultErrorHandler(w,
					apperrors.UnAuthorizedError(nil, "missing bearer token"))
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				apphttp.DefaultErrorHandler(w,
					apperrors.UnAuthorizedError(err, "invalid or expired token"))
				return
			}

			ctx := WithAuthInfo(r.Context(), &AuthInfo{
				UserID:   claims.UserID,
				Username: claims.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
