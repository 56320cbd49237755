package auth

import (
	"errors"
	"net/http"

	"moneybot/internal/log"
)

// Middleware authenticates every request. A missing token is rejected unless
// anonymousUserID is set, in which case the request runs as that user.
// Invalid tokens are always rejected.
func Middleware(v *Verifier, anonymousUserID string, onError func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := log.FromContext(ctx).WithComponent(log.ComponentAuth)

			user, err := v.Verify(BearerToken(r))
			switch {
			case err == nil:
			case errors.Is(err, ErrMissingToken) && anonymousUserID != "":
				user = User{ID: anonymousUserID}
			default:
				logger.WarnContext(ctx, "Authentication failed", log.FieldError, err)
				onError(w, r, err)
				return
			}

			ctx = NewContext(ctx, user)
			ctx = log.NewContext(ctx, log.FromContext(ctx).With(log.FieldUserID, user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
