package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"infinite-experiment/flightdeck/internal/auth"
	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/logging"
	"infinite-experiment/flightdeck/internal/models/entities"
)

// KeyLookup resolves an X-API-Key. Returns nil for unknown keys.
type KeyLookup interface {
	GetStatus(ctx context.Context, key string) (*entities.ApiKey, error)
}

var (
	errMissingCredentials = errors.New("Unauthorized. Missing bearer token or API key")
	errInvalidToken       = errors.New("Unauthorized. Invalid bearer token")
	errInvalidKey         = errors.New("Unauthorized. Invalid API Key")
	errInactiveKey        = errors.New("Unauthorized. Inactive API Key")
)

// AuthMiddleware resolves the caller's account id and role from a bearer token
// or an API key and stores them in the request context.
func AuthMiddleware(jwtSecret string, keys KeyLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			apiKey := r.Header.Get("X-API-Key")

			var claims auth.UserClaims

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				jwtClaims, err := auth.ParseToken(jwtSecret, strings.TrimPrefix(authHeader, "Bearer "))
				if err != nil {
					logging.Debug("Bearer token rejected", "error", err.Error())
					common.RespondError(w, initTime, errInvalidToken, "", http.StatusUnauthorized)
					return
				}
				claims = jwtClaims

			case apiKey != "":
				keyRes, err := keys.GetStatus(r.Context(), apiKey)
				if err != nil {
					logging.Error("API key lookup failed", "error", err)
					common.RespondError(w, initTime, nil, constants.MsgServerError, http.StatusInternalServerError)
					return
				}
				if keyRes == nil || !keyRes.Role.Valid() {
					common.RespondError(w, initTime, errInvalidKey, "", http.StatusUnauthorized)
					return
				}
				if !keyRes.Status {
					common.RespondError(w, initTime, errInactiveKey, "", http.StatusUnauthorized)
					return
				}
				claims = auth.MakeClaimsFromApiKey(keyRes)

			default:
				common.RespondError(w, initTime, errMissingCredentials, "", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
