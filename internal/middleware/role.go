package middleware

import (
	"net/http"
	"time"

	"infinite-experiment/flightdeck/internal/auth"
	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/constants"
)

// IsOperatorMiddleware admits only operator accounts. Must run after AuthMiddleware.
func IsOperatorMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || !claims.IsOperator() {
				common.RespondError(w, time.Now(), nil, constants.MsgForbidden+". Need operator role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
