package middleware

import (
	"net/http"

	"polyglot-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	ServiceTokenHeader = "X-Service-Token"
	ServiceNameHeader  = "X-Service-Name"
)

// ServiceToken guards internal routes with a shared token checked against a
// bcrypt hash. An empty hash disables the check.
func ServiceToken(tokenHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := r.Header.Get(ServiceNameHeader)
			if caller == "" {
				caller = "anonymous"
			}

			if tokenHash == "" {
				next.ServeHTTP(w, r.WithContext(utils.SetCallerContext(r.Context(), caller)))
				return
			}

			token := r.Header.Get(ServiceTokenHeader)
			if token == "" {
				utils.ResponseUnauthorized(w, "Missing service token")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				logger.Warn("Rejected service token",
					zap.String("caller", caller),
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.ResponseUnauthorized(w, "Invalid service token")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetCallerContext(r.Context(), caller)))
		})
	}
}

// HashServiceToken returns the bcrypt hash to configure as SERVICE_TOKEN_HASH.
func HashServiceToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
