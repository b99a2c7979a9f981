// internal/auth/middleware.go
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const claimsKey contextKey = "claims"

const ProvisioningKeyHeader = "X-Provisioning-Key"

// CodeUnauthorized is the error code sent when credentials are missing or
// invalid.
const CodeUnauthorized = "UNAUTHORIZED"

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": CodeUnauthorized, "message": message},
	})
}

func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauthorized(w, "missing or invalid Authorization header")
			return
		}

		tokenStr := strings.TrimPrefix(auth, "Bearer ")
		claims, err := ValidateToken(tokenStr)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ProvisioningKeyMiddleware guards the operator endpoints that create and
// remove tenants.
func ProvisioningKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(ProvisioningKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				unauthorized(w, "missing or invalid provisioning key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims extracts the admin claims from context
func GetClaims(r *http.Request) *Claims {
	if val, ok := r.Context().Value(claimsKey).(*Claims); ok {
		return val
	}
	return nil
}
