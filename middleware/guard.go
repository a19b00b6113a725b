package middleware

import (
	"context"
	"crypto/ecdsa"
	"net/http"
	"strings"

	"github.com/MrEthical07/tinyjwt"
)

type payloadContextKey struct{}

// PayloadFromContext returns the verified payload stored by a guard.
func PayloadFromContext(ctx context.Context) ([]byte, bool) {
	p, ok := ctx.Value(payloadContextKey{}).([]byte)
	return p, ok
}

type verifyFunc func(dst, token []byte) (int, error)

// Guard returns middleware that rejects requests without a bearer token that
// Decode accepts.
func Guard(m *tinyjwt.Manager) func(http.Handler) http.Handler {
	if m == nil {
		return reject
	}
	return guard(m.Decode)
}

// RequirePublic returns middleware that accepts any valid ES256 signature by pub.
func RequirePublic(m *tinyjwt.Manager, pub *ecdsa.PublicKey) func(http.Handler) http.Handler {
	if m == nil || pub == nil {
		return reject
	}
	return guard(func(dst, token []byte) (int, error) {
		return m.VerifyPublic(dst, token, pub)
	})
}

func guard(verify verifyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			raw := []byte(token)
			size, err := tinyjwt.PayloadCapacity(raw)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			buf := make([]byte, size)
			n, err := verify(buf, raw)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), payloadContextKey{}, buf[:n])
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
