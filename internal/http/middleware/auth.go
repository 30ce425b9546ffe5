package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey int

const (
	companyIDKey contextKey = iota
	actorIDKey
)

// Claims carried by access tokens issued by the identity service. The
// tenant and actor are always taken from the verified token, never from
// the request payload.
type claims struct {
	CompanyID string `json:"company_id"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token and injects tenant and actor ids into the
// request context. Requests without a valid token are rejected before any
// handler runs.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			var c claims

			parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}

				return []byte(secret), nil
			})
			if err != nil || !parsed.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			companyID, err := uuid.Parse(c.CompanyID)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			actorID, err := uuid.Parse(c.Subject)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), companyIDKey, companyID)
			ctx = context.WithValue(ctx, actorIDKey, actorID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CompanyID returns the authenticated tenant id from the context.
func CompanyID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(companyIDKey).(uuid.UUID)
	return id
}

// ActorID returns the authenticated user id from the context.
func ActorID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(actorIDKey).(uuid.UUID)
	return id
}
