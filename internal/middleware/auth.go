// Package middleware provides HTTP middleware for the relay server.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// BusinessIDKey is the context key for the authenticated business id.
	BusinessIDKey ContextKey = "business_id"
	// SubjectKey is the context key for the token subject.
	SubjectKey ContextKey = "subject"
)

// Claims represents JWT claims for the business API.
type Claims struct {
	jwt.RegisteredClaims
	BusinessID string `json:"business_id"`
}

// Auth creates JWT authentication middleware for the business API.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, `{"error":"invalid authorization header format"}`, http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
			ctx = context.WithValue(ctx, BusinessIDKey, claims.BusinessID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetBusinessID gets the authenticated business id from context.
func GetBusinessID(ctx context.Context) string {
	if v := ctx.Value(BusinessIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetSubject gets the token subject from context.
func GetSubject(ctx context.Context) string {
	if v := ctx.Value(SubjectKey); v != nil {
		return v.(string)
	}
	return ""
}
