package auth

import (
	"context"
)

type contextKey string

var (
	adminClaimsKey contextKey = "admin_claims"
	requestIDKey   contextKey = "request_id"
)

func SetClaims(ctx context.Context, claims *AdminClaims) context.Context {
	return context.WithValue(ctx, adminClaimsKey, claims)
}

func GetClaims(ctx context.Context) *AdminClaims {
	if claims, ok := ctx.Value(adminClaimsKey).(*AdminClaims); ok {
		return claims
	}
	return nil
}

// SetRequestID stores the request id so handlers and loggers can tag their output.
func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
