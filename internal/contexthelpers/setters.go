package contexthelpers

import (
	"context"
	"net/http"
)

// GrantAccess marks the request as belonging to playerID who unlocked the case identified by caseSlug.
func GrantAccess(r *http.Request, playerID, caseSlug string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, hasAccessContextKey, true)
	ctx = context.WithValue(ctx, playerIDContextKey, playerID)
	ctx = context.WithValue(ctx, caseSlugContextKey, caseSlug)
	return r.WithContext(ctx)
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, currentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, csrfTokenContextKey, csrfToken)
	return r.WithContext(ctx)
}

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, cspNonceContextKey, cspNonce)
	return r.WithContext(ctx)
}
