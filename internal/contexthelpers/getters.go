package contexthelpers

import (
	"context"
)

// HasAccess reports whether the request carries a session that passed access code verification.
func HasAccess(ctx context.Context) bool {
	hasAccess, ok := ctx.Value(hasAccessContextKey).(bool)
	if !ok {
		return false
	}

	return hasAccess
}

func PlayerID(ctx context.Context) string {
	playerID, ok := ctx.Value(playerIDContextKey).(string)
	if !ok {
		return ""
	}

	return playerID
}

func CaseSlug(ctx context.Context) string {
	slug, ok := ctx.Value(caseSlugContextKey).(string)
	if !ok {
		return ""
	}

	return slug
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

func CSPNonce(ctx context.Context) string {
	nonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return nonce
}
