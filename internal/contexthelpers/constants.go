package contexthelpers

type contextKey string

const hasAccessContextKey = contextKey("hasAccess")
const playerIDContextKey = contextKey("playerID")
const caseSlugContextKey = contextKey("caseSlug")
const currentPathContextKey = contextKey("currentPath")
const csrfTokenContextKey = contextKey("csrfToken")
const cspNonceContextKey = contextKey("cspNonce")
