package models

type contextKey string

// IdentityContextKey carries the authenticated caller identity through the
// request context. The registry trusts the value as-is; verification happens
// upstream.
const IdentityContextKey contextKey = "identity"
