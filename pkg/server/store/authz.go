package store

// AuthzStore abstracts the per-request authorization check.
type AuthzStore interface {
	// HasPermission reports whether the role is linked to an active
	// permission for the (path template, method) pair. Absence of the
	// permission, the role, or the association — and any internal query
	// failure — all resolve to false (fail-closed).
	HasPermission(roleID int, template, method string) bool
}

// AuthzCacheInvalidator is implemented by authz stores that cache
// decisions. Every permission or assignment mutation must invalidate.
type AuthzCacheInvalidator interface {
	InvalidateAuthz()
}
