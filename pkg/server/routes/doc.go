// Package routes decides, for every inbound (path, method) pair, whether a
// request is public, requires authentication only, or requires a
// role-permission check — and rewrites concrete paths into the permission
// templates the authorization store is keyed by.
package routes
