// Package identity carries the verified request identity through the
// request context, from the auth gate to downstream handlers.
package identity
