// Package token issues and validates the signed identity tokens used by the
// Kick Shopping API. Tokens are HS256 JWTs carrying the subject, role id,
// user id, and an access/refresh discriminator.
package token
