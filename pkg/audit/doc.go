// Package audit provides audit logging for security-relevant operations.
//
// This package implements structured audit logging for login attempts,
// permission checks on protected routes, and completed purchases.
//
// # Event Types
//
//   - Login events (success/failure)
//   - Permission check events (allowed/denied)
//   - Purchase events
//
// # Usage
//
//	audit.Log(audit.LoginEvent{Username: username, ClientIP: ip, Success: true})
//
// Events are written to stdout in RFC5424 syslog format and, when
// AUDIT_DATABASE_URL is set, mirrored to the audit_messages table.
package audit
