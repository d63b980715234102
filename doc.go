// Package accounts implements the account lifecycle and authentication core
// of the polling backend: registration, email-based activation, credential
// login, and signed session-token issuance.
//
// Lifecycle:
//   - Register checks username/email uniqueness, hashes the password,
//     persists a disabled account, and dispatches an activation token
//     through the NotificationGateway. New accounts always start with
//     Enabled=false.
//   - Activate exchanges a valid activation token for Enabled=true. Repeat
//     activations are rejected, not silently absorbed.
//   - Login verifies credentials and account state (locked, disabled) and
//     mints a session token. No token is ever issued for a failed check.
//
// Audit sinks:
//   - AuditSink is a best-effort emitter of structured lifecycle events.
//     Sink failures are logged and never block or fail the operation that
//     triggered them, so hosts can forward events to a stream or broker
//     without touching the response path.
//
// Collaborators:
//   - AccountStore, NotificationGateway, and AuditSink are narrow
//     interfaces. The package ships a bun-backed store and a
//     django-template notifier, but the Auther only ever talks to the
//     interfaces, so hosts can swap either without touching the lifecycle.
package accounts
