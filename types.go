package accounts

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the options the Auther needs. Everything is passed in
// explicitly; the package keeps no ambient state.
type Config struct {
	SigningKey    []byte
	Issuer        string
	Audience      []string
	SessionTTL    time.Duration
	ActivationTTL time.Duration
	// Origin labels audit events emitted by the service.
	Origin string
}

func (c Config) withDefaults() Config {
	if c.SessionTTL == 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.ActivationTTL == 0 {
		c.ActivationTTL = 24 * time.Hour
	}
	if c.Origin == "" {
		c.Origin = "accounts.auther"
	}
	return c
}

// AccountStore is the durable user-record collaborator. Uniqueness of
// username and email is the store's responsibility: implementations must
// make the check-and-insert atomic so concurrent registrations cannot both
// succeed.
type AccountStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// NotificationGateway delivers the activation message. Best effort: the
// Auther logs delivery failures and moves on.
type NotificationGateway interface {
	SendActivation(ctx context.Context, token string, req RegistrationRequest) error
}

// PasswordAuthenticator hashes and verifies credentials
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenService mints and validates the signed tokens used for sessions and
// account activation. Validation is pure: signature plus absolute expiry,
// nothing else.
type TokenService interface {
	Issue(subject string, purpose TokenPurpose, ttl time.Duration) (string, error)
	Validate(token string) (*AccountClaims, error)
	Subject(token string) (string, error)
}

// Authenticator holds the lifecycle operations exposed to transports
type Authenticator interface {
	Register(ctx context.Context, req RegistrationRequest) (Result, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
	Activate(ctx context.Context, token string) (Result, error)
}

// Result is the uniform success/failure envelope for lifecycle operations
type Result struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// LoginResult adds the session token. Token is nil on every failure path.
type LoginResult struct {
	Result
	Token *string `json:"token"`
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
