package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserStatus is a read-only view over the persisted enablement flags
type UserStatus = string

const (
	// UserStatusPending means the account was registered but never activated
	UserStatusPending UserStatus = "pending"
	// UserStatusActive means the account completed activation
	UserStatusActive UserStatus = "active"
	// UserStatusLocked means the account was locked by an external process
	UserStatusLocked UserStatus = "locked"
)

// User is the account record. Username and email are immutable after
// creation and unique across all records; the store enforces both.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	City          string     `bun:"city" json:"city,omitempty"`
	Country       string     `bun:"country" json:"country,omitempty"`
	Enabled       bool       `bun:"enabled" json:"enabled"`
	AccountLocked bool       `bun:"account_locked" json:"account_locked"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Status derives the lifecycle state from the persisted flags. Locked wins
// over pending so telemetry matches the login gate's check order.
func (u *User) Status() UserStatus {
	switch {
	case u.AccountLocked:
		return UserStatusLocked
	case !u.Enabled:
		return UserStatusPending
	default:
		return UserStatusActive
	}
}

// CanActivate reports whether the record is still waiting on its one
// pending -> active transition.
func (u *User) CanActivate() bool {
	return !u.Enabled
}
