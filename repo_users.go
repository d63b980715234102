package accounts

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the bun-backed account repository. It satisfies AccountStore so
// it can be handed straight to NewAuther.
type Users interface {
	repository.Repository[*User]
	AccountStore
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users        = (*users)(nil)
	_ AccountStore = (*users)(nil)
)

// NewUsersRepository builds the Users repository on top of the provided
// bun DB. The users table must exist; see GetMigrationsFS.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Exists(ctx)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email existence")
	}
	return exists, nil
}

func (a *users) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.username = ?", strings.TrimSpace(username)).
		Exists(ctx)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username existence")
	}
	return exists, nil
}

func (a *users) FindByUsername(ctx context.Context, username string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", strings.TrimSpace(username)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user by username")
	}
	return record, nil
}

// Save inserts new records and updates existing ones by identity. New
// records are detected by the unset creation timestamp; the insert rides on
// the table's unique indexes, which is what makes the registration
// check-and-insert race safe.
func (a *users) Save(ctx context.Context, user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	if user.CreatedAt == nil {
		if _, err := a.Create(ctx, user); err != nil {
			return mapUserConflict(err)
		}
		return nil
	}

	now := time.Now()
	user.UpdatedAt = &now

	_, err := a.db.NewUpdate().
		Model(user).
		WherePK().
		Column("password_hash", "enabled", "account_locked", "updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user")
	}
	return nil
}

// mapUserConflict translates driver-level unique violations into the
// package's conflict taxonomy. Covers sqlite ("UNIQUE constraint failed:
// users.email") and postgres ("duplicate key value violates unique
// constraint") phrasing.
func mapUserConflict(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint") && !strings.Contains(msg, "duplicate key") {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert user")
	}

	switch {
	case strings.Contains(msg, "email"):
		return ErrEmailTaken
	case strings.Contains(msg, "username"):
		return ErrUsernameTaken
	default:
		return goerrors.Wrap(err, goerrors.CategoryConflict, "user conflicts with an existing record")
	}
}
