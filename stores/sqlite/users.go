// Package sqlite implements domain.UserStore on an embedded SQLite database
// (modernc.org/sqlite, no cgo). It suits single-node deployments that need
// accounts to survive a restart without running PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrEthical07/authservice/domain"
	"github.com/MrEthical07/authservice/stores"
	"github.com/MrEthical07/authservice/stores/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// UserStore keeps accounts in the users table.
type UserStore struct {
	db     *sql.DB
	hasher stores.Hasher
	decoy  stores.Decoy
}

// Open opens (creating if needed) the database at path and applies the
// embedded migrations.
func Open(ctx context.Context, path string, h stores.Hasher) (*UserStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite: storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &UserStore{db: db, hasher: h}, nil
}

func (s *UserStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *UserStore) AddUser(ctx context.Context, user domain.User) error {
	sealed, err := stores.SealUser(ctx, s.hasher, user)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, requires_2fa, created_at) VALUES (?, ?, ?, ?)`,
		sealed.Email.Expose(), sealed.PasswordHash, sealed.Requires2FA, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("%w: insert user: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *UserStore) GetUser(ctx context.Context, email domain.Email) (domain.User, error) {
	user := domain.User{Email: email}
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash, requires_2fa FROM users WHERE email = ?`,
		email.Expose(),
	).Scan(&user.PasswordHash, &user.Requires2FA)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("%w: select user: %v", domain.ErrStoreUnavailable, err)
	}
	return user, nil
}

func (s *UserStore) ValidateUser(ctx context.Context, email domain.Email, password domain.Password) error {
	user, err := s.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.decoy.Spend(ctx, s.hasher, password)
		}
		return err
	}
	return stores.CheckPassword(ctx, s.hasher, user.PasswordHash, password)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

var _ domain.UserStore = (*UserStore)(nil)
