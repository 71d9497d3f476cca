// Package postgres implements domain.UserStore on PostgreSQL through a pgx
// connection pool. The schema ships as embedded golang-migrate migrations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/authservice/domain"
	"github.com/MrEthical07/authservice/stores"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the part of *pgxpool.Pool the store uses. pgxmock pools satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OpenPool connects to databaseURL and verifies the connection.
func OpenPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// UserStore keeps accounts in the users table.
type UserStore struct {
	db     DB
	hasher stores.Hasher
	decoy  stores.Decoy
}

func NewUserStore(db DB, h stores.Hasher) *UserStore {
	return &UserStore{db: db, hasher: h}
}

func (s *UserStore) AddUser(ctx context.Context, user domain.User) error {
	sealed, err := stores.SealUser(ctx, s.hasher, user)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO users (email, password_hash, requires_2fa)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
	`, sealed.Email.Expose(), sealed.PasswordHash, sealed.Requires2FA)
	if err != nil {
		return fmt.Errorf("%w: insert user: %v", domain.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserAlreadyExists
	}
	return nil
}

func (s *UserStore) GetUser(ctx context.Context, email domain.Email) (domain.User, error) {
	user := domain.User{Email: email}
	err := s.db.QueryRow(ctx, `
		SELECT password_hash, requires_2fa
		FROM users
		WHERE email = $1
	`, email.Expose()).Scan(&user.PasswordHash, &user.Requires2FA)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

var _ domain.UserStore = (*UserStore)(nil)
