package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillhive/skillhive-go/internal/model"
)

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a new user and fills in CreatedAt.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (user_id, email, username, password_hash, stack)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		u.UserID, u.Email, u.Username, u.PasswordHash, u.Stack,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// FindByUserID returns a single user by ID.
func (r *UserRepo) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	return r.findOne(ctx, `
		SELECT user_id, email, username, password_hash, stack, created_at
		FROM users
		WHERE user_id = $1`, userID)
}

// FindByEmail returns a single user by (lowercased) email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `
		SELECT user_id, email, username, password_hash, stack, created_at
		FROM users
		WHERE email = $1`, email)
}

// UpdateUsername sets the username. An unknown user yields pgx.ErrNoRows.
func (r *UserRepo) UpdateUsername(ctx context.Context, userID, username string) error {
	return r.updateOne(ctx, `UPDATE users SET username = $2 WHERE user_id = $1`, userID, username)
}

// UpdatePasswordHash replaces the stored hash. An unknown user yields
// pgx.ErrNoRows.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	return r.updateOne(ctx, `UPDATE users SET password_hash = $2 WHERE user_id = $1`, userID, passwordHash)
}

func (r *UserRepo) updateOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.UserID, &u.Email, &u.Username, &u.PasswordHash, &u.Stack, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.Stack == nil {
		u.Stack = []string{}
	}
	return &u, nil
}
