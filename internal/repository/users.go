package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ajibade-k/budgetwise/internal/common"
	"github.com/ajibade-k/budgetwise/internal/entity"
)

// CreateUserRequest carries the fields signup persists.
type CreateUserRequest struct {
	Email             string
	FullName          string
	PasswordHash      string
	VerificationToken string
}

type UserRepository interface {
	Create(ctx context.Context, req CreateUserRequest) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*entity.User, error)
	UpdateIncome(ctx context.Context, id uuid.UUID, income decimal.Decimal) (*entity.User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewUserRepository(pool *pgxpool.Pool, log *slog.Logger) UserRepository {
	return &userRepo{pool: pool, log: log}
}

const userColumns = `id, email, full_name, password, monthly_income, email_verified, verification_token, created_at`

func (r *userRepo) Create(ctx context.Context, req CreateUserRequest) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, password, verification_token)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		req.Email, req.FullName, req.PasswordHash, req.VerificationToken)

	u, err := scanUser(row)
	if err != nil {
		r.log.Error("user create failed", "email", req.Email, "err", err)
		return nil, err
	}
	r.log.Info("user created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUserNotFound(row)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUserNotFound(row)
}

func (r *userRepo) GetByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token)
	return scanUserNotFound(row)
}

func (r *userRepo) UpdateIncome(ctx context.Context, id uuid.UUID, income decimal.Decimal) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET monthly_income = $2 WHERE id = $1
		RETURNING `+userColumns,
		id, income)

	u, err := scanUserNotFound(row)
	if err != nil {
		r.log.Error("user income update failed", "user_id", id, "err", err)
		return nil, err
	}
	r.log.Info("user income updated", "user_id", id)
	return u, nil
}

func (r *userRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET email_verified = TRUE, verification_token = NULL WHERE id = $1`, id)
	if err != nil {
		r.log.Error("user verify failed", "user_id", id, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	r.log.Info("user email verified", "user_id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		u      entity.User
		income decimal.NullDecimal
	)
	if err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.Password,
		&income, &u.EmailVerified, &u.VerificationToken, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	if income.Valid {
		u.MonthlyIncome = &income.Decimal
	}
	return &u, nil
}

func scanUserNotFound(row rowScanner) (*entity.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return u, err
}
