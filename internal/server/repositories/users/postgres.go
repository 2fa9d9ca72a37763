package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, email, name, password_hash, permissions, reset_token, reset_token_expiry, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u           models.User
		permissions string
		token       sql.NullString
		expiry      sql.NullTime
	)

	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &permissions, &token, &expiry, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	u.Permissions = models.SplitPermissions(permissions)
	if token.Valid {
		u.ResetToken = &token.String
	}
	if expiry.Valid {
		u.ResetTokenExpiry = &expiry.Time
	}
	return &u, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, name, password_hash, permissions)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, models.JoinPermissions(user.Permissions)).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `
	return r.queryOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, email, token string, expiry time.Time) error {
	query :=
		`UPDATE users SET reset_token = $2, reset_token_expiry = $3
		 WHERE email = $1
		 `

	res, err := r.db.ExecContext(ctx, query, email, token, expiry)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) FindByResetToken(ctx context.Context, token string, notBefore time.Time) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE reset_token = $1 AND reset_token_expiry >= $2
		 LIMIT 1
		 `
	return r.queryOne(ctx, query, token, notBefore)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (*models.User, error) {
	query :=
		`UPDATE users SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL
		 WHERE id = $1
		 RETURNING ` + userColumns
	return r.queryOne(ctx, query, id, passwordHash)
}

func (r *PostgresRepository) UpdatePermissions(ctx context.Context, id string, perms []models.Permission) (*models.User, error) {
	query :=
		`UPDATE users SET permissions = $2
		 WHERE id = $1
		 RETURNING ` + userColumns
	return r.queryOne(ctx, query, id, models.JoinPermissions(perms))
}
