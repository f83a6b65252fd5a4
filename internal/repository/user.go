package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Roles        []model.Role
}

type UserRepository interface {
	WithDB(db db.DB) UserRepository
	FindUserByUsername(ctx context.Context, username string) (model.User, error)
	ExistsUserByUsername(ctx context.Context, username string) (bool, error)
	ExistsUserByEmail(ctx context.Context, email string) (bool, error)
	// CreateUser inserts the user and its roles. Run it inside a transaction.
	CreateUser(ctx context.Context, params CreateUserParams) (int64, error)
	FindEmailsByRole(ctx context.Context, role model.Role) ([]string, error)
}

type userRepository struct {
	db db.DB
}

func NewUserRepository(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) WithDB(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) FindUserByUsername(ctx context.Context, username string) (model.User, error) {
	var (
		user  model.User
		roles []string
	)
	err := r.db.QueryRow(ctx, `
		SELECT
			u.id,
			u.username,
			u.email,
			u.password_hash,
			COALESCE(ARRAY_AGG(ur.role ORDER BY ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')::text[]
		FROM users AS u
		LEFT JOIN user_roles AS ur ON ur.user_id = u.id
		WHERE u.username = @username
		GROUP BY u.id
	`, pgx.NamedArgs{"username": username}).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&roles,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("find user by username: %w", err)
	}

	user.Roles = make([]model.Role, 0, len(roles))
	for _, role := range roles {
		user.Roles = append(user.Roles, model.Role(role))
	}

	return user, nil
}

func (r userRepository) ExistsUserByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = @username)
	`, pgx.NamedArgs{"username": username}).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists user by username: %w", err)
	}

	return exists, nil
}

func (r userRepository) ExistsUserByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = @email)
	`, pgx.NamedArgs{"email": email}).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists user by email: %w", err)
	}

	return exists, nil
}

func (r userRepository) CreateUser(ctx context.Context, params CreateUserParams) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES (@username, @email, @password_hash)
		RETURNING id
	`, pgx.NamedArgs{
		"username":      params.Username,
		"email":         params.Email,
		"password_hash": params.PasswordHash,
	}).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert user: %w", translateConstraintErr(err))
	}

	roles := make([]string, 0, len(params.Roles))
	for _, role := range params.Roles {
		roles = append(roles, string(role))
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO user_roles (user_id, role)
		SELECT @user_id::bigint, UNNEST(@roles::text[])
		ON CONFLICT DO NOTHING
	`, pgx.NamedArgs{
		"user_id": id,
		"roles":   roles,
	}); err != nil {
		return 0, fmt.Errorf("insert user roles: %w", err)
	}

	return id, nil
}

func (r userRepository) FindEmailsByRole(ctx context.Context, role model.Role) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.email
		FROM users AS u
		JOIN user_roles AS ur ON ur.user_id = u.id
		WHERE ur.role = @role
		ORDER BY u.id
	`, pgx.NamedArgs{"role": string(role)})
	if err != nil {
		return nil, fmt.Errorf("find emails by role: %w", err)
	}

	emails, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect emails: %w", err)
	}

	return emails, nil
}
