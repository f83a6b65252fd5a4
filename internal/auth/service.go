// Package auth authenticates users and registers new ones.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/audit"
	"github.com/tuanvumaihuynh/warehouse/internal/event"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

// dummyHash is compared against when the user does not exist so both login
// failures take the same time.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := HashPassword("not-a-password")
	return hash
})

type Token struct {
	AccessToken string
	ExpiresAt   time.Time
	Username    string
	Roles       []model.Role
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
	Roles    []model.Role
}

type Service interface {
	Login(ctx context.Context, username, password string) (Token, error)
	Register(ctx context.Context, params RegisterParams, actorID int64) (int64, error)
	FindEmailsByRole(ctx context.Context, role model.Role) ([]string, error)
}

type service struct {
	logger         *slog.Logger
	db             db.DB
	userRepo       repository.UserRepository
	tokens         *TokenManager
	auditPublisher event.AuditPublisher
}

func NewService(
	logger *slog.Logger,
	db db.DB,
	userRepo repository.UserRepository,
	tokens *TokenManager,
	auditPublisher event.AuditPublisher,
) Service {
	return &service{
		logger:         logger.With(slog.String("service", "auth")),
		db:             db,
		userRepo:       userRepo,
		tokens:         tokens,
		auditPublisher: auditPublisher,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (Token, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return Token{}, fmt.Errorf("user repository find user by username: %w", err)
	}

	hash := user.PasswordHash
	if hash == "" {
		hash = dummyHash()
	}

	ok, err := CheckPassword(hash, password)
	if err != nil {
		s.logger.WarnContext(ctx, "malformed password hash", slog.Int64("user_id", user.ID), slog.Any("error", err))
	}
	if !ok || user.ID == 0 {
		return Token{}, apperr.InvalidCredentialsErr
	}

	accessToken, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return Token{}, fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))

	return Token{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		Username:    user.Username,
		Roles:       user.Roles,
	}, nil
}

func (s *service) Register(ctx context.Context, params RegisterParams, actorID int64) (int64, error) {
	roles := slices.Clone(params.Roles)
	if len(roles) == 0 {
		roles = []model.Role{model.RoleUser}
	}
	for _, role := range roles {
		if err := role.Validate(); err != nil {
			return 0, apperr.InvalidRoleErr.WrapParent(err)
		}
	}
	slices.Sort(roles)
	roles = slices.Compact(roles)

	exists, err := s.userRepo.ExistsUserByUsername(ctx, params.Username)
	if err != nil {
		return 0, fmt.Errorf("user repository exists user by username: %w", err)
	}
	if exists {
		return 0, apperr.UsernameConflictErr
	}

	exists, err = s.userRepo.ExistsUserByEmail(ctx, params.Email)
	if err != nil {
		return 0, fmt.Errorf("user repository exists user by email: %w", err)
	}
	if exists {
		return 0, apperr.EmailConflictErr
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		id, err = s.userRepo.
			WithDB(db).
			CreateUser(ctx, repository.CreateUserParams{
				Username:     params.Username,
				Email:        params.Email,
				PasswordHash: hash,
				Roles:        roles,
			})
		if err != nil {
			return fmt.Errorf("user repository create user: %w", err)
		}
		return nil
	}); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return 0, apperr.UsernameConflictErr.WrapParent(err)
		case errors.Is(err, repository.ErrEmailTaken):
			return 0, apperr.EmailConflictErr.WrapParent(err)
		}
		return 0, fmt.Errorf("db with tx: %w", err)
	}

	s.auditPublisher.PublishAudit(ctx, audit.NewEvent(actorID, model.AuditActionCreate, model.EntityKindUser, id, time.Now()))

	return id, nil
}

// FindEmailsByRole lists the emails of users holding role.
func (s *service) FindEmailsByRole(ctx context.Context, role model.Role) ([]string, error) {
	emails, err := s.userRepo.FindEmailsByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("user repository find emails by role: %w", err)
	}
	return emails, nil
}
