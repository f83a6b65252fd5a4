package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/auth"
	"github.com/tuanvumaihuynh/warehouse/internal/config"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type fakeDB struct {
	db.DB
}

func (f fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

type fakeUserRepo struct {
	repository.UserRepository
	users   map[string]model.User
	created []repository.CreateUserParams
	err     error
}

func (r *fakeUserRepo) WithDB(db.DB) repository.UserRepository { return r }

func (r *fakeUserRepo) FindUserByUsername(_ context.Context, username string) (model.User, error) {
	if r.err != nil {
		return model.User{}, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ExistsUserByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *fakeUserRepo) ExistsUserByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, params repository.CreateUserParams) (int64, error) {
	r.created = append(r.created, params)
	return int64(100 + len(r.created)), nil
}

func (r *fakeUserRepo) FindEmailsByRole(_ context.Context, role model.Role) ([]string, error) {
	var emails []string
	for _, u := range r.users {
		if u.HasAnyRole(role) {
			emails = append(emails, u.Email)
		}
	}
	return emails, nil
}

type fakePublisher struct {
	events []model.AuditEvent
}

func (p *fakePublisher) PublishAudit(_ context.Context, ev model.AuditEvent) {
	p.events = append(p.events, ev)
}

func newService(t *testing.T, repo *fakeUserRepo, pub *fakePublisher) (auth.Service, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager(config.Auth{JWTSecret: "s3cret", JWTIssuer: "warehouse", JWTExpiration: time.Hour})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(logger, fakeDB{}, repo, tokens, pub), tokens
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("pa55word")
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]model.User{
		"alice": {ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: hash, Roles: []model.Role{model.RoleAdmin}},
	}}

	t.Run("Should issue a verifiable token", func(t *testing.T) {
		svc, tokens := newService(t, repo, &fakePublisher{})

		token, err := svc.Login(ctx, "alice", "pa55word")
		require.NoError(t, err)
		assert.Equal(t, "alice", token.Username)

		p, err := tokens.Verify(token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.UserID)
	})

	t.Run("Should not distinguish unknown user from wrong password", func(t *testing.T) {
		svc, _ := newService(t, repo, &fakePublisher{})

		_, errWrong := svc.Login(ctx, "alice", "nope")
		_, errUnknown := svc.Login(ctx, "bob", "pa55word")

		assert.ErrorIs(t, errWrong, apperr.InvalidCredentialsErr)
		assert.ErrorIs(t, errUnknown, apperr.InvalidCredentialsErr)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("Should surface storage failure", func(t *testing.T) {
		storeErr := errors.New("db down")
		svc, _ := newService(t, &fakeUserRepo{err: storeErr}, &fakePublisher{})

		_, err := svc.Login(ctx, "alice", "pa55word")
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	existing := map[string]model.User{
		"alice": {ID: 1, Username: "alice", Email: "alice@example.com"},
	}

	t.Run("Should create user with default role and audit it", func(t *testing.T) {
		repo := &fakeUserRepo{users: existing}
		pub := &fakePublisher{}
		svc, _ := newService(t, repo, pub)

		id, err := svc.Register(ctx, auth.RegisterParams{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "pa55word",
		}, 1)
		require.NoError(t, err)

		assert.Equal(t, int64(101), id)
		require.Len(t, repo.created, 1)
		assert.Equal(t, []model.Role{model.RoleUser}, repo.created[0].Roles)
		assert.NotEqual(t, "pa55word", repo.created[0].PasswordHash)

		require.Len(t, pub.events, 1)
		assert.Equal(t, model.EntityKindUser, pub.events[0].EntityKind)
		assert.Equal(t, model.AuditActionCreate, pub.events[0].Action)
		assert.Equal(t, int64(1), pub.events[0].ActorID)
	})

	t.Run("Should reject taken username and email", func(t *testing.T) {
		svc, _ := newService(t, &fakeUserRepo{users: existing}, &fakePublisher{})

		_, err := svc.Register(ctx, auth.RegisterParams{Username: "alice", Email: "new@example.com", Password: "pa55word"}, 1)
		assert.ErrorIs(t, err, apperr.UsernameConflictErr)

		_, err = svc.Register(ctx, auth.RegisterParams{Username: "new", Email: "alice@example.com", Password: "pa55word"}, 1)
		assert.ErrorIs(t, err, apperr.EmailConflictErr)
	})

	t.Run("Should reject unknown role", func(t *testing.T) {
		repo := &fakeUserRepo{users: existing}
		svc, _ := newService(t, repo, &fakePublisher{})

		_, err := svc.Register(ctx, auth.RegisterParams{
			Username: "carol",
			Email:    "carol@example.com",
			Password: "pa55word",
			Roles:    []model.Role{"ROOT"},
		}, 1)
		assert.ErrorIs(t, err, apperr.InvalidRoleErr)
		assert.Empty(t, repo.created)
	})
}
