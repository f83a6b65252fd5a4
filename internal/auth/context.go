package auth

import (
	"context"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   int64
	Username string
	Roles    []model.Role
}

func (p Principal) HasAnyRole(roles ...model.Role) bool {
	return model.User{Roles: p.Roles}.HasAnyRole(roles...)
}

type ctxKey struct{}

func NewContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
