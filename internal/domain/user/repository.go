package user

import (
	"context"
)

// ListFilter narrows user listings. Zero values mean no restriction.
type ListFilter struct {
	Role         *Role
	Query        string
	IncludeAdmin bool
}

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByGoogleID(ctx context.Context, googleID string) (User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]User, error)
	ListIDsByRole(ctx context.Context, role Role) ([]string, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	Update(ctx context.Context, u User) (User, error)
	SoftDelete(ctx context.Context, id string) error
	LinkGoogleAccount(ctx context.Context, id string, googleID string) error
}
