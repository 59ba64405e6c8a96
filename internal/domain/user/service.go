package user

import "context"

// PegawaiService manages employee accounts on behalf of admin and hr actors.
type PegawaiService interface {
	List(ctx context.Context) ([]UserResponse, error)
	Get(ctx context.Context, id string) (UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, req SearchRequest) ([]UserResponse, error)
	FilterByRole(ctx context.Context, req FilterByRoleRequest) ([]UserResponse, error)
	Me(ctx context.Context) (UserResponse, error)
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
}
