package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type PegawaiServiceImpl struct {
	user.UserRepository
	passwordCost int
}

func NewPegawaiService(userRepo user.UserRepository) user.PegawaiService {
	return &PegawaiServiceImpl{
		UserRepository: userRepo,
		passwordCost:   bcrypt.DefaultCost,
	}
}

func (s *PegawaiServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// manager returns the caller when it may manage employee accounts.
func manager(ctx context.Context) (user.Actor, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	if !actor.Can(user.PermissionEmployeeManage) {
		return user.Actor{}, user.ErrInsufficientPermissions
	}
	return actor, nil
}

// visibleUser loads a user the actor is allowed to see. Admin accounts are
// reported as missing to non-admin actors.
func (s *PegawaiServiceImpl) visibleUser(ctx context.Context, actor user.Actor, id string) (user.User, error) {
	if !validator.IsValidUUID(id) {
		return user.User{}, user.ErrUserNotFound
	}
	found, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if found.IsAdmin() && actor.Role != user.RoleAdmin {
		return user.User{}, user.ErrUserNotFound
	}
	return found, nil
}

// List implements user.PegawaiService.
func (s *PegawaiServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	actor, err := manager(ctx)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, user.ListFilter{IncludeAdmin: actor.Role == user.RoleAdmin})
}

// Get implements user.PegawaiService.
func (s *PegawaiServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	actor, err := manager(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	found, err := s.visibleUser(ctx, actor, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(found), nil
}

// Create implements user.PegawaiService.
func (s *PegawaiServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	actor, err := manager(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	role := user.Role(req.Role)
	if !user.CanManageRole(actor.Role, role) {
		return user.UserResponse{}, user.ErrCannotManageRole
	}

	exists, err := s.UserRepository.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return user.UserResponse{}, user.ErrUserEmailExists
	}

	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hashed,
		Role:         role,
		Divisi:       req.Divisi,
		Posisi:       req.Posisi,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User created", "id", created.ID, "role", created.Role, "by", actor.ID)
	return user.NewUserResponse(created), nil
}

// Update implements user.PegawaiService.
func (s *PegawaiServiceImpl) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	actor, err := manager(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	existing, err := s.visibleUser(ctx, actor, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !user.CanManageRole(actor.Role, existing.Role) {
		return user.UserResponse{}, user.ErrCannotManageRole
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Email != nil && *req.Email != existing.Email {
		exists, err := s.UserRepository.ExistsByEmail(ctx, *req.Email, existing.ID)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return user.UserResponse{}, user.ErrUserEmailExists
		}
		existing.Email = *req.Email
	}
	if req.Role != nil {
		role := user.Role(*req.Role)
		if !user.CanManageRole(actor.Role, role) {
			return user.UserResponse{}, user.ErrCannotManageRole
		}
		existing.Role = role
	}
	if req.Divisi != nil {
		existing.Divisi = req.Divisi
	}
	if req.Posisi != nil {
		existing.Posisi = req.Posisi
	}
	if req.Password != nil {
		hashed, err := s.hashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		existing.PasswordHash = &hashed
	}

	if existing.Role != user.RoleAdmin {
		var errs validator.ValidationErrors
		if existing.Divisi == nil || validator.IsEmpty(*existing.Divisi) {
			errs.Add("divisi", "divisi is required")
		}
		if existing.Posisi == nil || validator.IsEmpty(*existing.Posisi) {
			errs.Add("posisi", "posisi is required")
		}
		if err := errs.Err(); err != nil {
			return user.UserResponse{}, err
		}
	}

	updated, err := s.UserRepository.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.UserResponse{}, err
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return user.UserResponse{}, user.ErrUserNotFound
		}
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user.NewUserResponse(updated), nil
}

// Delete implements user.PegawaiService.
func (s *PegawaiServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := manager(ctx)
	if err != nil {
		return err
	}
	if id == actor.ID {
		return user.ErrCannotDeleteSelf
	}

	existing, err := s.visibleUser(ctx, actor, id)
	if err != nil {
		return err
	}
	if !user.CanManageRole(actor.Role, existing.Role) {
		return user.ErrCannotManageRole
	}

	if err := s.UserRepository.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("User deleted", "id", id, "by", actor.ID)
	return nil
}

// Search implements user.PegawaiService.
func (s *PegawaiServiceImpl) Search(ctx context.Context, req user.SearchRequest) ([]user.UserResponse, error) {
	actor, err := manager(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.list(ctx, user.ListFilter{Query: req.Query, IncludeAdmin: actor.Role == user.RoleAdmin})
}

// FilterByRole implements user.PegawaiService.
func (s *PegawaiServiceImpl) FilterByRole(ctx context.Context, req user.FilterByRoleRequest) ([]user.UserResponse, error) {
	actor, err := manager(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	role := user.Role(req.Role)
	if role == user.RoleAdmin && actor.Role != user.RoleAdmin {
		return []user.UserResponse{}, nil
	}
	return s.list(ctx, user.ListFilter{Role: &role, IncludeAdmin: actor.Role == user.RoleAdmin})
}

// Me implements user.PegawaiService.
func (s *PegawaiServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	actor, err := user.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	found, err := s.UserRepository.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.UserResponse{}, user.ErrUserNotFound
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.NewUserResponse(found), nil
}

// EnsureAdmin creates the first admin account when none exists yet.
func (s *PegawaiServiceImpl) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	count, err := s.UserRepository.CountByRole(ctx, user.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	req := user.CreateUserRequest{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: password,
		Role:                 string(user.RoleAdmin),
	}
	if err := req.Validate(); err != nil {
		return false, fmt.Errorf("invalid bootstrap admin: %w", err)
	}

	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.UserRepository.Create(ctx, user.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hashed,
		Role:         user.RoleAdmin,
	}); err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	return true, nil
}

func (s *PegawaiServiceImpl) list(ctx context.Context, filter user.ListFilter) ([]user.UserResponse, error) {
	users, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return user.NewUserResponses(users), nil
}
