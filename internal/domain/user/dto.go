package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Divisi    *string `json:"divisi,omitempty"`
	Posisi    *string `json:"posisi,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Divisi:    u.Divisi,
		Posisi:    u.Posisi,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

func NewUserResponses(users []User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, NewUserResponse(u))
	}
	return result
}

// CreateUserRequest represents request to create a new pegawai account
type CreateUserRequest struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Role                 string  `json:"role"`
	Divisi               *string `json:"divisi,omitempty"`
	Posisi               *string `json:"posisi,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Name = strings.TrimSpace(r.Name)

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	} else if r.Password != r.PasswordConfirmation {
		errs.Add("password_confirmation", "password confirmation does not match")
	}

	if validator.IsEmpty(r.Role) {
		errs.Add("role", "role is required")
	} else if !Role(r.Role).IsValid() {
		errs.Add("role", "role must be one of admin, hr, pegawai")
	}

	if Role(r.Role) != RoleAdmin {
		if r.Divisi == nil || validator.IsEmpty(*r.Divisi) {
			errs.Add("divisi", "divisi is required")
		}
		if r.Posisi == nil || validator.IsEmpty(*r.Posisi) {
			errs.Add("posisi", "posisi is required")
		}
	}

	return errs.Err()
}

// UpdateUserRequest represents a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name                 *string `json:"name,omitempty"`
	Email                *string `json:"email,omitempty"`
	Password             *string `json:"password,omitempty"`
	PasswordConfirmation *string `json:"password_confirmation,omitempty"`
	Role                 *string `json:"role,omitempty"`
	Divisi               *string `json:"divisi,omitempty"`
	Posisi               *string `json:"posisi,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
		if trimmed == "" {
			errs.Add("name", "name must not be empty")
		} else if len(trimmed) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}

	if r.Email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*r.Email))
		r.Email = &normalized
		if !validator.IsValidEmail(normalized) {
			errs.Add("email", "invalid email format")
		}
	}

	if r.Password != nil {
		if len(*r.Password) < 8 {
			errs.Add("password", "password must be at least 8 characters")
		} else if r.PasswordConfirmation == nil || *r.PasswordConfirmation != *r.Password {
			errs.Add("password_confirmation", "password confirmation does not match")
		}
	}

	if r.Role != nil && !Role(*r.Role).IsValid() {
		errs.Add("role", "role must be one of admin, hr, pegawai")
	}

	if r.Divisi != nil && validator.IsEmpty(*r.Divisi) {
		errs.Add("divisi", "divisi must not be empty")
	}
	if r.Posisi != nil && validator.IsEmpty(*r.Posisi) {
		errs.Add("posisi", "posisi must not be empty")
	}

	return errs.Err()
}

type SearchRequest struct {
	Query string `json:"q"`
}

func (r *SearchRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Query = strings.TrimSpace(r.Query)
	if len(r.Query) < 2 {
		errs.Add("q", "query must be at least 2 characters")
	}
	return errs.Err()
}

type FilterByRoleRequest struct {
	Role string `json:"role"`
}

func (r *FilterByRoleRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Role) {
		errs.Add("role", "role is required")
	} else if !Role(r.Role).IsValid() {
		errs.Add("role", "role must be one of admin, hr, pegawai")
	}
	return errs.Err()
}
