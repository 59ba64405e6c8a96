package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // Manages accounts and settings
	RoleHR      Role = "hr"      // Manages pegawai, approves leave requests
	RolePegawai Role = "pegawai" // Regular employee
)

// Roles lists every assignable role.
var Roles = []Role{RoleAdmin, RoleHR, RolePegawai}

func (r Role) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string
	Role         Role
	Divisi       *string
	Posisi       *string
	GoogleID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanApprove checks if user can approve leave requests
func (u *User) CanApprove() bool {
	return u.Role == RoleHR
}

// CanViewAll checks if user can see attendance of every employee
func (u *User) CanViewAll() bool {
	return u.Role == RoleHR || u.Role == RoleAdmin
}

// CanManageRole reports whether an actor with role actor may create, edit or
// delete an account holding role target.
func CanManageRole(actor, target Role) bool {
	switch actor {
	case RoleAdmin:
		return target.IsValid()
	case RoleHR:
		return target == RolePegawai
	default:
		return false
	}
}
