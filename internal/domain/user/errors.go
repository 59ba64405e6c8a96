package user

import "errors"

var (
	ErrUnauthenticated         = errors.New("authentication required")
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrCannotManageRole        = errors.New("you are not allowed to manage this role")
	ErrCannotDeleteSelf        = errors.New("you cannot delete your own account")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrHRAccessRequired        = errors.New("hr access required")
)
