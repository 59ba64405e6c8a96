package user

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

// Actor is the authenticated caller as described by the access token claims.
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

func (a Actor) CanViewAll() bool {
	return a.Role == RoleAdmin || a.Role == RoleHR
}

func (a Actor) CanApprove() bool {
	return a.Role == RoleHR
}

func (a Actor) Can(p Permission) bool {
	return HasPermission(a.Role, p)
}

// ActorFromContext reads the claims stored by jwtauth.Verifier.
func ActorFromContext(ctx context.Context) (Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Actor{}, fmt.Errorf("%w: user_id claim is missing or invalid", ErrUnauthenticated)
	}
	role, _ := claims["role"].(string)
	if !Role(role).IsValid() {
		return Actor{}, fmt.Errorf("%w: role claim is missing or invalid", ErrUnauthenticated)
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return Actor{ID: userID, Email: email, Name: name, Role: Role(role)}, nil
}
