package user

import (
	"context"
	"strings"

	"github.com/go-chi/jwtauth/v5"
)

type Role string

// JWT claim names carrying the identity.
const (
	ClaimSalesPersonName = "sales_person_name"
	ClaimRole            = "role"
)

const (
	RoleAdmin Role = "admin" // Sees every submitter's history and may export
	RoleUser  Role = "user"  // Sees only their own history
)

// Identity is the authenticated submitter. Names are matched exactly against the
// sheet's submitter column.
type Identity struct {
	SalesPersonName string `json:"sales_person_name"`
	Role            Role   `json:"role"`
}

// IsAdmin compares the role case-insensitively.
func (i Identity) IsAdmin() bool {
	return strings.EqualFold(string(i.Role), string(RoleAdmin))
}

// FromContext reads the identity from verified JWT claims.
func FromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, ErrIdentityMissing
	}

	name, _ := claims[ClaimSalesPersonName].(string)
	if strings.TrimSpace(name) == "" {
		return Identity{}, ErrIdentityMissing
	}

	role, _ := claims[ClaimRole].(string)
	if role == "" {
		role = string(RoleUser)
	}

	return Identity{SalesPersonName: name, Role: Role(role)}, nil
}
