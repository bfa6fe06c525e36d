// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Role is the kind of principal a session belongs to.
type Role string

// Roles.
const (
	RoleBeneficiary Role = "beneficiary"
	RoleDealer      Role = "dealer"
	RoleAdmin       Role = "admin"
)

// ParseRole accepts the role names used by clients, case-insensitively.
// "user" is an alias for beneficiary.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beneficiary", "user":
		return RoleBeneficiary, nil
	case "dealer":
		return RoleDealer, nil
	case "admin":
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

// Principal is the authenticated entity behind a session. It is one of
// BeneficiaryPrincipal, DealerPrincipal or AdminPrincipal.
type Principal interface {
	Role() Role
	ID() int64
	DisplayName() string
	isPrincipal()
}

// BeneficiaryPrincipal is a logged-in ration-card holder.
type BeneficiaryPrincipal struct {
	Beneficiary Beneficiary
}

func (p BeneficiaryPrincipal) Role() Role          { return RoleBeneficiary }
func (p BeneficiaryPrincipal) ID() int64           { return p.Beneficiary.ID }
func (p BeneficiaryPrincipal) DisplayName() string { return p.Beneficiary.Name }
func (BeneficiaryPrincipal) isPrincipal()          {}

// DealerPrincipal is a logged-in shop dealer.
type DealerPrincipal struct {
	Shop Shop
}

func (p DealerPrincipal) Role() Role          { return RoleDealer }
func (p DealerPrincipal) ID() int64           { return p.Shop.ID }
func (p DealerPrincipal) DisplayName() string { return p.Shop.DealerName }
func (DealerPrincipal) isPrincipal()          {}

// AdminPrincipal is a logged-in administrator.
type AdminPrincipal struct {
	Admin Admin
}

func (p AdminPrincipal) Role() Role          { return RoleAdmin }
func (p AdminPrincipal) ID() int64           { return p.Admin.ID }
func (p AdminPrincipal) DisplayName() string { return p.Admin.Name }
func (AdminPrincipal) isPrincipal()          {}

// Session represents an active login. It is held by the caller and never
// written to the entity store.
type Session struct {
	Token       string
	PrincipalID int64
	Name        string
	Role        Role
	Principal   Principal
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// NewSession derives a session for an authenticated principal.
func NewSession(p Principal, now time.Time) *Session {
	return &Session{
		PrincipalID: p.ID(),
		Name:        p.DisplayName(),
		Role:        p.Role(),
		Principal:   p,
		CreatedAt:   now.UTC(),
	}
}

// SessionRepository defines the port for session bookkeeping.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
