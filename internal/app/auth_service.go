// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"rations/internal/domain"
)

var (
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
)

// AuthService handles authentication and session management.
type AuthService struct {
	store    domain.Store
	sessions domain.SessionRepository
	options
}

// NewAuthService creates a new authentication service.
func NewAuthService(store domain.Store, sessions domain.SessionRepository, opts ...Option) *AuthService {
	return &AuthService{
		store:    store,
		sessions: sessions,
		options:  newOptions(opts),
	}
}

// Login checks (role, identifier, secret) against the store and returns an
// unregistered session for the matching principal. Every mismatch, including
// an unknown role, yields domain.ErrAuthFailure.
func (s *AuthService) Login(ctx context.Context, role, identifier, secret string) (*domain.Session, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		s.metrics.ObserveLogin("unknown", false)
		s.logger.InfoContext(ctx, "login failed", "role", role, "reason", "unknown role")
		return nil, domain.ErrAuthFailure
	}

	var p domain.Principal
	err = s.store.View(ctx, func(tx domain.Tx) error {
		p = findPrincipal(tx, r, identifier, secret)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if p == nil {
		s.metrics.ObserveLogin(string(r), false)
		s.logger.InfoContext(ctx, "login failed", "role", string(r))
		return nil, domain.ErrAuthFailure
	}

	s.metrics.ObserveLogin(string(r), true)
	s.logger.InfoContext(ctx, "login succeeded", "role", string(r), "principal_id", p.ID())
	return domain.NewSession(p, s.now()), nil
}

func findPrincipal(tx domain.Tx, role domain.Role, identifier, secret string) domain.Principal {
	switch role {
	case domain.RoleBeneficiary:
		for _, b := range tx.Beneficiaries() {
			if (b.RationCardNumber == identifier || b.NationalID == identifier) && secretMatches(b.SecretHash, secret) {
				return domain.BeneficiaryPrincipal{Beneficiary: b}
			}
		}
	case domain.RoleDealer:
		for _, sh := range tx.Shops() {
			if sh.DealerID == identifier && secretMatches(sh.SecretHash, secret) {
				return domain.DealerPrincipal{Shop: sh}
			}
		}
	case domain.RoleAdmin:
		for _, a := range tx.Admins() {
			if a.AdminID == identifier && secretMatches(a.SecretHash, secret) {
				return domain.AdminPrincipal{Admin: a}
			}
		}
	}
	return nil
}

func secretMatches(hash, secret string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// StartSession registers sess and returns its token. Expired sessions are
// swept on the way.
func (s *AuthService) StartSession(ctx context.Context, sess *domain.Session) (string, error) {
	if err := s.sessions.DeleteExpired(ctx); err != nil {
		return "", err
	}

	now := s.now()
	sess.Token = uuid.NewString()
	sess.CreatedAt = now.UTC()
	sess.ExpiresAt = now.Add(s.sessionTTL).UTC()
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", err
	}
	return sess.Token, nil
}

// Resume returns the live session for token.
func (s *AuthService) Resume(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil || sess == nil {
		return nil, ErrSessionNotFound
	}

	if s.now().After(sess.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Logout invalidates a session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "session closed")
	return nil
}
