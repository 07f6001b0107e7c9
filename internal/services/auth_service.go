// AuthService
//
// Registration, login, and subject lookup for the operator accounts that hold
// roles. Passwords are hashed with bcrypt; successful logins mint a bearer
// token embedding the subject id and role and stamp lastLogin.
package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/auth"
	"github.com/gauravsahdz/ecommerce-api/internal/domain"
	"github.com/gauravsahdz/ecommerce-api/internal/query"
	"github.com/gauravsahdz/ecommerce-api/internal/store"
)

// AuthService manages operator accounts and credential issuance.
// Safe for concurrent use; all state is shared handles injected at startup.
type AuthService struct {
	Users  *store.Collection[domain.User]
	Tokens *auth.Manager
}

// NewAuthService constructs an AuthService over the given collection and
// token manager.
func NewAuthService(users *store.Collection[domain.User], tokens *auth.Manager) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// Register creates a new account with the Viewer role. Emails are unique;
// an address already in use yields ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleViewer,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Users.Insert(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login verifies the email/password pair and returns the account plus a
// freshly minted token. Unknown email and wrong password are distinct causes.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrEmailNotFound
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	u.LastLogin = &now
	if _, err := s.Users.UpdateByID(ctx, u.ID, map[string]any{"last_login": now}); err != nil {
		// Login still succeeds; the stamp is best effort.
		u.LastLogin = nil
	}
	return u, token, nil
}

// CurrentUser fetches the account for an authenticated subject id.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// LookupSubject resolves a verified token's subject to its current account,
// rejecting missing (ErrUserNotFound) and deactivated (ErrUserInactive)
// subjects. Used by the auth gate's optional re-fetch.
func (s *AuthService) LookupSubject(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.CurrentUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}
	return u, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*domain.User, error) {
	filter, plan, err := query.Translate(
		url.Values{"email": {email}, "limit": {"1"}},
		[]query.FieldSpec{{Name: "email", Match: query.MatchExact}},
		query.Options{DefaultLimit: 1},
	)
	if err != nil {
		return nil, err
	}
	users, err := s.Users.Find(ctx, filter, plan)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, store.ErrNotFound
	}
	return &users[0], nil
}
