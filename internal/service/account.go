package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/travelnest/planner/internal/domain"
)

// Registrar creates accounts. *store.Registry satisfies it, so a new
// account gets its trip store right away.
type Registrar interface {
	SignUp(ctx context.Context, name, email, password string) (domain.Session, error)
}

// Authenticator signs existing accounts in and out. *auth.Service satisfies it.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignOut(ctx context.Context, token string) error
}

// AccountService validates the sign-up and sign-in forms.
type AccountService struct {
	registrar Registrar
	auth      Authenticator
}

// NewAccountService constructs an AccountService.
func NewAccountService(r Registrar, a Authenticator) *AccountService {
	return &AccountService{registrar: r, auth: a}
}

// SignUp checks the form and creates the account.
// Form problems return domain.ErrValidation; rejections by the identity
// provider (e.g. email taken) return domain.ErrAuth.
func (s *AccountService) SignUp(ctx context.Context, name, email, password string) (domain.Session, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateSignUp(name, email, password); err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.SignUp: %w", err)
	}
	sess, err := s.registrar.SignUp(ctx, name, email, password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.SignUp: %w", err)
	}
	return sess, nil
}

// SignIn checks the form and signs the account in.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, fmt.Errorf("service.AccountService.SignIn: %w: Email and password are required", domain.ErrValidation)
	}
	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AccountService.SignIn: %w", err)
	}
	return sess, nil
}

// SignOut revokes the session behind token.
func (s *AccountService) SignOut(ctx context.Context, token string) error {
	if err := s.auth.SignOut(ctx, token); err != nil {
		return fmt.Errorf("service.AccountService.SignOut: %w", err)
	}
	return nil
}

func validateSignUp(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return fmt.Errorf("%w: All fields are required", domain.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: Please enter a valid email", domain.ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: Password must be at least 6 characters", domain.ErrValidation)
	}
	return nil
}
