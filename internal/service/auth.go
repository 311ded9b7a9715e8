package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrWrongPassword   = errors.New("wrong password")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// Accounts is the part of the user service a login touches.
type Accounts interface {
	Balance(ctx context.Context, userID uint) (domain.Balance, error)
	RegisterDevice(ctx context.Context, userID uint, regID string) (domain.RegistrationID, error)
}

type AuthService struct {
	repo     AuthUserRepository
	accounts Accounts
}

func NewAuthService(repo AuthUserRepository, accounts Accounts) *AuthService {
	return &AuthService{
		repo:     repo,
		accounts: accounts,
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a plain member: no tutor or teacher flags, alerts off.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}

	created, err := s.repo.Create(ctx, domain.User{
		Name:        strings.TrimSpace(user.Name),
		Email:       normaliseEmail(user.Email),
		Password:    hash,
		SlackTeamID: user.SlackTeamID,
		SlackUserID: user.SlackUserID,
		Device:      user.Device,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("user signed up", zap.Uint("user_id", created.ID))

	return created, nil
}

// Login checks the password, registers regID as a push target when one is
// given, and returns the user with their current balance.
func (s *AuthService) Login(ctx context.Context, email, password, regID string) (domain.Session, error) {
	user, err := s.repo.FindByEmail(ctx, normaliseEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Session{}, ErrUserNotFound
		}

		return domain.Session{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.Session{}, ErrWrongPassword
	}

	if strings.TrimSpace(regID) != "" {
		if _, err = s.accounts.RegisterDevice(ctx, user.ID, regID); err != nil {
			return domain.Session{}, fmt.Errorf("s.accounts.RegisterDevice -> %w", err)
		}
	}

	balance, err := s.accounts.Balance(ctx, user.ID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.accounts.Balance -> %w", err)
	}

	return domain.Session{User: user, Balance: balance}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return string(hash), nil
}
