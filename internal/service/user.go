package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) (domain.User, error)
	AddRegistrationID(ctx context.Context, regID domain.RegistrationID) (domain.RegistrationID, error)
	FindRegistrationIDs(ctx context.Context, userID uint) ([]domain.RegistrationID, error)
}

type MoneyRepository interface {
	SumOwed(ctx context.Context, userID uint) (int, error)
	SumOwing(ctx context.Context, userID uint) (int, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.MoneyExchange, error)
}

type UserService struct {
	repo  UserRepository
	money MoneyRepository
}

func NewUserService(repo UserRepository, money MoneyRepository) *UserService {
	return &UserService{
		repo:  repo,
		money: money,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

// MoneyOwed is what others owe userID, in cents.
func (s *UserService) MoneyOwed(ctx context.Context, userID uint) (int, error) {
	owed, err := s.money.SumOwed(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("s.money.SumOwed -> %w", err)
	}

	return owed, nil
}

// MoneyOwing is what userID owes others, in cents.
func (s *UserService) MoneyOwing(ctx context.Context, userID uint) (int, error) {
	owing, err := s.money.SumOwing(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("s.money.SumOwing -> %w", err)
	}

	return owing, nil
}

func (s *UserService) Balance(ctx context.Context, userID uint) (domain.Balance, error) {
	owed, err := s.MoneyOwed(ctx, userID)
	if err != nil {
		return domain.Balance{}, err
	}

	owing, err := s.MoneyOwing(ctx, userID)
	if err != nil {
		return domain.Balance{}, err
	}

	return domain.NewBalance(userID, owed, owing), nil
}

func (s *UserService) Exchanges(ctx context.Context, userID uint) ([]domain.MoneyExchange, error) {
	exchanges, err := s.money.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.money.FindByUserID -> %w", err)
	}

	return exchanges, nil
}

// UpdateProfile writes the editable profile fields. Role flags and email are
// left as they are.
func (s *UserService) UpdateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := s.repo.UpdateProfile(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateProfile -> %w", err)
	}

	return updated, nil
}

// RegisterDevice stores a push token for the user. Registering a token the
// user already has is not an error.
func (s *UserService) RegisterDevice(ctx context.Context, userID uint, regID string) (domain.RegistrationID, error) {
	reg, err := s.repo.AddRegistrationID(ctx, domain.RegistrationID{
		UserID: userID,
		RegID:  strings.TrimSpace(regID),
	})
	if err != nil {
		return domain.RegistrationID{}, fmt.Errorf("s.repo.AddRegistrationID -> %w", err)
	}

	return reg, nil
}

func (s *UserService) Devices(ctx context.Context, userID uint) ([]domain.RegistrationID, error) {
	regIDs, err := s.repo.FindRegistrationIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRegistrationIDs -> %w", err)
	}

	return regIDs, nil
}
