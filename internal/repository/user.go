package repository

import (
	"context"
	"fmt"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindAll(ctx context.Context) ([]dao.User, error)
	UpdateProfile(ctx context.Context, user dao.User) (dao.User, error)
	InsertRegistrationID(ctx context.Context, regID dao.RegistrationID) (dao.RegistrationID, error)
	FindRegistrationIDs(ctx context.Context, userID uint) ([]dao.RegistrationID, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Name:        user.Name,
		Email:       user.Email,
		Password:    user.Password,
		SlackTeamID: user.SlackTeamID,
		SlackUserID: user.SlackUserID,
		Device:      user.Device,
		Tutor:       user.Tutor,
		Teacher:     user.Teacher,
		Alerts:      user.Alerts,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return userToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return userToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return userToDomain(found), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	users := make([]domain.User, len(found))
	for i, u := range found {
		users[i] = userToDomain(u)
	}

	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := r.dao.UpdateProfile(ctx, dao.User{
		ID:          user.ID,
		Name:        user.Name,
		SlackTeamID: user.SlackTeamID,
		SlackUserID: user.SlackUserID,
		Device:      user.Device,
		Alerts:      user.Alerts,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.UpdateProfile -> %w", err)
	}

	return userToDomain(updated), nil
}

func (r *UserRepository) AddRegistrationID(ctx context.Context, regID domain.RegistrationID) (domain.RegistrationID, error) {
	created, err := r.dao.InsertRegistrationID(ctx, dao.RegistrationID{
		UserID: regID.UserID,
		RegID:  regID.RegID,
	})
	if err != nil {
		return domain.RegistrationID{}, fmt.Errorf("r.dao.InsertRegistrationID -> %w", err)
	}

	return domain.RegistrationID{UserID: created.UserID, RegID: created.RegID}, nil
}

func (r *UserRepository) FindRegistrationIDs(ctx context.Context, userID uint) ([]domain.RegistrationID, error) {
	found, err := r.dao.FindRegistrationIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRegistrationIDs -> %w", err)
	}

	regIDs := make([]domain.RegistrationID, len(found))
	for i, reg := range found {
		regIDs[i] = domain.RegistrationID{UserID: reg.UserID, RegID: reg.RegID}
	}

	return regIDs, nil
}

func userToDomain(u dao.User) domain.User {
	return domain.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Password:    u.Password,
		SlackTeamID: u.SlackTeamID,
		SlackUserID: u.SlackUserID,
		Device:      u.Device,
		Tutor:       u.Tutor,
		Teacher:     u.Teacher,
		Alerts:      u.Alerts,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
