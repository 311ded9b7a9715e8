package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Name     string `gorm:"not null"`
	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	SlackTeamID string
	SlackUserID string
	Device      string

	Tutor   bool `gorm:"not null;default:false"`
	Teacher bool `gorm:"not null;default:false"`
	Alerts  bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// RegistrationID is keyed on the user and token together.
type RegistrationID struct {
	UserID uint   `gorm:"primaryKey;autoIncrement:false"`
	RegID  string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (RegistrationID) TableName() string {
	return "registration_ids"
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindAll(ctx context.Context) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Order("name").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// UpdateProfile writes the editable profile columns. Zero values are
// written too, so alerts can be switched off.
func (d *UserDAO) UpdateProfile(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Model(&User{ID: user.ID}).
		Select("name", "slack_team_id", "slack_user_id", "device", "alerts").
		Updates(user)
	if result.Error != nil {
		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return d.FindByID(ctx, user.ID)
}

// InsertRegistrationID stores a device token once; registering the same
// token again is a no-op.
func (d *UserDAO) InsertRegistrationID(ctx context.Context, regID RegistrationID) (RegistrationID, error) {
	result := d.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&regID)
	if result.Error != nil {
		return RegistrationID{}, result.Error
	}

	return regID, nil
}

func (d *UserDAO) FindRegistrationIDs(ctx context.Context, userID uint) ([]RegistrationID, error) {
	var regIDs []RegistrationID

	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("reg_id").Find(&regIDs)
	if result.Error != nil {
		return nil, result.Error
	}

	return regIDs, nil
}
