package request

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	passwordLetterExp = regexp.MustCompile(`[A-Za-z]`)
	passwordDigitExp  = regexp.MustCompile(`\d`)
)

var (
	errInvalidPassword         = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
	errConfirmPasswordMismatch = errors.New("confirm password doesn't match the password")
)

// SignupRequest may carry the Slack identity and device a member will be
// nudged on.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	SlackTeamID     string `json:"slack_team_id"`
	SlackUserID     string `json:"slack_user_id"`
	Device          string `json:"device"`
}

func (req *SignupRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.By(checkPassword)),
		validation.Field(&req.ConfirmPassword, validation.Required),
		validation.Field(&req.SlackTeamID, validation.Length(0, 50)),
		validation.Field(&req.SlackUserID, validation.Length(0, 50)),
		validation.Field(&req.Device, validation.In("", "android", "ios")),
	)
	if err != nil {
		return err
	}

	if req.Password != req.ConfirmPassword {
		return validation.Errors{"confirm_password": errConfirmPasswordMismatch}
	}

	return nil
}

func checkPassword(value interface{}) error {
	password, _ := value.(string)
	if len(password) < 8 || !passwordLetterExp.MatchString(password) || !passwordDigitExp.MatchString(password) {
		return errInvalidPassword
	}

	return nil
}

// LoginRequest optionally registers the push token of the device logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	RegID    string `json:"regid"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.RegID, validation.Length(0, 255)),
	)
}
