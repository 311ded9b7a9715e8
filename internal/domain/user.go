package domain

import "time"

type User struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	SlackTeamID string    `json:"slack_team_id,omitempty"`
	SlackUserID string    `json:"slack_user_id,omitempty"`
	Device      string    `json:"device,omitempty"`
	Tutor       bool      `json:"tutor"`
	Teacher     bool      `json:"teacher"`
	Alerts      bool      `json:"alerts"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RegistrationID is a push notification token for one of a user's devices.
// A user/token pair is stored at most once.
type RegistrationID struct {
	UserID uint   `json:"user_id"`
	RegID  string `json:"regid"`
}

// Balance is what a user is owed and owes, in cents.
type Balance struct {
	UserID uint `json:"user_id"`
	Owed   int  `json:"owed"`
	Owing  int  `json:"owing"`
	Net    int  `json:"net"`
}

func NewBalance(userID uint, owed, owing int) Balance {
	return Balance{
		UserID: userID,
		Owed:   owed,
		Owing:  owing,
		Net:    owed - owing,
	}
}

// Session is what a user gets back on login: who they are and where they
// stand with everyone else.
type Session struct {
	User    User
	Balance Balance
}
