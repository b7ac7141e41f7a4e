package models

import "time"

// Session is the signed-in user's session as persisted on disk. It
// replaces the browser-local storage of earlier planner clients with an
// explicit store that is constructed at app start and cleared on logout.
type Session struct {
	Token    string    `yaml:"token"`
	Email    string    `yaml:"email"`
	Username string    `yaml:"username"`
	SavedAt  time.Time `yaml:"saved_at"`
}

// UserProfile describes the account returned by the auth service.
type UserProfile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Age      int    `json:"age,omitempty"`
	AvatarID string `json:"avatarId,omitempty"`
}
