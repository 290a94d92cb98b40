package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the login name. Unique across all users; the store enforces
	// this with a unique constraint.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	// It never leaves the server.
	PasswordHash string

	// CreatedAt is the Unix timestamp (UTC) when the account was created.
	CreatedAt int64
}

// NewUser builds an unsaved user. The store assigns ID and CreatedAt.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
	}
}

// PublicUser is the projection of a User that is safe to return to clients.
type PublicUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at"`
}

// Public strips secret fields from the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
