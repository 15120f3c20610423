package docsystem

import "time"

// User owns documents and folders.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserSummary is the owner expansion embedded in a document response.
type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Summary returns the owner expansion of u.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}
