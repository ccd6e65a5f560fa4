package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Shop struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthUser is the identity shape exposed outside the credential store
// boundary. The password hash never leaves the repository layer.
type AuthUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type AuthClaims struct {
	UserID   int64
	Username string
	TokenID  string
}

type Profile struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Shops    []string `json:"shops"`
}
