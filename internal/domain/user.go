package domain

import "time"

// User is the domain entity for a user account. PasswordHash never leaves
// this layer; response views are built without it.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserPatch carries a partial account update; nil fields are left untouched.
// Password is the plaintext to re-hash, not a hash.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
}
