// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, with `json` tags for the HTTP
// layer and `db` tags for sqlx column mapping.
package model

import "time"

// User represents a registered account.
//
// Accounts are created on first login: the demo password account is
// materialized lazily, Google sign-ins create an account keyed by email.
// The username doubles as the JWT subject, so it is unique and never changes.
//
// WHY *string FOR THE PROFILE LINKS?
// The links are optional columns (NULL until the user completes onboarding).
// A nil pointer distinguishes "never set" from "set to empty string", which is
// exactly what the profile update endpoint needs: nil fields are left alone.
type User struct {
	ID             string    `json:"id"            db:"id"`
	Username       string    `json:"username"      db:"username"`
	Email          string    `json:"email"         db:"email"`
	FullName       string    `json:"full_name"     db:"full_name"`
	Picture        string    `json:"picture"       db:"picture"`
	HashedPassword string    `json:"-"             db:"hashed_password"` // empty for OAuth-only accounts
	Disabled       bool      `json:"disabled"      db:"disabled"`
	GitHubLink     *string   `json:"github_link"   db:"github_link"`
	LinkedInLink   *string   `json:"linkedin_link" db:"linkedin_link"`
	CreatedAt      time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"    db:"updated_at"`
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.HashedPassword != ""
}
