// Package models defines the persisted data types of the note vault. JSON
// field names match the storage format exactly and must not change without a
// migration.
package models

// Account is a registered user's credential record, stored as an element of
// the JSON array under the "users" key.
//
// The password is kept in plain text. That mirrors the storage format this
// vault is committed to; see the accounts package doc for the security note.
type Account struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the reduced projection of an Account persisted under the
// "currentUser" key while a user is logged in. It never carries the password.
type Session struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}
