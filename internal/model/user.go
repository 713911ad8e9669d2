package model

// User represents a registered reporter account.
//
// Accounts always live in the local store, regardless of which item backend
// is active.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"createdAt"`
}
