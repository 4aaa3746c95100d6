package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateUsername = errors.New("username already taken")
var ErrInvalidUsername = errors.New("username must not be empty")

// User is the owner of zero or more transactions. IDs are assigned by the
// store on creation and never change.
type User struct {
	ID       int64  `json:"user_id"`
	Username string `json:"username"`
}
