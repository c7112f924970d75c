package models

import "time"

// User is an identity bound to a Telegram account.
type User struct {
	ID         int64     `json:"id"`          // Store-assigned identity
	TelegramID int64     `json:"telegram_id"` // Unique Telegram user identifier
	Username   *string   `json:"username"`    // Telegram @username, if any
	FirstName  *string   `json:"first_name"`  // First name as reported by Telegram
	LastName   *string   `json:"last_name"`   // Last name as reported by Telegram
	IsAdmin    bool      `json:"is_admin"`    // Granted only through admin bootstrap
	CreatedAt  time.Time `json:"created_at"`  // Set once on creation
}

// UserProfile holds the mutable profile fields reported by the messaging platform.
type UserProfile struct {
	Username  *string
	FirstName *string
	LastName  *string
}
