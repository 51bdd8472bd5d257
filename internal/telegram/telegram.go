package telegram

import (
	"errors"
	"strconv"
)

var (
	ErrNotFound = errors.New("profile not found")
	// ErrBadInitData covers both malformed payloads and failed signature
	// checks; callers treat them the same way.
	ErrBadInitData = errors.New("invalid telegram init data")
	ErrStaleData   = errors.New("telegram init data is too old")
)

// WebAppUser is the user object Telegram embeds in the Mini App init data.
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
}

// Profile is the stored user profile, partitioned by UserKey.
type Profile struct {
	ID           string  `json:"id"`
	UserKey      string  `json:"userKey"`
	TelegramID   int64   `json:"telegramId"`
	Username     *string `json:"telegramUsername,omitempty"`
	FirstName    string  `json:"firstName"`
	LastName     *string `json:"lastName,omitempty"`
	LanguageCode *string `json:"languageCode,omitempty"`
	IsPremium    bool    `json:"isPremium"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

// UserKey namespaces the Telegram identifier so rows from other identity
// sources can never collide with it.
func UserKey(telegramID int64) string {
	return "telegram_" + strconv.FormatInt(telegramID, 10)
}
