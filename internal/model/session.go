package model

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Session is the server-side record of an issued access/refresh token pair.
// Login creates one, refresh rotates the tokens in place, logout revokes it.
type Session struct {
	ID               string         `json:"id" gorm:"primaryKey;type:varchar(40)"`
	UserID           uint           `json:"user_id" gorm:"index;not null"`
	AccessToken      string         `json:"-" gorm:"type:text;not null"`
	RefreshToken     string         `json:"-" gorm:"type:text;not null"`
	AccessExpiresAt  time.Time      `json:"access_expires_at"`
	RefreshExpiresAt time.Time      `json:"refresh_expires_at"`
	Revoked          bool           `json:"revoked" gorm:"default:false"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate hook will be called before creating a new Session record
func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = generateSecureID("ses_")
	}
	return nil
}

// IsExpired checks if the refresh window has passed
func (s *Session) IsExpired() bool {
	return time.Now().After(s.RefreshExpiresAt)
}

// IsValid checks if the session is live (not expired and not revoked)
func (s *Session) IsValid() bool {
	return !s.Revoked && !s.IsExpired()
}

// generateSecureID creates a secure random ID with a prefix
func generateSecureID(prefix string) string {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s%s", prefix, base64.RawURLEncoding.EncodeToString(b))
}
