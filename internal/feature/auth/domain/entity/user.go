// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user of the inventory API.
type User struct {
	ID uint `gorm:"primaryKey"`

	// Email is unique across all users and identifies the account.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password stores the bcrypt hash, never the plaintext.
	Password string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
