// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
type User struct {
	// ID is the store-assigned identifier.
	ID uint `gorm:"primaryKey"`

	// Username is the display name chosen at registration.
	Username string `gorm:"size:255;not null"`

	// Email is the login identifier. It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt digest, never the plaintext.
	Password string `gorm:"size:255;not null"`

	// Favorites holds product IDs in the order the client sent them.
	// They are not checked against the products table.
	Favorites []uint `gorm:"serializer:json;type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
