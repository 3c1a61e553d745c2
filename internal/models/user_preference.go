package models

import "time"

// UserPreference records a user's declared interest in one tag.
type UserPreference struct {
	UserID    uint    `gorm:"primaryKey"`
	Tag       string  `gorm:"primaryKey;size:100"`
	Weight    float64 `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}
