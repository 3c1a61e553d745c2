package models

import (
	"time"

	"gorm.io/gorm"
)

// LibraryEntry links a user to a game they own. Unique per (user, game);
// re-importing updates playtime and ImportedAt rather than duplicating.
type LibraryEntry struct {
	gorm.Model
	UserID          uint `gorm:"not null;uniqueIndex:idx_library_user_game"`
	GameID          uint `gorm:"not null;uniqueIndex:idx_library_user_game"`
	PlaytimeForever int  `gorm:"not null;default:0"` // minutes
	ImportedAt      time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE;"`
}
