package models

import "time"

// GameTag attaches one canonical tag to a game. The composite primary key
// gives tags set semantics per game.
type GameTag struct {
	GameID    uint   `gorm:"primaryKey"`
	Tag       string `gorm:"primaryKey;size:100"`
	CreatedAt time.Time

	Game Game `gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE;"`
}
