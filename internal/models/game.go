package models

import "gorm.io/gorm"

// Platform identifies the store a game was imported from.
const (
	PlatformSteam = "steam"
	PlatformEpic  = "epic"
)

// Game represents a title known to the system. A game is unique per
// (AppID, Platform); re-importing the same external id updates the row.
type Game struct {
	gorm.Model
	AppID      string `gorm:"size:255;not null;uniqueIndex:idx_games_appid_platform"`
	Platform   string `gorm:"size:50;not null;uniqueIndex:idx_games_appid_platform"`
	Name       string `gorm:"size:512;not null"`
	ImgIconURL string `gorm:"size:512"`
	ImgLogoURL string `gorm:"size:512"`
}
