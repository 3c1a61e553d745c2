package models

import "time"

// UserFollow is a directed follow edge between two users.
// The composite primary key (FollowerID, FollowingID) ensures a pair of
// users can only be linked once in each direction. Self-follows are
// rejected at the handler level.
type UserFollow struct {
	FollowerID  uint `gorm:"primaryKey"`
	FollowingID uint `gorm:"primaryKey"`
	CreatedAt   time.Time

	Follower  User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Following User `gorm:"foreignKey:FollowingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
