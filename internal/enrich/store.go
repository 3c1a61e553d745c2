package enrich

import (
	"gameshelf/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTagStore persists tags as GameTag rows. Inserts are
// conflict-ignoring so tags keep set semantics per game.
type GormTagStore struct {
	DB *gorm.DB
}

func (s *GormTagStore) WriteTags(gameID uint, tagList []string) error {
	if len(tagList) == 0 {
		return nil
	}
	rows := make([]models.GameTag, 0, len(tagList))
	for _, tag := range tagList {
		rows = append(rows, models.GameTag{GameID: gameID, Tag: tag})
	}
	return s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
