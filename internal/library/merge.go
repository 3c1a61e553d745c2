// Package library reconciles fetched platform catalogs against the store.
package library

import (
	"errors"
	"time"

	"gameshelf/backend/internal/models"
	"gameshelf/backend/internal/platform"

	"gorm.io/gorm"
)

// MergedGame identifies one game row touched by a merge, for callers that
// enqueue follow-up work (tag enrichment).
type MergedGame struct {
	GameID     uint
	ExternalID string
}

// Result reports what a merge batch did.
type Result struct {
	Imported int
	Updated  int
	Games    []MergedGame
}

// Merge upserts a canonical game batch for one user inside a single
// transaction: games by (external id, platform), library entries by
// (user, game). Either the whole batch lands or none of it does.
//
// Playtime on existing entries is only overwritten for Steam; Epic does
// not report playtime and a zero would clobber whatever is stored.
func Merge(db *gorm.DB, userID uint, platformName string, games []platform.Game) (Result, error) {
	var res Result
	now := time.Now()
	includePlaytime := platformName == models.PlatformSteam

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, g := range games {
			if g.ExternalID == "" || g.Name == "" {
				continue
			}

			game, inserted, err := upsertGame(tx, platformName, g)
			if err != nil {
				return err
			}
			if inserted {
				res.Imported++
			} else {
				res.Updated++
			}

			if err := upsertEntry(tx, userID, game.ID, g.Playtime, includePlaytime, now); err != nil {
				return err
			}

			res.Games = append(res.Games, MergedGame{GameID: game.ID, ExternalID: g.ExternalID})
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func upsertGame(tx *gorm.DB, platformName string, g platform.Game) (models.Game, bool, error) {
	var game models.Game
	err := tx.Where("app_id = ? AND platform = ?", g.ExternalID, platformName).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		game = models.Game{
			AppID:      g.ExternalID,
			Platform:   platformName,
			Name:       g.Name,
			ImgIconURL: g.IconURL,
			ImgLogoURL: g.LogoURL,
		}
		if err := tx.Create(&game).Error; err != nil {
			return models.Game{}, false, err
		}
		return game, true, nil
	}
	if err != nil {
		return models.Game{}, false, err
	}

	updates := map[string]interface{}{"name": g.Name}
	if g.IconURL != "" {
		updates["img_icon_url"] = g.IconURL
	}
	if g.LogoURL != "" {
		updates["img_logo_url"] = g.LogoURL
	}
	if err := tx.Model(&game).Updates(updates).Error; err != nil {
		return models.Game{}, false, err
	}
	return game, false, nil
}

func upsertEntry(tx *gorm.DB, userID, gameID uint, playtime int, includePlaytime bool, now time.Time) error {
	// Unscoped: a soft-deleted row still occupies the (user, game) unique
	// index, so it must be found and revived, not recreated.
	var entry models.LibraryEntry
	err := tx.Unscoped().Where("user_id = ? AND game_id = ?", userID, gameID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.LibraryEntry{
			UserID:          userID,
			GameID:          gameID,
			PlaytimeForever: playtime,
			ImportedAt:      now,
		}).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{"imported_at": now, "deleted_at": nil}
	if includePlaytime {
		updates["playtime_forever"] = playtime
	}
	return tx.Unscoped().Model(&entry).Updates(updates).Error
}
