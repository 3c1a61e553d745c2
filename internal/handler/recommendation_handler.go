package handler

import (
	"net/http"
	"strconv"

	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/models"
	"gameshelf/backend/internal/recommend"
	"gameshelf/backend/internal/tags"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// RecommendationResponse is one ranked recommendation.
type RecommendationResponse struct {
	GameID     uint    `json:"game_id"`
	AppID      string  `json:"appid"`
	Name       string  `json:"name"`
	ImgLogoURL string  `json:"img_logo_url"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
}

// RecommendationsResponse is the full recommendation listing.
type RecommendationsResponse struct {
	Recommendations []RecommendationResponse `json:"recommendations"`
	HasPreferences  bool                     `json:"has_preferences"`
}

// PreferenceResponse is one declared tag preference.
type PreferenceResponse struct {
	Tag    string  `json:"tag"`
	Weight float64 `json:"weight"`
}

// PreferencesResponse lists the user's preferences and the vocabulary.
type PreferencesResponse struct {
	Preferences   []PreferenceResponse `json:"preferences"`
	AvailableTags []string             `json:"available_tags"`
}

// TagSelectionInput selects tags from the canonical vocabulary. Tags
// outside the vocabulary are ignored.
type TagSelectionInput struct {
	Tags []string `json:"tags" binding:"required"`
}

// GameTagsResponse lists a game's tags and the vocabulary.
type GameTagsResponse struct {
	GameID        uint     `json:"game_id"`
	Name          string   `json:"name"`
	Tags          []string `json:"tags"`
	AvailableTags []string `json:"available_tags"`
}

// endregion

// region --- Recommendation Handlers ---

// GetRecommendations godoc
// @Summary      Get game recommendations
// @Description  Ranks games the user does not own by declared tag preferences, with a bonus for games owned by followed users. Top 50 by score.
// @Tags         recommendations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  RecommendationsResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /recommendations [get]
func GetRecommendations(c *gin.Context) {
	userID, _ := c.Get("userID")
	viewerID := userID.(uint)

	prefs, err := loadPreferences(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}

	var followedIDs []uint
	if err := database.DB.Model(&models.UserFollow{}).
		Where("follower_id = ?", viewerID).
		Pluck("following_id", &followedIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load follows"})
		return
	}

	// No declared preferences and no follows means no signal at all.
	if len(prefs) == 0 && len(followedIDs) == 0 {
		c.JSON(http.StatusOK, RecommendationsResponse{
			Recommendations: []RecommendationResponse{},
			HasPreferences:  false,
		})
		return
	}

	var ownedIDs []uint
	if err := database.DB.Model(&models.LibraryEntry{}).
		Where("user_id = ?", viewerID).
		Pluck("game_id", &ownedIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load library"})
		return
	}
	owned := make(map[uint]bool, len(ownedIDs))
	for _, id := range ownedIDs {
		owned[id] = true
	}

	candidates, err := gatherCandidates(prefs, followedIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to gather candidates"})
		return
	}

	ranked := recommend.Rank(prefs, owned, candidates)

	responses := make([]RecommendationResponse, 0, len(ranked))
	for _, r := range ranked {
		responses = append(responses, RecommendationResponse{
			GameID:     r.GameID,
			AppID:      r.AppID,
			Name:       r.Name,
			ImgLogoURL: r.LogoURL,
			Score:      r.Score,
			Reason:     r.Reason,
		})
	}

	c.JSON(http.StatusOK, RecommendationsResponse{
		Recommendations: responses,
		HasPreferences:  len(prefs) > 0,
	})
}

// gatherCandidates collects games carrying any recommendation signal:
// games tagged with a preferred tag, and games owned by followed users.
func gatherCandidates(prefs map[string]float64, followedIDs []uint) ([]recommend.Candidate, error) {
	byGame := make(map[uint]*recommend.Candidate)
	var order []uint

	if len(prefs) > 0 {
		prefTags := make([]string, 0, len(prefs))
		for tag := range prefs {
			prefTags = append(prefTags, tag)
		}

		var rows []struct {
			GameID     uint
			AppID      string
			Name       string
			ImgLogoURL string
			Tag        string
		}
		err := database.DB.Model(&models.Game{}).
			Select("games.id AS game_id, games.app_id, games.name, games.img_logo_url, game_tags.tag").
			Joins("JOIN game_tags ON game_tags.game_id = games.id").
			Where("game_tags.tag IN ?", prefTags).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		for _, r := range rows {
			cand, ok := byGame[r.GameID]
			if !ok {
				cand = &recommend.Candidate{
					GameID:  r.GameID,
					AppID:   r.AppID,
					Name:    r.Name,
					LogoURL: r.ImgLogoURL,
				}
				byGame[r.GameID] = cand
				order = append(order, r.GameID)
			}
			cand.Tags = append(cand.Tags, r.Tag)
		}
	}

	if len(followedIDs) > 0 {
		var rows []struct {
			GameID     uint
			AppID      string
			Name       string
			ImgLogoURL string
		}
		err := database.DB.Model(&models.Game{}).
			Select("DISTINCT games.id AS game_id, games.app_id, games.name, games.img_logo_url").
			Joins("JOIN library_entries ON library_entries.game_id = games.id AND library_entries.deleted_at IS NULL").
			Where("library_entries.user_id IN ?", followedIDs).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		for _, r := range rows {
			cand, ok := byGame[r.GameID]
			if !ok {
				cand = &recommend.Candidate{
					GameID:  r.GameID,
					AppID:   r.AppID,
					Name:    r.Name,
					LogoURL: r.ImgLogoURL,
				}
				byGame[r.GameID] = cand
				order = append(order, r.GameID)
			}
			cand.OwnedByFollowed = true
		}
	}

	candidates := make([]recommend.Candidate, 0, len(order))
	for _, id := range order {
		candidates = append(candidates, *byGame[id])
	}
	return candidates, nil
}

func loadPreferences(userID uint) (map[string]float64, error) {
	var prefRows []models.UserPreference
	if err := database.DB.Where("user_id = ?", userID).Find(&prefRows).Error; err != nil {
		return nil, err
	}
	prefs := make(map[string]float64, len(prefRows))
	for _, p := range prefRows {
		prefs[p.Tag] = p.Weight
	}
	return prefs, nil
}

// endregion

// region --- Preference Handlers ---

// GetPreferences godoc
// @Summary      Get tag preferences
// @Description  Returns the user's declared tag preferences and the available vocabulary.
// @Tags         recommendations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PreferencesResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /recommendations/preferences [get]
func GetPreferences(c *gin.Context) {
	userID, _ := c.Get("userID")

	var prefRows []models.UserPreference
	if err := database.DB.Where("user_id = ?", userID).Order("tag ASC").Find(&prefRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}

	prefs := make([]PreferenceResponse, 0, len(prefRows))
	for _, p := range prefRows {
		prefs = append(prefs, PreferenceResponse{Tag: p.Tag, Weight: p.Weight})
	}

	c.JSON(http.StatusOK, PreferencesResponse{
		Preferences:   prefs,
		AvailableTags: tags.Vocabulary,
	})
}

// UpdatePreferences godoc
// @Summary      Replace tag preferences
// @Description  Replaces the user's declared tag preferences with the given selection. Tags outside the vocabulary are ignored.
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body TagSelectionInput true "Selected tags"
// @Success      200  {object}  map[string]int "{"updated": 3}"
// @Failure      400  {object}  ErrorResponse
// @Router       /recommendations/preferences [put]
func UpdatePreferences(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input TagSelectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selected := canonicalSelection(input.Tags)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserPreference{}).Error; err != nil {
			return err
		}
		for _, tag := range selected {
			pref := models.UserPreference{UserID: userID.(uint), Tag: tag, Weight: 1.0}
			if err := tx.Create(&pref).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": len(selected)})
}

// endregion

// region --- Game Tag Handlers ---

// GetGameTags godoc
// @Summary      Get a game's tags
// @Description  Returns the tags attached to a game and the available vocabulary.
// @Tags         recommendations
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200  {object}  GameTagsResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/tags [get]
func GetGameTags(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	var game models.Game
	if err := database.DB.First(&game, uint(gameID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var gameTags []string
	if err := database.DB.Model(&models.GameTag{}).
		Where("game_id = ?", game.ID).
		Order("tag ASC").
		Pluck("tag", &gameTags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tags"})
		return
	}

	if gameTags == nil {
		gameTags = []string{}
	}
	c.JSON(http.StatusOK, GameTagsResponse{
		GameID:        game.ID,
		Name:          game.Name,
		Tags:          gameTags,
		AvailableTags: tags.Vocabulary,
	})
}

// UpdateGameTags godoc
// @Summary      Replace a game's tags
// @Description  Replaces the tags attached to a game with the given selection. Tags outside the vocabulary are ignored.
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int               true "Game ID"
// @Param        input body TagSelectionInput true "Selected tags"
// @Success      200  {object}  map[string]int "{"updated": 2}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/tags [put]
func UpdateGameTags(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	var game models.Game
	if err := database.DB.First(&game, uint(gameID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var input TagSelectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selected := canonicalSelection(input.Tags)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", game.ID).Delete(&models.GameTag{}).Error; err != nil {
			return err
		}
		for _, tag := range selected {
			if err := tx.Create(&models.GameTag{GameID: game.ID, Tag: tag}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tags"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": len(selected)})
}

// GetTagVocabulary godoc
// @Summary      List the tag vocabulary
// @Description  Returns the canonical tag vocabulary.
// @Tags         recommendations
// @Produce      json
// @Success      200  {object}  map[string][]string "{"tags": [...]}"
// @Router       /tags [get]
func GetTagVocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": tags.Vocabulary})
}

// endregion

// canonicalSelection filters a tag selection down to unique vocabulary
// members, preserving order.
func canonicalSelection(selection []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range selection {
		if !tags.IsCanonical(tag) || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
