package handler

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/enrich"
	"gameshelf/backend/internal/library"
	"gameshelf/backend/internal/models"
	"gameshelf/backend/internal/platform"
	"gameshelf/backend/internal/platform/epic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// SteamImportInput carries the user-supplied Steam identifier: a raw
// SteamID64, a profile URL, or a vanity name.
type SteamImportInput struct {
	SteamID string `json:"steam_id" binding:"required" example:"76561197960287930"`
}

// EpicImportInput carries the Epic account id for the Ecom API import.
type EpicImportInput struct {
	AccountID string `json:"account_id" binding:"required"`
}

// EpicManifestInput carries pasted Epic launcher manifest data.
type EpicManifestInput struct {
	Manifest string `json:"manifest" binding:"required"`
}

// EpicManualInput carries newline-separated "Game Name|offer-id" entries.
type EpicManualInput struct {
	Games string `json:"games" binding:"required"`
}

// ImportResponse reports what an import batch did.
type ImportResponse struct {
	Imported      int `json:"imported"`
	Updated       int `json:"updated"`
	QueuedForTags int `json:"queued_for_tags,omitempty"`
}

// LibraryGameResponse is one row of the user's library listing.
type LibraryGameResponse struct {
	GameID          uint      `json:"game_id"`
	AppID           string    `json:"appid"`
	Name            string    `json:"name"`
	Platform        string    `json:"platform"`
	PlaytimeForever int       `json:"playtime_forever"`
	ImgIconURL      string    `json:"img_icon_url"`
	ImgLogoURL      string    `json:"img_logo_url"`
	ImportedAt      time.Time `json:"imported_at"`
}

// endregion

// Whitelisted sort keys for the library listing. Anything else silently
// falls back to the default; user input never reaches the ORDER BY clause.
var librarySorts = map[string]string{
	"name":     "games.name",
	"playtime": "library_entries.playtime_forever",
	"imported": "library_entries.imported_at",
}

// region --- Import Handlers ---

// ImportSteamLibrary godoc
// @Summary      Import a Steam library
// @Description  Resolves the supplied identifier, fetches the owned games and upserts them into the user's library. Fetched games are queued for background tag enrichment.
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SteamImportInput true "Steam ID, profile URL or vanity name"
// @Success      200  {object}  ImportResponse
// @Failure      400  {object}  ErrorResponse "Malformed Steam ID"
// @Failure      403  {object}  ErrorResponse "Private profile"
// @Failure      404  {object}  ErrorResponse "Identity not found"
// @Failure      422  {object}  ErrorResponse "Empty library"
// @Failure      502  {object}  ErrorResponse "Steam API unavailable"
// @Failure      503  {object}  ErrorResponse "API key not configured"
// @Router       /library/import/steam [post]
func ImportSteamLibrary(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input SteamImportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	steamID, err := SteamClient.ResolveID(ctx, input.SteamID)
	if err != nil {
		respondPlatformError(c, err)
		return
	}

	games, err := SteamClient.OwnedGames(ctx, steamID)
	if err != nil {
		respondPlatformError(c, err)
		return
	}

	result, err := library.Merge(database.DB, userID.(uint), models.PlatformSteam, games)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store imported games"})
		return
	}

	// Steam games get their tags filled in off the request path.
	batch := uuid.New()
	taskList := make([]enrich.Task, 0, len(result.Games))
	for _, g := range result.Games {
		taskList = append(taskList, enrich.Task{GameID: g.GameID, AppID: g.ExternalID, BatchID: batch})
	}
	queued := Enricher.Enqueue(taskList...)

	c.JSON(http.StatusOK, ImportResponse{
		Imported:      result.Imported,
		Updated:       result.Updated,
		QueuedForTags: queued,
	})
}

// ImportEpicLibrary godoc
// @Summary      Import an Epic Games library via the Ecom API
// @Description  Exchanges client credentials for a token, fetches the account's entitlements and upserts them into the user's library.
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EpicImportInput true "Epic account ID"
// @Success      200  {object}  ImportResponse
// @Failure      403  {object}  ErrorResponse "Credentials rejected or insufficient scope"
// @Failure      422  {object}  ErrorResponse "Empty library"
// @Failure      502  {object}  ErrorResponse "Epic API unavailable"
// @Failure      503  {object}  ErrorResponse "Credentials not configured"
// @Router       /library/import/epic [post]
func ImportEpicLibrary(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input EpicImportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	games, err := EpicClient.FetchLibrary(c.Request.Context(), input.AccountID)
	if err != nil {
		respondPlatformError(c, err)
		return
	}

	result, err := library.Merge(database.DB, userID.(uint), models.PlatformEpic, games)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store imported games"})
		return
	}

	c.JSON(http.StatusOK, ImportResponse{Imported: result.Imported, Updated: result.Updated})
}

// ImportEpicManifest godoc
// @Summary      Import an Epic Games library from manifest data
// @Description  Parses pasted launcher manifest data (JSON array, wrapped object or free text) and upserts the recognized games.
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EpicManifestInput true "Manifest data"
// @Success      200  {object}  ImportResponse
// @Failure      400  {object}  ErrorResponse "No recognizable game entries"
// @Router       /library/import/epic/manifest [post]
func ImportEpicManifest(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input EpicManifestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	games := epic.ParseManifest(input.Manifest)
	if len(games) == 0 {
		respondPlatformError(c, fmt.Errorf("%w: no recognizable game entries in manifest data", platform.ErrMalformedInput))
		return
	}

	fillEpicDefaults(c, games)

	result, err := library.Merge(database.DB, userID.(uint), models.PlatformEpic, games)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store imported games"})
		return
	}

	c.JSON(http.StatusOK, ImportResponse{Imported: result.Imported, Updated: result.Updated})
}

// ImportEpicManual godoc
// @Summary      Import Epic games entered manually
// @Description  Parses newline-separated "Game Name|offer-id" entries (the offer id is optional) and upserts them.
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EpicManualInput true "Manual game list"
// @Success      200  {object}  ImportResponse
// @Failure      400  {object}  ErrorResponse "No entries"
// @Router       /library/import/epic/manual [post]
func ImportEpicManual(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input EpicManualInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	games := epic.ParseManualList(input.Games)
	if len(games) == 0 {
		respondPlatformError(c, fmt.Errorf("%w: no game entries found", platform.ErrMalformedInput))
		return
	}

	fillEpicDefaults(c, games)

	result, err := library.Merge(database.DB, userID.(uint), models.PlatformEpic, games)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store imported games"})
		return
	}

	c.JSON(http.StatusOK, ImportResponse{Imported: result.Imported, Updated: result.Updated})
}

// fillEpicDefaults derives stable external ids for entries without an
// offer id and looks up logo images (best effort) for those with one.
func fillEpicDefaults(c *gin.Context, games []platform.Game) {
	for i := range games {
		if games[i].ExternalID == "" {
			games[i].ExternalID = epic.FallbackExternalID(games[i].Name)
			continue
		}
		games[i].LogoURL = EpicClient.OfferLogo(c.Request.Context(), games[i].ExternalID)
	}
}

// endregion

// region --- Library Handlers ---

// GetLibrary godoc
// @Summary      List the user's library
// @Description  Returns the user's imported games. Sortable by name, playtime or import time; unknown sort values fall back to name ascending.
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        sort  query     string  false  "Sort key (name, playtime, imported)" default(name)
// @Param        order query     string  false  "Sort order (asc, desc)" default(asc)
// @Success      200  {array}   LibraryGameResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /library [get]
func GetLibrary(c *gin.Context) {
	userID, _ := c.Get("userID")

	column, ok := librarySorts[c.DefaultQuery("sort", "name")]
	if !ok {
		column = librarySorts["name"]
	}
	order := c.DefaultQuery("order", "asc")
	if order != "asc" && order != "desc" {
		order = "asc"
	}

	var games []LibraryGameResponse
	err := database.DB.Model(&models.LibraryEntry{}).
		Select("games.id AS game_id, games.app_id, games.name, games.platform, games.img_icon_url, games.img_logo_url, library_entries.playtime_forever, library_entries.imported_at").
		Joins("JOIN games ON games.id = library_entries.game_id AND games.deleted_at IS NULL").
		Where("library_entries.user_id = ?", userID).
		Order(column + " " + strings.ToUpper(order)).
		Scan(&games).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve library"})
		return
	}

	if games == nil {
		games = []LibraryGameResponse{}
	}
	c.JSON(http.StatusOK, games)
}

// GetRandomGame godoc
// @Summary      Pick a random game
// @Description  Returns one random game from the user's library.
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  LibraryGameResponse
// @Failure      404  {object}  ErrorResponse "Library is empty"
// @Router       /library/random [get]
func GetRandomGame(c *gin.Context) {
	userID, _ := c.Get("userID")

	var games []LibraryGameResponse
	err := database.DB.Model(&models.LibraryEntry{}).
		Select("games.id AS game_id, games.app_id, games.name, games.platform, games.img_icon_url, games.img_logo_url, library_entries.playtime_forever, library_entries.imported_at").
		Joins("JOIN games ON games.id = library_entries.game_id AND games.deleted_at IS NULL").
		Where("library_entries.user_id = ?", userID).
		Scan(&games).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve library"})
		return
	}

	if len(games) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Your library is empty. Import games first!"})
		return
	}

	c.JSON(http.StatusOK, games[rand.IntN(len(games))])
}

// RemoveGame godoc
// @Summary      Remove a game from the library
// @Description  Removes one game from the user's library. The game row itself stays for other owners.
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200  {object}  map[string]string "{"message": "Game removed from your library"}"
// @Failure      404  {object}  ErrorResponse "Game not in library"
// @Router       /library/{id} [delete]
func RemoveGame(c *gin.Context) {
	userID, _ := c.Get("userID")
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	// Hard delete: a soft-deleted row would keep holding the (user, game)
	// unique index and block the game from ever being re-imported.
	result := database.DB.Unscoped().Where("user_id = ? AND game_id = ?", userID, uint(gameID)).Delete(&models.LibraryEntry{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove game"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found in your library"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game removed from your library"})
}

// GetEnrichmentStats godoc
// @Summary      Tag enrichment progress
// @Description  Returns counters for the background tag enrichment worker.
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  enrich.Stats
// @Router       /library/enrichment [get]
func GetEnrichmentStats(c *gin.Context) {
	c.JSON(http.StatusOK, Enricher.Stats())
}

// endregion
