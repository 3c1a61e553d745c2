package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/models"
	"gameshelf/backend/internal/social"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// FollowedUserResponse is one entry of the following list.
type FollowedUserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	FollowedAt time.Time `json:"followed_at"`
}

// CommonGameResponse is one shared game in a library comparison.
type CommonGameResponse struct {
	GameID        uint    `json:"game_id"`
	AppID         string  `json:"appid"`
	Name          string  `json:"name"`
	ImgLogoURL    string  `json:"img_logo_url"`
	MyPlaytime    int     `json:"my_playtime"`
	TheirPlaytime int     `json:"their_playtime"`
	TotalPlaytime int     `json:"total_playtime"`
	Relevance     float64 `json:"relevance"`
}

// CommonGamesResponse is the full library comparison with another user.
type CommonGamesResponse struct {
	User        PublicUserResponse   `json:"user"`
	IsFollowing bool                 `json:"is_following"`
	SortBy      string               `json:"sort_by"`
	SortOrder   string               `json:"sort_order"`
	Games       []CommonGameResponse `json:"games"`
}

// endregion

// FollowUser godoc
// @Summary      Follow a user
// @Description  Creates a follow edge to another user. Following someone already followed is reported, not an error. Self-follows are rejected.
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Already following"}"
// @Success      201  {object}  map[string]string "{"message": "Now following"}"
// @Failure      400  {object}  ErrorResponse "Self-follow"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /users/{id}/follow [post]
func FollowUser(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if viewerID.(uint) == uint(targetUserID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot follow yourself"})
		return
	}

	var targetUser models.User
	if err := database.DB.First(&targetUser, uint(targetUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Duplicate follows are downgraded to a no-op, not surfaced as a conflict.
	var existing models.UserFollow
	err = database.DB.Where("follower_id = ? AND following_id = ?", viewerID, targetUserID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "You are already following " + targetUser.Username})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check follow status"})
		return
	}

	follow := models.UserFollow{
		FollowerID:  viewerID.(uint),
		FollowingID: uint(targetUserID),
	}
	if err := database.DB.Create(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "You are now following " + targetUser.Username})
}

// UnfollowUser godoc
// @Summary      Unfollow a user
// @Description  Removes the follow edge to another user. Unfollowing someone not followed is a silent no-op.
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Unfollowed"}"
// @Failure      400  {object}  ErrorResponse
// @Router       /users/{id}/unfollow [post]
func UnfollowUser(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := database.DB.Where("follower_id = ? AND following_id = ?", viewerID, targetUserID).
		Delete(&models.UserFollow{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}

	// No-op when there was nothing to delete.
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

// GetFollowing godoc
// @Summary      List followed users
// @Description  Returns the users the authenticated user follows, newest first.
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FollowedUserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/following [get]
func GetFollowing(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var following []FollowedUserResponse
	err := database.DB.Model(&models.UserFollow{}).
		Select("users.id, users.username, user_follows.created_at AS followed_at").
		Joins("JOIN users ON users.id = user_follows.following_id AND users.deleted_at IS NULL").
		Where("user_follows.follower_id = ?", viewerID).
		Order("user_follows.created_at DESC").
		Scan(&following).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch following list"})
		return
	}

	if following == nil {
		following = []FollowedUserResponse{}
	}
	c.JSON(http.StatusOK, following)
}

// GetCommonGames godoc
// @Summary      Compare libraries with another user
// @Description  Returns the games both users own, with playtimes and a relevance score. Sortable by name, playtime, my_playtime, their_playtime or relevance; unknown values fall back to the default.
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int     true   "Other User ID"
// @Param        sort  query     string  false  "Sort key" default(relevance)
// @Param        order query     string  false  "Sort order (asc, desc)" default(desc)
// @Success      200  {object}  CommonGamesResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /users/{id}/common-games [get]
func GetCommonGames(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	otherUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var otherUser models.User
	if err := database.DB.First(&otherUser, uint(otherUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var rows []struct {
		GameID        uint
		AppID         string
		Name          string
		ImgLogoURL    string
		MyPlaytime    int
		TheirPlaytime int
	}
	err = database.DB.Raw(`
		SELECT g.id AS game_id, g.app_id, g.name, g.img_logo_url,
		       mine.playtime_forever AS my_playtime,
		       theirs.playtime_forever AS their_playtime
		FROM games g
		INNER JOIN library_entries mine ON mine.game_id = g.id AND mine.user_id = ? AND mine.deleted_at IS NULL
		INNER JOIN library_entries theirs ON theirs.game_id = g.id AND theirs.user_id = ? AND theirs.deleted_at IS NULL
		WHERE g.deleted_at IS NULL`,
		viewerID, uint(otherUserID)).Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compare libraries"})
		return
	}

	commonGames := make([]social.CommonGame, 0, len(rows))
	for _, r := range rows {
		commonGames = append(commonGames, social.CommonGame{
			GameID:        r.GameID,
			AppID:         r.AppID,
			Name:          r.Name,
			LogoURL:       r.ImgLogoURL,
			MyPlaytime:    r.MyPlaytime,
			TheirPlaytime: r.TheirPlaytime,
			TotalPlaytime: r.MyPlaytime + r.TheirPlaytime,
			Relevance:     social.Relevance(r.MyPlaytime, r.TheirPlaytime),
		})
	}

	sortBy, order := social.NormalizeSort(c.DefaultQuery("sort", "relevance"), c.DefaultQuery("order", "desc"))
	social.SortCommonGames(commonGames, sortBy, order)

	gameResponses := make([]CommonGameResponse, 0, len(commonGames))
	for _, g := range commonGames {
		gameResponses = append(gameResponses, CommonGameResponse{
			GameID:        g.GameID,
			AppID:         g.AppID,
			Name:          g.Name,
			ImgLogoURL:    g.LogoURL,
			MyPlaytime:    g.MyPlaytime,
			TheirPlaytime: g.TheirPlaytime,
			TotalPlaytime: g.TotalPlaytime,
			Relevance:     g.Relevance,
		})
	}

	c.JSON(http.StatusOK, CommonGamesResponse{
		User:        buildPublicUserResponse(otherUser, viewerID.(uint), true),
		IsFollowing: isFollowing(viewerID.(uint), uint(otherUserID)),
		SortBy:      sortBy,
		SortOrder:   order,
		Games:       gameResponses,
	})
}

func isFollowing(followerID, followingID uint) bool {
	var follow models.UserFollow
	err := database.DB.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&follow).Error
	return err == nil
}
