package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"gameshelf/backend/internal/auth"
	"gameshelf/backend/internal/config"
	"gameshelf/backend/internal/database"
	"gameshelf/backend/internal/enrich"
	"gameshelf/backend/internal/handler"
	"gameshelf/backend/internal/platform/epic"
	"gameshelf/backend/internal/platform/steam"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const sweepInterval = 24 * time.Hour

func init() {
	config.LoadConfig()
}

// @title           GameShelf API
// @version         1.0
// @description     This is the API for the GameShelf service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	steamClient := steam.NewClient(func() string {
		return config.AppConfig.SteamAPIKey
	}, logger)
	epicClient := epic.NewClient(func() epic.Credentials {
		return epic.Credentials{
			ClientID:     config.AppConfig.EpicClientID,
			ClientSecret: config.AppConfig.EpicClientSecret,
			DeploymentID: config.AppConfig.EpicDeploymentID,
		}
	}, logger)

	enricher := enrich.NewWorker(steamClient, &enrich.GormTagStore{DB: database.DB}, logger)
	enricher.Start(context.Background())
	if _, err := enricher.StartSweep(database.DB, sweepInterval); err != nil {
		log.Fatalf("Unable to start enrichment sweep, %v", err)
	}

	handler.Init(steamClient, epicClient, enricher)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// Public tag vocabulary
		apiV1.GET("/tags", handler.GetTagVocabulary)

		// User routes
		userRoutes := apiV1.Group("/users")
		{
			// Public profile works with or without a token; the token only
			// adds the is_following flag.
			userRoutes.GET("/:id", auth.OptionalAuthMiddleware(), handler.GetUserByID)

			protected := userRoutes.Group("")
			protected.Use(auth.AuthMiddleware())
			{
				protected.GET("", handler.SearchUsers) // Must be before /:id
				protected.GET("/me", handler.GetMe)
				protected.GET("/me/following", handler.GetFollowing)
				protected.POST("/:id/follow", handler.FollowUser)
				protected.POST("/:id/unfollow", handler.UnfollowUser)
				protected.GET("/:id/common-games", handler.GetCommonGames)
			}
		}

		// Library routes (protected)
		libraryRoutes := apiV1.Group("/library")
		libraryRoutes.Use(auth.AuthMiddleware())
		{
			libraryRoutes.POST("/import/steam", handler.ImportSteamLibrary)
			libraryRoutes.POST("/import/epic", handler.ImportEpicLibrary)
			libraryRoutes.POST("/import/epic/manifest", handler.ImportEpicManifest)
			libraryRoutes.POST("/import/epic/manual", handler.ImportEpicManual)
			libraryRoutes.GET("", handler.GetLibrary)
			libraryRoutes.GET("/random", handler.GetRandomGame)
			libraryRoutes.DELETE("/:id", handler.RemoveGame)
			libraryRoutes.GET("/enrichment", handler.GetEnrichmentStats)
		}

		// Game tag routes (protected)
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.AuthMiddleware())
		{
			gameRoutes.GET("/:id/tags", handler.GetGameTags)
			gameRoutes.PUT("/:id/tags", handler.UpdateGameTags)
		}

		// Recommendation routes (protected)
		recRoutes := apiV1.Group("/recommendations")
		recRoutes.Use(auth.AuthMiddleware())
		{
			recRoutes.GET("", handler.GetRecommendations)
			recRoutes.GET("/preferences", handler.GetPreferences)
			recRoutes.PUT("/preferences", handler.UpdatePreferences)
		}
	}

	fmt.Println("Server is running on :8080")
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(":8080"))
}
