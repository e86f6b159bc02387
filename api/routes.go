package api

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mnemovox/recorder/api/health"
	"github.com/mnemovox/recorder/api/recordings"
	"github.com/mnemovox/recorder/api/search"
	"github.com/mnemovox/recorder/api/types"
)

// maxUploadBytes caps multipart audio uploads at 512 MB
const maxUploadBytes = 512 << 20

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Public routes, no rate limiting
	health.RegisterRoutes(engine, deps)

	engine.NoRoute(NotFoundHandler())

	// Raw audio files are served straight off the partitioned storage tree
	if deps.StorageRoot != "" {
		engine.Static("/audio", deps.StorageRoot)
	}

	apiGroup := engine.Group("/api")

	// Recording routes with general rate limiting (10 req/s, burst of 20)
	recordingsGroup := apiGroup.Group("/recordings")
	recordingsGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	recordings.RegisterRoutes(recordingsGroup, deps, RequestSizeLimit())

	// Uploads get a large body cap and a tight rate (1 req/s, burst of 3)
	// since each one kicks off probing and a disk move
	uploadGroup := apiGroup.Group("/uploads")
	uploadGroup.Use(
		RequestSizeLimitWithSize(maxUploadBytes),
		PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 1, 3),
	)
	recordings.RegisterUploadRoutes(uploadGroup, deps)

	// Search routes with dedicated rate limiting (5 req/s, burst of 10)
	searchGroup := apiGroup.Group("/search")
	searchGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 5, 10))
	search.RegisterRoutes(searchGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
