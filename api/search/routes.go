package search

import (
	"github.com/gin-gonic/gin"
	"github.com/mnemovox/recorder/api/types"
)

// RegisterRoutes registers search routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/search (router already includes /search prefix)
	router.GET("", Get(deps))
}
