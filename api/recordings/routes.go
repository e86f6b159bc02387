package recordings

import (
	"github.com/gin-gonic/gin"
	"github.com/mnemovox/recorder/api/types"
)

// RegisterRoutes registers recording routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, bodyLimit gin.HandlerFunc) {
	router.GET("", List(deps))
	router.GET("/:id", Get(deps))
	router.GET("/:id/segments", Segments(deps))
	router.POST("/:id/transcribe", bodyLimit, Transcribe(deps))
	router.DELETE("/:id", Delete(deps))
}

// RegisterUploadRoutes registers the upload route. It lives under its own
// prefix because the :id wildcard on the recordings group would collide with
// a static /upload segment, and because it carries a much larger body cap.
func RegisterUploadRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.POST("", Upload(deps))
}
