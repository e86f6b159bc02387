package recordings

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mnemovox/recorder/api/types"
)

// Delete removes a recording, its search index entry and its audio file
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseRecordingID(c)
		if !ok {
			return
		}

		if err := deps.RecordingService.Delete(c.Request.Context(), id); err != nil {
			respondLookupError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{
			Status:  types.StatusOK,
			Message: "Recording deleted",
		})
	}
}
