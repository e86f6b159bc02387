package recordings

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mnemovox/recorder/api/types"
)

// validUploadExtensions mirrors what the ingest pipeline accepts
var validUploadExtensions = map[string]bool{
	".wav": true,
	".mp3": true,
	".m4a": true,
}

// Upload handles multipart audio uploads. The file is staged under a
// throwaway directory and then run through the same ingestion path as files
// dropped into the watch directory, so both entry points share one set of
// rules for naming, partitioning and registration.
func Upload(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Missing file in multipart form",
				Details: err.Error(),
			})
			return
		}

		originalName := filepath.Base(fileHeader.Filename)
		if !validUploadExtensions[strings.ToLower(filepath.Ext(originalName))] {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Unsupported file type, expected .wav, .mp3 or .m4a",
			})
			return
		}

		// Stage in a uuid-named directory so the original filename survives
		// intact for the ingestion record
		stageBase := deps.UploadTempDir
		if stageBase == "" {
			stageBase = os.TempDir()
		}
		stageDir := filepath.Join(stageBase, uuid.NewString())
		if err := os.MkdirAll(stageDir, 0755); err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to stage upload",
				Details: err.Error(),
			})
			return
		}
		defer os.RemoveAll(stageDir)

		stagePath := filepath.Join(stageDir, originalName)
		if err := c.SaveUploadedFile(fileHeader, stagePath); err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to save upload",
				Details: err.Error(),
			})
			return
		}

		if err := deps.Ingestor.ProcessFile(c.Request.Context(), stagePath); err != nil {
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "File could not be ingested",
				Details: err.Error(),
			})
			return
		}

		c.JSON(http.StatusAccepted, types.UploadResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusAccepted,
				Message: "Upload accepted for transcription",
			},
			OriginalFilename: originalName,
		})
	}
}
