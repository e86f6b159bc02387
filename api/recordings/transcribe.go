package recordings

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mnemovox/recorder/api/types"
)

// Transcribe handles re-transcription requests. The recording is moved back
// to pending with any supplied overrides applied, then the scheduler is
// nudged so the work starts without waiting for the next poll.
func Transcribe(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseRecordingID(c)
		if !ok {
			return
		}

		var req types.TranscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Invalid request format",
				Details: err.Error(),
			})
			return
		}

		if req.Model != "" && !types.ValidModels[req.Model] {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Unknown model: " + req.Model,
			})
			return
		}
		if req.Language != "" && !types.ValidLanguages[req.Language] {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Unknown language: " + req.Language,
			})
			return
		}

		var model, language *string
		if req.Model != "" {
			model = &req.Model
		}
		if req.Language != "" {
			language = &req.Language
		}

		previous, err := deps.RecordingService.ResetForRetranscription(c.Request.Context(), id, model, language)
		if err != nil {
			respondLookupError(c, err)
			return
		}

		if deps.Notifier != nil {
			deps.Notifier.Trigger()
		}

		c.JSON(http.StatusAccepted, types.TranscribeResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusAccepted,
				Message: "Recording queued for transcription",
			},
			RecordingID:    id,
			PreviousStatus: string(previous),
		})
	}
}
