package recordings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mnemovox/recorder/api/types"
	recordingsService "github.com/mnemovox/recorder/internal/services/recordings"
)

const maxPerPage = 100

// List handles paginated listing of recordings, newest first
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := parsePositiveInt(c.Query("page"), 1)
		perPage := parsePositiveInt(c.Query("per_page"), deps.ItemsPerPage)
		if perPage > maxPerPage {
			perPage = maxPerPage
		}

		rows, total, err := deps.RecordingService.List(c.Request.Context(), page, perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to list recordings",
				Details: err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.RecordingsResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: "Recordings retrieved successfully",
			},
			Recordings: rows,
			Page:       page,
			PerPage:    perPage,
			Count:      len(rows),
			Total:      total,
		})
	}
}

// Get handles fetching a single recording by ID
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseRecordingID(c)
		if !ok {
			return
		}

		rec, err := deps.RecordingService.Get(c.Request.Context(), id)
		if err != nil {
			respondLookupError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.SingleRecordingResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: "Recording retrieved successfully",
			},
			Recording: rec,
		})
	}
}

// Segments handles fetching the transcript segments of a recording
func Segments(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseRecordingID(c)
		if !ok {
			return
		}

		rec, err := deps.RecordingService.Get(c.Request.Context(), id)
		if err != nil {
			respondLookupError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.SegmentsResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: "Segments retrieved successfully",
			},
			RecordingID:      rec.ID,
			TranscriptStatus: string(rec.TranscriptStatus),
			Segments:         rec.TranscriptSegments,
		})
	}
}

// parseRecordingID extracts the :id path parameter, writing a 400 response
// and returning ok=false when it is not a positive integer
func parseRecordingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Status:  types.StatusError,
			Message: "Invalid recording ID",
		})
		return 0, false
	}
	return uint(id), true
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, recordingsService.ErrRecordingNotFound) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Status:  types.StatusError,
			Message: "Recording not found",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{
		Status:  types.StatusError,
		Message: "Failed to fetch recording",
		Details: err.Error(),
	})
}
