package search

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mnemovox/recorder/api/types"
)

const (
	minQueryLength = 3
	maxPerPage     = 100
)

// Get handles full-text search over completed transcripts
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if len(query) < minQueryLength {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Search query must be at least 3 characters",
			})
			return
		}

		page := parsePositiveInt(c.Query("page"), 1)
		perPage := parsePositiveInt(c.Query("per_page"), deps.ItemsPerPage)
		if perPage > maxPerPage {
			perPage = maxPerPage
		}

		results, total, err := deps.RecordingService.Search(c.Request.Context(), query, page, perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Search failed",
				Details: err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.SearchResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: "Search results retrieved successfully",
			},
			Query:   query,
			Results: results,
			Page:    page,
			PerPage: perPage,
			Count:   len(results),
			Total:   total,
		})
	}
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
