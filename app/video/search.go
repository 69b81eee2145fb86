package video

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"mediashelf/media-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var validLimits = []int{10, 20, 50, 100, 250}

func VideoSearch(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	searchQuery := strings.TrimSpace(c.Query("query"))
	if searchQuery == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No search query provided",
			"requestID": requestID,
		})
		return
	}

	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || !slices.Contains(validLimits, limit) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid limit provided",
			"requestID": requestID,
		})
		return
	}

	pageStr := c.DefaultQuery("page", "0")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid page provided",
			"requestID": requestID,
		})
		return
	}

	results, err := d.Videos.Search(c.Request.Context(), searchQuery, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to find videos by search query", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, results)
}
