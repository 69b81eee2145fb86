// Package video contains the endpoints working with video records
package video

import (
	"net/http"

	"mediashelf/media-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoList returns every video record, newest first. The route is public.
func VideoList(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	videos, err := d.Videos.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong in fetching /video",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list videos", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, videos)
}
