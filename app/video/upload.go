package video

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"mediashelf/media-api/internal"
	"mediashelf/media-api/internal/service"
	"mediashelf/media-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func VideoUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	if d.Processor == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Cloudinary credentials not found",
			"requestID": requestID,
		})

		zap.L().Error("Upload attempted without media processor credentials", zap.String("requestID", requestID))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed multipart form",
			"requestID": requestID,
		})

		zap.L().Warn("Failed to read multipart form", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	code, payload, err := validators.FileValidator(fh, "video/", d.MaxUploadSize)
	if err != nil {
		if code == http.StatusInternalServerError {
			c.JSON(code, gin.H{
				"error":     "Video upload route error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to read uploaded file", zap.String("requestID", requestID), zap.Error(err))
			return
		}

		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Title is required",
			"requestID": requestID,
		})
		return
	}

	originalSize, err := strconv.ParseInt(c.PostForm("originalSize"), 10, 64)
	if err != nil || originalSize <= 0 {
		originalSize = fh.Size
	}

	video, err := d.Ingestor().Do(c.Request.Context(), service.IngestInput{
		Title:        title,
		Description:  c.PostForm("description"),
		Filename:     fh.Filename,
		OriginalSize: originalSize,
		Payload:      payload,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Video upload route error",
			"requestID": requestID,
		})

		switch {
		case errors.Is(err, service.ErrProcessing):
			zap.L().Error("Media processor rejected upload", zap.String("requestID", requestID), zap.Error(err))
		case errors.Is(err, service.ErrStore):
			zap.L().Error("Failed to save video record", zap.String("requestID", requestID), zap.Error(err))
		default:
			zap.L().Error("Video upload failed", zap.String("requestID", requestID), zap.Error(err))
		}
		return
	}

	zap.L().Info("Video uploaded",
		zap.String("requestID", requestID),
		zap.String("userID", userID),
		zap.String("public_id", video.PublicID))

	c.JSON(http.StatusOK, video)
}
