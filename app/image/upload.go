// Package image contains the image upload endpoint used by the social share tool
package image

import (
	"errors"
	"net/http"

	"mediashelf/media-api/internal"
	"mediashelf/media-api/internal/service"
	"mediashelf/media-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageUpload sends a single image to the media processor and returns its
// public id. Nothing is persisted locally.
func ImageUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	if c.GetString("userID") == "" {
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
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		msg := "Malformed multipart form"
		if errors.Is(err, http.ErrMissingFile) {
			msg = "File not found"
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     msg,
			"requestID": requestID,
		})
		return
	}

	code, payload, err := validators.FileValidator(fh, "image/", d.MaxUploadSize)
	if err != nil {
		if code == http.StatusInternalServerError {
			c.JSON(code, gin.H{
				"error":     "Upload image failed",
				"requestID": requestID,
			})

			zap.L().Error("Failed to read uploaded image", zap.String("requestID", requestID), zap.Error(err))
			return
		}

		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	desc, err := d.Processor.Process(c.Request.Context(), payload, service.ProcessOptions{
		Kind:     service.KindImage,
		Folder:   d.ImageFolder,
		Filename: fh.Filename,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Upload image failed",
			"requestID": requestID,
		})

		zap.L().Error("Media processor rejected image", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"publicId": desc.PublicID,
	})
}
