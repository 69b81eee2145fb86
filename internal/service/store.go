package service

import (
	"context"

	"mediashelf/media-api/internal/model"
)

// VideoStore persists and reads video metadata records
type VideoStore interface {
	Create(ctx context.Context, v *model.Video) error
	// List returns every record, newest first
	List(ctx context.Context) ([]model.Video, error)
	// Search returns records whose title contains query, newest first
	Search(ctx context.Context, query string, page, limit int) ([]model.Video, error)
}
