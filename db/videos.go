package db

import (
	"context"
	"strings"

	"mediashelf/media-api/internal/model"

	"gorm.io/gorm"
)

// VideoStore implements service.VideoStore on top of gorm. Every call is bound
// to the caller's context so the pooled connection goes back to the pool when
// the request ends, whichever way it ends.
type VideoStore struct {
	DB *gorm.DB
}

func NewVideoStore(db *gorm.DB) *VideoStore {
	return &VideoStore{DB: db}
}

func (s *VideoStore) Create(ctx context.Context, v *model.Video) error {
	return s.DB.WithContext(ctx).Create(v).Error
}

func (s *VideoStore) List(ctx context.Context) ([]model.Video, error) {
	videos := []model.Video{}

	err := s.DB.
		WithContext(ctx).
		Order("created_at desc").
		Find(&videos).
		Error
	if err != nil {
		return nil, err
	}

	return videos, nil
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search matches query as a case-insensitive substring of the title
func (s *VideoStore) Search(ctx context.Context, query string, page, limit int) ([]model.Video, error) {
	results := []model.Video{}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	err := s.DB.
		WithContext(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern).
		Order("created_at desc").
		Offset(page * limit).
		Limit(limit).
		Find(&results).
		Error
	if err != nil {
		return nil, err
	}

	return results, nil
}
