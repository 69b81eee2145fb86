// Package model defines database models
package model

import "time"

// Video is the metadata row stored for every asset that made it through the
// media processor. Rows are written once and never updated.
type Video struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `json:"description"`
	PublicID       string    `gorm:"uniqueIndex;not null" json:"publicId"` // Identifier assigned by Cloudinary
	OriginalSize   int64     `json:"originalSize"`
	CompressedSize int64     `json:"compressedSize"`
	Duration       float64   `json:"duration"` // Seconds, 0 for images or when unknown
	CreatedAt      time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
