package internal

import (
	"mediashelf/media-api/internal/service"
)

// Deps is handed to every handler. Processor stays nil when the media
// processor credentials are missing.
type Deps struct {
	Videos        service.VideoStore
	Processor     service.MediaProcessor
	MaxUploadSize int64
	VideoFolder   string
	ImageFolder   string
}

// Ingestor returns the upload workflow bound to the current dependencies
func (d *Deps) Ingestor() *service.Ingestor {
	return service.NewIngestor(d.Processor, d.Videos, d.VideoFolder)
}
