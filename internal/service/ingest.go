package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediashelf/media-api/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProcessing = errors.New("media processing failed")
	ErrStore      = errors.New("metadata store failed")
	ErrEmptyFile  = errors.New("empty payload")
)

// Ingestor sends uploads to the media processor and records the result
type Ingestor struct {
	Processor MediaProcessor
	Store     VideoStore
	Folder    string

	now func() time.Time
}

func NewIngestor(p MediaProcessor, s VideoStore, folder string) *Ingestor {
	return &Ingestor{
		Processor: p,
		Store:     s,
		Folder:    folder,
		now:       time.Now,
	}
}

type IngestInput struct {
	Title        string
	Description  string
	Filename     string
	OriginalSize int64
	Payload      []byte
}

// Do runs one upload through the processor and persists a record for it. The
// record is only written once the processor succeeded, so a failed call never
// leaves a row behind.
func (i *Ingestor) Do(ctx context.Context, in IngestInput) (*model.Video, error) {
	if len(in.Payload) == 0 {
		return nil, ErrEmptyFile
	}

	size := int64(len(in.Payload))
	mode := SelectMode(size)

	zap.L().Debug("Sending upload to media processor",
		zap.Int64("size", size),
		zap.Stringer("mode", mode))

	desc, err := i.Processor.Process(ctx, in.Payload, ProcessOptions{
		Kind:     KindVideo,
		Mode:     mode,
		Folder:   i.Folder,
		Filename: in.Filename,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	if desc.EagerPending {
		// TODO: link the eager derivative back to the record once a notification
		// webhook from the processor is wired up
		zap.L().Info("Eager encoding requested, record uses the original asset",
			zap.String("public_id", desc.PublicID))
	}

	originalSize := in.OriginalSize
	if originalSize <= 0 {
		originalSize = size
	}

	now := i.now()
	video := &model.Video{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		PublicID:       desc.PublicID,
		OriginalSize:   originalSize,
		CompressedSize: desc.Bytes,
		Duration:       desc.Duration,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := i.Store.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	return video, nil
}
