// Package service contains the upload workflow and the interfaces of the
// external collaborators it talks to
package service

import (
	"context"
	"errors"
)

// EagerThreshold is the payload size above which the processor is asked to
// build the normalized encoding in the background instead of inline
const EagerThreshold = 40 << 20

var ErrNotConfigured = errors.New("media processor credentials not found")

// Mode tells the processor how the normalized encoding should be produced
type Mode int

const (
	// ModeInline applies the normalization before the processor responds
	ModeInline Mode = iota
	// ModeEager requests a derived encoding that is built asynchronously
	ModeEager
)

func (m Mode) String() string {
	switch m {
	case ModeInline:
		return "inline"
	case ModeEager:
		return "eager"
	default:
		return "unknown"
	}
}

// SelectMode picks the processing mode for a payload of the given size
func SelectMode(size int64) Mode {
	if size > EagerThreshold {
		return ModeEager
	}

	return ModeInline
}

// Kind is the resource type sent to the processor
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

type ProcessOptions struct {
	Kind     Kind
	Mode     Mode
	Folder   string
	Filename string
}

// Descriptor is what the processor reports back about a stored asset
type Descriptor struct {
	PublicID  string
	Bytes     int64
	Duration  float64
	Format    string
	SecureURL string

	// EagerPending is set when a derived encoding was requested in the
	// background and nothing waited for it
	EagerPending bool
}

// MediaProcessor is the remote service that normalizes and stores media
type MediaProcessor interface {
	Process(ctx context.Context, payload []byte, opts ProcessOptions) (*Descriptor, error)
}
