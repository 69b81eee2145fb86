// Package cloudinary defines the media processor backed by the Cloudinary
// upload API
package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"mediashelf/media-api/internal/service"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

const (
	// Applied before Cloudinary responds
	inlineTransformation = "q_auto,f_mp4"
	// Built in the background for large uploads
	eagerTransformation = "q_auto,f_mp4,vc_h264"
)

type Credentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

func (c Credentials) complete() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type Client struct {
	C *cloudinary.Cloudinary
}

// New builds a client from explicit credentials. It returns
// service.ErrNotConfigured when any of them is missing.
func New(creds Credentials) (*Client, error) {
	if !creds.complete() {
		return nil, service.ErrNotConfigured
	}

	cld, err := cloudinary.NewFromParams(creds.CloudName, creds.APIKey, creds.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client, %w", err)
	}
	cld.Config.URL.Secure = true

	return &Client{C: cld}, nil
}

func (c *Client) Process(ctx context.Context, payload []byte, opts service.ProcessOptions) (*service.Descriptor, error) {
	params := uploadParams(opts)

	zap.L().Debug("Uploading asset to cloudinary",
		zap.String("resource_type", params.ResourceType),
		zap.String("folder", params.Folder),
		zap.Stringer("mode", opts.Mode))

	res, err := c.C.Upload.Upload(ctx, bytes.NewReader(payload), params)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed, %w", err)
	}

	return descriptorFrom(res, opts)
}

func uploadParams(opts service.ProcessOptions) uploader.UploadParams {
	params := uploader.UploadParams{
		Folder:       opts.Folder,
		ResourceType: string(opts.Kind),
	}

	if opts.Kind != service.KindVideo {
		return params
	}

	switch opts.Mode {
	case service.ModeEager:
		params.Eager = eagerTransformation
		params.EagerAsync = api.Bool(true)
	default:
		params.Transformation = inlineTransformation
	}

	return params
}

func descriptorFrom(res *uploader.UploadResult, opts service.ProcessOptions) (*service.Descriptor, error) {
	if res == nil {
		return nil, errors.New("cloudinary returned no result")
	}

	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary rejected upload: %s", res.Error.Message)
	}

	if res.PublicID == "" {
		return nil, errors.New("cloudinary returned no public id")
	}

	d := &service.Descriptor{
		PublicID:     res.PublicID,
		Bytes:        int64(res.Bytes),
		Format:       res.Format,
		SecureURL:    res.SecureURL,
		EagerPending: opts.Kind == service.KindVideo && opts.Mode == service.ModeEager,
	}

	// Duration is only present for audio and video resources
	if raw, ok := res.Response.(map[string]any); ok {
		if dur, ok := raw["duration"].(float64); ok {
			d.Duration = dur
		}
	}

	return d, nil
}
