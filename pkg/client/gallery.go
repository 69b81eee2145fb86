package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"mediashelf/media-api/internal/model"
)

// SkeletonCount is the number of placeholder rows shown while the gallery loads
const SkeletonCount = 6

// ListVideos fetches every record, newest first. All failures are wrapped in
// ErrListFailed.
func (c *Client) ListVideos(ctx context.Context) ([]model.Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/video", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListFailed, err)
	}
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w, %w", ErrListFailed, ErrTransport, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListFailed, err)
	}

	var videos []model.Video
	if err := json.NewDecoder(resp.Body).Decode(&videos); err != nil {
		return nil, fmt.Errorf("%w: unexpected response format, %w", ErrListFailed, err)
	}

	if videos == nil {
		return nil, fmt.Errorf("%w: unexpected response format", ErrListFailed)
	}

	return videos, nil
}

// FilterByTitle keeps the videos whose title contains term, ignoring case.
// An empty term keeps everything.
func FilterByTitle(videos []model.Video, term string) []model.Video {
	term = strings.ToLower(term)

	out := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if strings.Contains(strings.ToLower(v.Title), term) {
			out = append(out, v)
		}
	}

	return out
}

// Download saves the optimized rendition of v as <title>.mp4 inside dir and
// returns the written path
func (c *Client) Download(ctx context.Context, v model.Video, dir string) (string, error) {
	path := filepath.Join(dir, safeName(v.Title)+".mp4")

	src, err := c.VideoURL(v.PublicID)
	if err != nil {
		return "", err
	}

	if err := c.fetchTo(ctx, src, path); err != nil {
		return "", err
	}

	return path, nil
}

func (c *Client) fetchTo(ctx context.Context, src, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w, %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	return f.Close()
}

// safeName keeps the title but drops path separators
func safeName(title string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(title))
	if name == "" || name == "." || name == ".." {
		return "video"
	}
	return name
}
