package client

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/asset"
)

// SocialFormat is a target size for a social media post
type SocialFormat struct {
	Name        string
	Width       int
	Height      int
	AspectRatio string
}

// SocialFormats in the order they are offered
var SocialFormats = []SocialFormat{
	{Name: "Instagram Square (1:1)", Width: 1080, Height: 1080, AspectRatio: "1:1"},
	{Name: "Instagram Portrait (4:5)", Width: 1080, Height: 1350, AspectRatio: "4:5"},
	{Name: "Twitter Post (16:9)", Width: 1200, Height: 675, AspectRatio: "16:9"},
	{Name: "Twitter Header (3:1)", Width: 1500, Height: 500, AspectRatio: "3:1"},
	{Name: "Facebook Cover (205:78)", Width: 820, Height: 312, AspectRatio: "205:78"},
}

var whitespace = regexp.MustCompile(`\s+`)

// FindSocialFormat looks a format up by its name, ignoring case
func FindSocialFormat(name string) (SocialFormat, bool) {
	for _, f := range SocialFormats {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return SocialFormat{}, false
}

// FileName is the name a rendition in this format is saved under
func (f SocialFormat) FileName() string {
	return strings.ToLower(whitespace.ReplaceAllString(f.Name, "_")) + ".png"
}

func (f SocialFormat) transformation() string {
	return fmt.Sprintf("c_fill,g_auto,w_%d,h_%d,ar_%s", f.Width, f.Height, f.AspectRatio)
}

// SocialImageURL is the fill-cropped rendition of an uploaded image
func (c *Client) SocialImageURL(publicID string, f SocialFormat) (string, error) {
	return c.deliveryURL(asset.Image, f.transformation(), publicID+".png")
}

// UploadImage sends an image to the processor and returns its public ID
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	if err := checkType(path, "image/"); err != nil {
		return "", &ValidationError{"Please upload an image file"}
	}

	resp, err := c.postFile(ctx, "/api/image-upload", path, 0, nil, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageFailed, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageFailed, err)
	}

	var body struct {
		PublicID string `json:"publicId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.PublicID == "" {
		return "", fmt.Errorf("%w: unexpected response format", ErrImageFailed)
	}

	return body.PublicID, nil
}

// DownloadSocial saves the rendition of publicID in format f inside dir
func (c *Client) DownloadSocial(ctx context.Context, publicID string, f SocialFormat, dir string) (string, error) {
	path := filepath.Join(dir, f.FileName())

	src, err := c.SocialImageURL(publicID, f)
	if err != nil {
		return "", err
	}

	if err := c.fetchTo(ctx, src, path); err != nil {
		return "", err
	}

	return path, nil
}
