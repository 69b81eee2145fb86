package client

import (
	"fmt"
	"net/url"

	"github.com/cloudinary/cloudinary-go/v2/asset"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

const (
	videoTransformation     = "q_auto,f_mp4"
	thumbnailTransformation = "so_0,w_400,h_225,c_fill,g_auto,q_auto,f_jpg"
)

// VideoURL is the delivery address of the optimized mp4 rendition
func (c *Client) VideoURL(publicID string) (string, error) {
	return c.deliveryURL(asset.Video, videoTransformation, publicID+".mp4")
}

// ThumbnailURL is a poster frame taken from the start of the video
func (c *Client) ThumbnailURL(publicID string) (string, error) {
	return c.deliveryURL(asset.Video, thumbnailTransformation, publicID+".jpg")
}

type assetFunc func(publicID string, conf *config.Configuration) (*asset.Asset, error)

func (c *Client) deliveryURL(newAsset assetFunc, transformation, source string) (string, error) {
	conf, err := c.deliveryConfig()
	if err != nil {
		return "", err
	}

	a, err := newAsset(source, conf)
	if err != nil {
		return "", fmt.Errorf("failed to build delivery url, %w", err)
	}
	a.Transformation = transformation

	return a.String()
}

// deliveryConfig only needs the cloud name, delivery URLs are unsigned.
// A DeliveryBase other than the shared host is used as the CNAME.
func (c *Client) deliveryConfig() (*config.Configuration, error) {
	conf, err := config.NewFromParams(c.CloudName, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to build delivery config, %w", err)
	}
	conf.URL.ForceVersion = false
	conf.URL.Analytics = false

	if c.DeliveryBase == "" || c.DeliveryBase == DefaultDeliveryBase {
		return conf, nil
	}

	u, err := url.Parse(c.DeliveryBase)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid delivery base %q", c.DeliveryBase)
	}

	if u.Scheme == "http" {
		conf.URL.Secure = false
		conf.URL.CName = u.Host
	} else {
		conf.URL.SecureCName = u.Host
	}

	return conf, nil
}
