// Package client talks to the media API the way the web frontend does. It
// validates uploads locally, streams them with progress reporting and reads
// the gallery.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DefaultDeliveryBase = "https://res.cloudinary.com"

var (
	ErrUploadFailed = errors.New("Failed to upload video. Please try again.")
	ErrListFailed   = errors.New("Failed to fetch videos")
	ErrImageFailed  = errors.New("Failed to upload image")
	ErrTransport    = errors.New("network error")
	ErrUnauthorized = errors.New("not signed in")
)

// APIError is a non 2xx answer from the server
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%d %s (request %s)", e.Status, e.Message, e.RequestID)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

type Client struct {
	BaseURL      string
	Token        string
	CloudName    string
	DeliveryBase string
	HTTP         *http.Client
}

// New returns a client for the server at baseURL. token is the session token
// issued by the identity provider and may be empty for public calls.
func New(baseURL, token, cloudName string) *Client {
	return &Client{
		BaseURL:      strings.TrimSuffix(baseURL, "/"),
		Token:        token,
		CloudName:    cloudName,
		DeliveryBase: DefaultDeliveryBase,
		HTTP: &http.Client{
			// The access gate answers with redirects, those are reported instead of followed
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// authorize sends the token as a bearer header, the server accepts it no
// matter which session cookie name it is configured with
func (c *Client) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

// checkResponse turns redirects and error statuses into errors
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return fmt.Errorf("%w, redirected to %s", ErrUnauthorized, resp.Header.Get("Location"))
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body struct {
		Error     string `json:"error"`
		RequestID string `json:"requestID"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.RequestID = body.RequestID
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	}

	return apiErr
}
