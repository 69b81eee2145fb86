package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"mediashelf/media-api/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

const (
	// MaxUploadSize is the biggest file the client will send
	MaxUploadSize = 70 << 20
	// SuccessRedirectDelay is how long the success state is shown before
	// moving on to the gallery
	SuccessRedirectDelay = 2 * time.Second
)

// ValidationError is returned before any request is made
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProgressFunc receives the upload progress in percent. Values never go down.
type ProgressFunc func(percent int)

type Upload struct {
	Path        string
	Title       string
	Description string
}

// ValidateUpload runs the checks the server would otherwise reject the upload
// for and returns the file size
func ValidateUpload(u Upload) (int64, error) {
	if u.Path == "" {
		return 0, &ValidationError{"Please select a video file"}
	}

	fi, err := os.Stat(u.Path)
	if err != nil {
		return 0, &ValidationError{fmt.Sprintf("Can't read %s", u.Path)}
	}

	if fi.IsDir() {
		return 0, &ValidationError{"Please select a video file"}
	}

	if fi.Size() > MaxUploadSize {
		return 0, &ValidationError{fmt.Sprintf("File too large. Maximum size is %s", humanize.IBytes(MaxUploadSize))}
	}

	if strings.TrimSpace(u.Title) == "" {
		return 0, &ValidationError{"Please enter a title for your video"}
	}

	if err := checkType(u.Path, "video/"); err != nil {
		return 0, &ValidationError{"Please upload a video file"}
	}

	return fi.Size(), nil
}

func checkType(path, prefix string) error {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(mt.String(), prefix) {
		return fmt.Errorf("unexpected type %s", mt.String())
	}

	return nil
}

// UploadVideo validates u, streams it to the ingestion endpoint and returns
// the created record. Any failure after validation is wrapped in
// ErrUploadFailed.
func (c *Client) UploadVideo(ctx context.Context, u Upload, progress ProgressFunc) (*model.Video, error) {
	size, err := ValidateUpload(u)
	if err != nil {
		return nil, err
	}

	resp, err := c.postFile(ctx, "/api/video-upload", u.Path, size, map[string]string{
		"title":        u.Title,
		"description":  u.Description,
		"originalSize": strconv.FormatInt(size, 10),
	}, progress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	var v model.Video
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: malformed response, %w", ErrUploadFailed, err)
	}

	return &v, nil
}

// postFile streams a multipart body with the file first and fields after it
func (c *Client) postFile(ctx context.Context, endpoint, path string, size int64, fields map[string]string, progress ProgressFunc) (*http.Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		err := writeMultipart(mw, filepath.Base(path), mt.String(), fields, newProgressReader(f, size, progress))
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+endpoint, pr)
	if err != nil {
		pr.Close()
		wg.Wait()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.HTTP.Do(req)

	// Unblock the writer if the server answered before reading everything
	pr.Close()
	wg.Wait()

	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrTransport, err)
	}

	return resp, nil
}

func writeMultipart(mw *multipart.Writer, name, contentType string, fields map[string]string, body io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	if _, err := io.Copy(part, body); err != nil {
		return err
	}

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}

	return nil
}

type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) io.Reader {
	if fn == nil {
		return r
	}

	fn(0)
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)

	pct := 100
	if p.total > 0 {
		pct = int((p.read*100 + p.total/2) / p.total)
	}
	pct = min(pct, 100)

	if pct > p.last || (errors.Is(err, io.EOF) && p.last < 100) {
		if errors.Is(err, io.EOF) {
			pct = 100
		}
		p.last = pct
		p.fn(pct)
	}

	return n, err
}
