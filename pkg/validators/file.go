// Package validators checks user input before it reaches a service
package validators

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
	ErrNoFile              = errors.New("no file provided")
	ErrEmptyFile           = errors.New("file is empty")
)

// FileValidator checks an uploaded part against the expected type prefix
// (for example "video/") and maxSize, then reads it into memory. The returned
// status code is meant to be sent to the client as is.
func FileValidator(fh *multipart.FileHeader, typePrefix string, maxSize int64) (int, []byte, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, ErrNoFile
	}

	// Check headers first which is easy to spoof, but faster for legit clients
	ct := fh.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" && !strings.HasPrefix(ct, typePrefix) {
		return http.StatusBadRequest, nil, ErrFileTypeUnsupported
	}

	if fh.Size > maxSize {
		return http.StatusBadRequest, nil, ErrFileTooLarge
	}

	if fh.Size == 0 {
		return http.StatusBadRequest, nil, ErrEmptyFile
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	defer f.Close()

	// The header size can't be trusted either, read at most one byte past the limit
	buf := bytes.NewBuffer(make([]byte, 0, fh.Size))
	n, err := io.Copy(buf, io.LimitReader(f, maxSize+1))
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}

	if n > maxSize {
		return http.StatusBadRequest, nil, ErrFileTooLarge
	}

	// And now do the checks on the actual content to avoid
	// malicious clients
	if !strings.HasPrefix(mimetype.Detect(buf.Bytes()).String(), typePrefix) {
		return http.StatusBadRequest, nil, ErrFileTypeUnsupported
	}

	return 0, buf.Bytes(), nil
}
