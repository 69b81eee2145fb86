package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mediashelf/media-api/db"
	"mediashelf/media-api/internal"
	"mediashelf/media-api/internal/model"
	"mediashelf/media-api/internal/service"
	"mediashelf/media-api/pkg/client"
	"mediashelf/media-api/pkg/middleware"
	"mediashelf/media-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type recordingProcessor struct {
	modes []service.Mode
}

func (p *recordingProcessor) Process(_ context.Context, payload []byte, opts service.ProcessOptions) (*service.Descriptor, error) {
	p.modes = append(p.modes, opts.Mode)
	return &service.Descriptor{
		PublicID: "video-uploads/" + time.Now().Format(time.RFC3339Nano),
		Bytes:    int64(len(payload)),
	}, nil
}

func setupRouter(t *testing.T, proc service.MediaProcessor) *gin.Engine {
	t.Helper()

	return setupRouterWithCookie(t, proc, "__session")
}

func setupRouterWithCookie(t *testing.T, proc service.MediaProcessor, cookieName string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.New("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	d := &internal.Deps{
		Videos:        db.NewVideoStore(gdb),
		Processor:     proc,
		MaxUploadSize: 70 << 20,
		VideoFolder:   "video-uploads",
		ImageFolder:   "next-cloudinary-uploads",
	}

	r := gin.New()
	Register(t.Context(), r, d, RouterOpts{
		Policy:      middleware.DefaultAccessPolicy(),
		Resolver:    security.NewSessionVerifier(testSecret, cookieName),
		CORSOrigins: []string{"http://localhost:3000"},
		RateLimit:   1000,
	})
	return r
}

func sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user_1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return &http.Cookie{Name: "__session", Value: token}
}

func uploadRequest(t *testing.T, size int, title string) *http.Request {
	t.Helper()

	data := make([]byte, size)
	copy(data, []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2"))

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="demo.mp4"`)
	h.Set("Content-Type", "video/mp4")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	require.NoError(t, w.WriteField("title", title))
	require.NoError(t, w.WriteField("description", ""))
	require.NoError(t, w.WriteField("originalSize", "10485760"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/video-upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestListingIsPublic(t *testing.T) {
	r := setupRouter(t, &recordingProcessor{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/video", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUploadRequiresSession(t *testing.T) {
	proc := &recordingProcessor{}
	r := setupRouter(t, proc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, 1024, "Demo"))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/sign-in", w.Header().Get("Location"))
	assert.Empty(t, proc.modes)
}

func TestPrivatePagesRedirect(t *testing.T) {
	r := setupRouter(t, &recordingProcessor{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/video-upload", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/sign-in", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/sign-in", nil)
	req.AddCookie(sessionCookie(t))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))
}

func TestUploadThenList(t *testing.T) {
	proc := &recordingProcessor{}
	r := setupRouter(t, proc)

	req := uploadRequest(t, 10<<20, "Demo")
	req.AddCookie(sessionCookie(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []service.Mode{service.ModeInline}, proc.modes)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/video", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var videos []model.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &videos))
	require.Len(t, videos, 1)
	assert.Equal(t, "Demo", videos[0].Title)
	assert.Equal(t, int64(10485760), videos[0].OriginalSize)
	assert.Equal(t, int64(10<<20), videos[0].CompressedSize)
}

func TestUploadBodyTooLarge(t *testing.T) {
	r := setupRouter(t, &recordingProcessor{})

	req := httptest.NewRequest(http.MethodPost, "/api/video-upload", bytes.NewReader(make([]byte, 72<<20)))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	req.AddCookie(sessionCookie(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestClientUploadWithCustomCookieName(t *testing.T) {
	proc := &recordingProcessor{}
	srv := httptest.NewServer(setupRouterWithCookie(t, proc, "app_session"))
	defer srv.Close()

	data := make([]byte, 4096)
	copy(data, []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2"))
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c := client.New(srv.URL, sessionCookie(t).Value, "demo")

	v, err := c.UploadVideo(context.Background(), client.Upload{Path: path, Title: "Clip"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Clip", v.Title)
	assert.Equal(t, []service.Mode{service.ModeInline}, proc.modes)

	videos, err := c.ListVideos(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, int64(4096), videos[0].OriginalSize)
}
