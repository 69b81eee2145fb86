package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mediashelf/media-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	mu    sync.Mutex
	calls []ProcessOptions
	desc  Descriptor
	err   error
}

func (f *fakeProcessor) Process(_ context.Context, payload []byte, opts ProcessOptions) (*Descriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, opts)
	if f.err != nil {
		return nil, f.err
	}

	d := f.desc
	d.EagerPending = opts.Mode == ModeEager
	return &d, nil
}

type memoryStore struct {
	mu     sync.Mutex
	videos []model.Video
	err    error
}

func (m *memoryStore) Create(_ context.Context, v *model.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.videos = append(m.videos, *v)
	return nil
}

func (m *memoryStore) List(context.Context) ([]model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Video{}, m.videos...), m.err
}

func (m *memoryStore) Search(context.Context, string, int, int) ([]model.Video, error) {
	return nil, errors.New("not implemented")
}

func TestSelectMode(t *testing.T) {
	cases := []struct {
		size int64
		want Mode
	}{
		{0, ModeInline},
		{1, ModeInline},
		{10 << 20, ModeInline},
		{EagerThreshold, ModeInline},
		{EagerThreshold + 1, ModeEager},
		{50 << 20, ModeEager},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SelectMode(tc.size), "size %d", tc.size)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "inline", ModeInline.String())
	assert.Equal(t, "eager", ModeEager.String())
	assert.Equal(t, "unknown", Mode(7).String())
}

func TestIngestSmallPayloadIsInline(t *testing.T) {
	proc := &fakeProcessor{desc: Descriptor{PublicID: "video-uploads/demo", Bytes: 4_200_000, Duration: 12.5}}
	store := &memoryStore{}
	ing := NewIngestor(proc, store, "video-uploads")

	start := time.Now()
	v, err := ing.Do(context.Background(), IngestInput{
		Title:        "Demo",
		Filename:     "demo.mp4",
		OriginalSize: 10485760,
		Payload:      make([]byte, 10<<20),
	})
	require.NoError(t, err)

	require.Len(t, proc.calls, 1)
	assert.Equal(t, ModeInline, proc.calls[0].Mode)
	assert.Equal(t, KindVideo, proc.calls[0].Kind)
	assert.Equal(t, "video-uploads", proc.calls[0].Folder)

	require.Len(t, store.videos, 1)
	assert.Equal(t, *v, store.videos[0])
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "Demo", v.Title)
	assert.Equal(t, "video-uploads/demo", v.PublicID)
	assert.Equal(t, int64(10485760), v.OriginalSize)
	assert.Equal(t, int64(4_200_000), v.CompressedSize)
	assert.Equal(t, 12.5, v.Duration)
	assert.False(t, v.CreatedAt.Before(start))
	assert.Equal(t, v.CreatedAt, v.UpdatedAt)
}

func TestIngestLargePayloadIsEager(t *testing.T) {
	proc := &fakeProcessor{desc: Descriptor{PublicID: "video-uploads/big", Bytes: 52_000_000, Duration: 300}}
	store := &memoryStore{}
	ing := NewIngestor(proc, store, "video-uploads")

	v, err := ing.Do(context.Background(), IngestInput{
		Title:        "Big",
		OriginalSize: 50 << 20,
		Payload:      make([]byte, 50<<20),
	})
	require.NoError(t, err)

	require.Len(t, proc.calls, 1)
	assert.Equal(t, ModeEager, proc.calls[0].Mode)

	// The record uses what the processor returned right away
	require.Len(t, store.videos, 1)
	assert.Equal(t, int64(52_000_000), v.CompressedSize)
	assert.Equal(t, float64(300), v.Duration)
}

func TestIngestProcessorFailureWritesNothing(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("upstream down")}
	store := &memoryStore{}
	ing := NewIngestor(proc, store, "video-uploads")

	v, err := ing.Do(context.Background(), IngestInput{Title: "Demo", Payload: []byte("data")})
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrProcessing)
	assert.Empty(t, store.videos)
}

func TestIngestStoreFailure(t *testing.T) {
	proc := &fakeProcessor{desc: Descriptor{PublicID: "x"}}
	store := &memoryStore{err: errors.New("connection refused")}
	ing := NewIngestor(proc, store, "video-uploads")

	_, err := ing.Do(context.Background(), IngestInput{Title: "Demo", Payload: []byte("data")})
	assert.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrProcessing)
}

func TestIngestEmptyPayload(t *testing.T) {
	proc := &fakeProcessor{}
	ing := NewIngestor(proc, &memoryStore{}, "video-uploads")

	_, err := ing.Do(context.Background(), IngestInput{Title: "Demo"})
	assert.ErrorIs(t, err, ErrEmptyFile)
	assert.Empty(t, proc.calls)
}

func TestIngestOriginalSizeFallsBackToPayload(t *testing.T) {
	proc := &fakeProcessor{desc: Descriptor{PublicID: "x", Bytes: 3}}
	ing := NewIngestor(proc, &memoryStore{}, "video-uploads")

	v, err := ing.Do(context.Background(), IngestInput{Title: "Demo", Payload: []byte("data")})
	require.NoError(t, err)
	assert.Equal(t, int64(4), v.OriginalSize)
}
