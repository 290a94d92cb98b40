package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/stockroom/internal/blob"
)

type recordingBlobs struct {
	key  string
	body string
	err  error
}

func (r *recordingBlobs) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	r.key = key
	b, _ := io.ReadAll(body)
	r.body = string(b)
	return r.err
}

func TestUploadService_Save(t *testing.T) {
	blobs := &recordingBlobs{}
	svc := NewUploadService(blobs, discardLogger)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	filename, key, err := svc.Save(context.Background(), Upload{
		Filename: "report.pdf",
		Size:     3,
		Body:     strings.NewReader("pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", filename)
	assert.Equal(t, key, blobs.key)
	assert.True(t, strings.HasPrefix(key, "uploads/2024/01/02/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.Equal(t, "pdf", blobs.body)
}

func TestUploadService_SaveUnknownFilename(t *testing.T) {
	svc := NewUploadService(&recordingBlobs{}, discardLogger)

	filename, _, err := svc.Save(context.Background(), Upload{Body: strings.NewReader(""), Size: 0})
	require.NoError(t, err)
	assert.Equal(t, UnknownFilename, filename)
}

func TestUploadService_SaveFailure(t *testing.T) {
	svc := NewUploadService(&recordingBlobs{err: blob.ErrInvalidKey}, discardLogger)

	_, _, err := svc.Save(context.Background(), Upload{Filename: "a.txt", Body: strings.NewReader("x")})
	requireCode(t, connect.CodeInternal, err)
	assert.NotErrorIs(t, err, blob.ErrInvalidKey)
}
