package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/stockroom/internal/blob"
)

// UnknownFilename is reported when the client sent no filename.
const UnknownFilename = "unknown"

var errUploadFailed = errors.New("upload failed")

// Upload describes a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadService persists uploaded files to a blob store.
type UploadService struct {
	blobs  blob.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewUploadService(blobs blob.Store, logger *slog.Logger) *UploadService {
	return &UploadService{blobs: blobs, logger: logger, now: time.Now}
}

// Save stores the upload under a generated key and returns the original
// filename (or UnknownFilename) together with that key.
func (s *UploadService) Save(ctx context.Context, up Upload) (filename, key string, err error) {
	ctx, span := tracer.Start(ctx, "UploadService.Save")
	defer func() { endSpan(span, err) }()

	filename = up.Filename
	if filename == "" {
		filename = UnknownFilename
	}
	key = blob.NewKey(s.now(), filename)
	span.SetAttributes(attribute.String("blob.key", key), attribute.Int64("blob.size", up.Size))

	if err := s.blobs.Put(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		s.logger.ErrorContext(ctx, "Failed to store upload", "filename", filename, "key", key, "error", err)
		return "", "", connect.NewError(connect.CodeInternal, errUploadFailed)
	}

	s.logger.InfoContext(ctx, "File uploaded", "filename", filename, "key", key, "size", up.Size)
	return filename, key, nil
}
