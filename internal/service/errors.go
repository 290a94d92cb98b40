package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mmynk/stockroom/internal/storage"
)

var tracer = otel.Tracer("github.com/mmynk/stockroom/internal/service")

// errInternal is what clients see for failures they cannot act on.
var errInternal = errors.New("internal server error")

// storageError converts a storage failure into a connect error. Client-caused
// failures keep their reason; server-side failures are logged in full and
// answered with a generic message.
func storageError(ctx context.Context, logger *slog.Logger, msg string, err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	case errors.Is(err, storage.ErrInvalidID):
		return connect.NewError(connect.CodeInvalidArgument, storage.ErrInvalidID)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, storage.ErrAlreadyExists)
	case errors.Is(err, storage.ErrUnavailable):
		logger.ErrorContext(ctx, msg, "error", err)
		return connect.NewError(connect.CodeUnavailable, storage.ErrUnavailable)
	default:
		logger.ErrorContext(ctx, msg, "error", err)
		return connect.NewError(connect.CodeInternal, errInternal)
	}
}

// endSpan records err on span (if any) and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
