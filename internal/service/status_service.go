package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
)

var errStoreUnreachable = errors.New("database unreachable")

// CollectionLister reports the collections held by a store.
type CollectionLister interface {
	Collections(ctx context.Context) ([]string, error)
}

// StatusService reports store connectivity.
type StatusService struct {
	store  CollectionLister
	logger *slog.Logger
}

func NewStatusService(store CollectionLister, logger *slog.Logger) *StatusService {
	return &StatusService{store: store, logger: logger}
}

// Check returns the store's collection names. Failures are logged and
// reported as a generic Unavailable error.
func (s *StatusService) Check(ctx context.Context) (collections []string, err error) {
	ctx, span := tracer.Start(ctx, "StatusService.Check")
	defer func() { endSpan(span, err) }()

	collections, err = s.store.Collections(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Database status check failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, errStoreUnreachable)
	}
	if collections == nil {
		collections = []string{}
	}
	return collections, nil
}
