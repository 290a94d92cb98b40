package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/mmynk/stockroom/internal/models"
)

// Ensure retryingStore implements Store
var _ Store = (*retryingStore)(nil)

// RetryPolicy bounds how hard WithRetry tries before giving up.
type RetryPolicy struct {
	// MaxTries is the total number of attempts, including the first one.
	MaxTries uint

	// InitialInterval is the delay before the first retry. Later delays grow
	// exponentially with jitter.
	InitialInterval time.Duration

	// MaxElapsedTime stops retrying once this much time has passed.
	MaxElapsedTime time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxTries:        3,
		InitialInterval: 50 * time.Millisecond,
		MaxElapsedTime:  2 * time.Second,
	}
}

// retryingStore decorates a Store, retrying calls that fail with
// ErrUnavailable. Any other error is returned on the first attempt.
type retryingStore struct {
	next   Store
	policy RetryPolicy
	logger *slog.Logger
}

// WithRetry wraps next so transient backend failures are retried with
// exponential backoff.
func WithRetry(next Store, policy RetryPolicy, logger *slog.Logger) Store {
	if policy.MaxTries == 0 {
		policy.MaxTries = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &retryingStore{next: next, policy: policy, logger: logger}
}

// retry runs fn until it succeeds or fails with something other than
// ErrUnavailable. Writes that are not idempotent pass idempotent=false and
// stop once the connection was lost mid-request, since the first attempt
// may already have been applied.
func retry[T any](ctx context.Context, s *retryingStore, op string, idempotent bool, fn func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	if s.policy.InitialInterval > 0 {
		b.InitialInterval = s.policy.InitialInterval
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(s.policy.MaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.logger.WarnContext(ctx, "Storage unavailable, retrying",
				"op", op,
				"error", err,
				"retry_in", next,
			)
		}),
	}
	if s.policy.MaxElapsedTime > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(s.policy.MaxElapsedTime))
	}

	return backoff.Retry(ctx, func() (T, error) {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrUnavailable) || (!idempotent && errors.Is(err, ErrConnectionLost)) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, opts...)
}

func retryErr(ctx context.Context, s *retryingStore, op string, idempotent bool, fn func() error) error {
	_, err := retry(ctx, s, op, idempotent, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func (s *retryingStore) CreateUser(ctx context.Context, user *models.User) error {
	return retryErr(ctx, s, "CreateUser", false, func() error {
		return s.next.CreateUser(ctx, user)
	})
}

func (s *retryingStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return retry(ctx, s, "GetUserByUsername", true, func() (*models.User, error) {
		return s.next.GetUserByUsername(ctx, username)
	})
}

func (s *retryingStore) ListUsers(ctx context.Context, limit int) ([]*models.User, error) {
	return retry(ctx, s, "ListUsers", true, func() ([]*models.User, error) {
		return s.next.ListUsers(ctx, limit)
	})
}

func (s *retryingStore) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	return retryErr(ctx, s, "CreateItem", false, func() error {
		return s.next.CreateItem(ctx, item)
	})
}

func (s *retryingStore) ListItemsByOwner(ctx context.Context, ownerID string, limit int) ([]*models.InventoryItem, error) {
	return retry(ctx, s, "ListItemsByOwner", true, func() ([]*models.InventoryItem, error) {
		return s.next.ListItemsByOwner(ctx, ownerID, limit)
	})
}

func (s *retryingStore) UpdateItem(ctx context.Context, item *models.InventoryItem) error {
	return retryErr(ctx, s, "UpdateItem", true, func() error {
		return s.next.UpdateItem(ctx, item)
	})
}

func (s *retryingStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	return retryErr(ctx, s, "DeleteItem", false, func() error {
		return s.next.DeleteItem(ctx, ownerID, itemID)
	})
}

func (s *retryingStore) Collections(ctx context.Context) ([]string, error) {
	return retry(ctx, s, "Collections", true, func() ([]string, error) {
		return s.next.Collections(ctx)
	})
}

// Close is not retried.
func (s *retryingStore) Close() error {
	return s.next.Close()
}
