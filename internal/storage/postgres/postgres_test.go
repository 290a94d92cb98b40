package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	"github.com/mmynk/stockroom/internal/models"
	"github.com/mmynk/stockroom/internal/storage"
	"github.com/mmynk/stockroom/internal/storage/postgres/migrations"
)

const (
	itemID  = "0b8f8a1e-3f4c-4d55-9a77-0c1f5e1b2a11"
	ownerID = "6f9619ff-8b86-d011-b42d-00cf4fc964ff"
)

func newStoreWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return NewWithDB(db), mock
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

func TestCreateUser_Success(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(q("INSERT INTO users (username, password_hash, created_at)")).
		WithArgs("alice", "hash", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(ownerID))

	u := models.NewUser("alice", "hash")
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if u.ID != ownerID {
		t.Fatalf("unexpected id: %q", u.ID)
	}
	if u.CreatedAt == 0 {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("alice", "hash", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := store.CreateUser(context.Background(), models.NewUser("alice", "hash"))
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("want storage.ErrAlreadyExists, got %v", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectQuery(q("SELECT id, username, password_hash, created_at FROM users")).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
				AddRow(ownerID, "alice", "hash", int64(1700000000)))

		got, err := store.GetUserByUsername(context.Background(), "alice")
		if err != nil {
			t.Fatalf("GetUserByUsername error: %v", err)
		}
		if got.ID != ownerID || got.PasswordHash != "hash" || got.CreatedAt != 1700000000 {
			t.Fatalf("unexpected user: %+v", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectQuery(q("FROM users")).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		_, err := store.GetUserByUsername(context.Background(), "ghost")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("want storage.ErrNotFound, got %v", err)
		}
	})
}

func TestListUsers_ClampsLimit(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(q("FROM users")).
		WithArgs(storage.MaxPageSize).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(ownerID, "alice", "h", int64(1)).
			AddRow(itemID, "bob", "h", int64(2)))

	users, err := store.ListUsers(context.Background(), 5000)
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(users) != 2 || users[1].Username != "bob" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestCreateItem(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(q("INSERT INTO inventory (owner_id, name, quantity, description, created_at, updated_at)")).
		WithArgs(ownerID, "bolt", 5, "m6", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(itemID))

	item := &models.InventoryItem{OwnerID: ownerID, Name: "bolt", Quantity: 5, Description: "m6"}
	if err := store.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("CreateItem error: %v", err)
	}
	if item.ID != itemID {
		t.Fatalf("unexpected id: %q", item.ID)
	}
}

func TestListItemsByOwner(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(q("FROM inventory")).
		WithArgs(ownerID, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "quantity", "description", "created_at", "updated_at"}).
			AddRow(itemID, ownerID, "bolt", int64(5), "m6", int64(10), int64(11)))

	items, err := store.ListItemsByOwner(context.Background(), ownerID, 100)
	if err != nil {
		t.Fatalf("ListItemsByOwner error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 item, got %d", len(items))
	}
	if got := items[0]; got.Name != "bolt" || got.Quantity != 5 || got.UpdatedAt != 11 {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestUpdateItem(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectQuery(q("UPDATE inventory")).
			WithArgs("bolt", 7, "m6", sqlmock.AnyArg(), itemID, ownerID).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(int64(10)))

		item := &models.InventoryItem{ID: itemID, OwnerID: ownerID, Name: "bolt", Quantity: 7, Description: "m6"}
		if err := store.UpdateItem(context.Background(), item); err != nil {
			t.Fatalf("UpdateItem error: %v", err)
		}
		if item.CreatedAt != 10 {
			t.Fatalf("unexpected CreatedAt: %d", item.CreatedAt)
		}
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectQuery(q("UPDATE inventory")).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

		err := store.UpdateItem(context.Background(), &models.InventoryItem{ID: itemID, OwnerID: ownerID})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("want storage.ErrNotFound, got %v", err)
		}
	})

	t.Run("malformed id never reaches the database", func(t *testing.T) {
		store, _ := newStoreWithMock(t)

		err := store.UpdateItem(context.Background(), &models.InventoryItem{ID: "nope", OwnerID: ownerID})
		if !errors.Is(err, storage.ErrInvalidID) {
			t.Fatalf("want storage.ErrInvalidID, got %v", err)
		}
	})
}

func TestDeleteItem(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectExec(q("DELETE FROM inventory")).
			WithArgs(itemID, ownerID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := store.DeleteItem(context.Background(), ownerID, itemID); err != nil {
			t.Fatalf("DeleteItem error: %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectExec(q("DELETE FROM inventory")).
			WithArgs(itemID, ownerID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.DeleteItem(context.Background(), ownerID, itemID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("want storage.ErrNotFound, got %v", err)
		}
	})

	t.Run("connection lost", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectExec(q("DELETE FROM inventory")).
			WillReturnError(&pgconn.PgError{Code: "08006"})

		err := store.DeleteItem(context.Background(), ownerID, itemID)
		if !errors.Is(err, storage.ErrUnavailable) {
			t.Fatalf("want storage.ErrUnavailable, got %v", err)
		}
	})
}

func TestCollections(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(q("FROM information_schema.tables")).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("inventory").AddRow("users"))

	names, err := store.Collections(context.Background())
	if err != nil {
		t.Fatalf("Collections error: %v", err)
	}
	if strings.Join(names, ",") != "inventory,users" {
		t.Fatalf("unexpected collections: %v", names)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, storage.ErrAlreadyExists},
		{"connection failure class", &pgconn.PgError{Code: "08001"}, storage.ErrUnavailable},
		{"too many connections", &pgconn.PgError{Code: "53300"}, storage.ErrUnavailable},
		{"bad conn", driver.ErrBadConn, storage.ErrUnavailable},
		{"network error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, storage.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapError(tt.err); !errors.Is(got, tt.want) {
				t.Fatalf("mapError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	t.Run("dial failure is safe to retry", func(t *testing.T) {
		got := mapError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
		if errors.Is(got, storage.ErrConnectionLost) {
			t.Fatalf("dial error marked as lost connection: %v", got)
		}
	})

	t.Run("broken connection mid-request", func(t *testing.T) {
		got := mapError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})
		if !errors.Is(got, storage.ErrUnavailable) || !errors.Is(got, storage.ErrConnectionLost) {
			t.Fatalf("mapError = %v, want unavailable and connection lost", got)
		}
	})

	t.Run("context errors pass through", func(t *testing.T) {
		for _, orig := range []error{context.DeadlineExceeded, context.Canceled, fmt.Errorf("query: %w", context.DeadlineExceeded)} {
			got := mapError(orig)
			if errors.Is(got, storage.ErrUnavailable) {
				t.Fatalf("mapError(%v) classified as unavailable", orig)
			}
			if !errors.Is(got, orig) {
				t.Fatalf("mapError(%v) = %v, want original error", orig, got)
			}
		}
	})

	t.Run("other pg errors pass through", func(t *testing.T) {
		orig := &pgconn.PgError{Code: "42P01"}
		got := mapError(orig)
		if errors.Is(got, storage.ErrUnavailable) || errors.Is(got, storage.ErrAlreadyExists) {
			t.Fatalf("unexpected classification: %v", got)
		}
	})

	if mapError(nil) != nil {
		t.Fatal("mapError(nil) should be nil")
	}
}

func TestRunMigrations_UsesEmbeddedFS(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	if err := RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if gotDir != "." {
		t.Fatalf("unexpected migration dir: %q", gotDir)
	}

	content, err := fs.ReadFile(migrations.FS, "00001_init.sql")
	if err != nil {
		t.Fatalf("read embedded migration: %v", err)
	}
	if !strings.Contains(string(content), "users_username_key UNIQUE (username)") {
		t.Fatal("expected unique username constraint in initial migration")
	}
}
