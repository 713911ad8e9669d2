// Package storage is the single data-access point for lost-and-found
// reports. It fronts two interchangeable backends, the hosted Supabase
// project and the session-local SQLite store, behind one handle selected
// once at startup.
package storage

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/reclaimhq/reclaim/internal/localstore"
	"github.com/reclaimhq/reclaim/internal/model"
	"github.com/reclaimhq/reclaim/internal/supabase"
)

// readyTimeout bounds how long an operation waits for initialization before
// forcing local fallback mode. Variable so tests can shorten it.
var readyTimeout = 5 * time.Second

// Operating modes, pinned for the process lifetime once selected.
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// backend is the uniform item interface both variants implement. Errors stay
// inside this package; the façade converts them to benign results.
type backend interface {
	mode() string
	items(ctx context.Context) ([]model.Item, error)
	add(ctx context.Context, item model.Item) (*model.Item, error)
	get(ctx context.Context, id string) (*model.Item, error)
	update(ctx context.Context, id string, updates map[string]any) (*model.Item, error)
	delete(ctx context.Context, id string) (bool, error)
	uploadImage(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

// Store is the data-access façade. Construct it with New and share the one
// instance; it is safe for concurrent use.
type Store struct {
	remote *supabase.Client
	local  *localstore.DB

	ready   chan struct{}
	resolve sync.Once
	active  backend
}

// New creates the façade and starts backend selection in the background.
// Operations issued before selection finishes block until it does, or until
// readyTimeout forces local fallback mode.
func New(remote *supabase.Client, local *localstore.DB) *Store {
	s := &Store{
		remote: remote,
		local:  local,
		ready:  make(chan struct{}),
	}
	go s.init(context.Background())
	return s
}

// init probes the remote backend and pins whichever backend answers first.
// The selection never changes for the lifetime of the store.
func (s *Store) init(ctx context.Context) {
	if s.remote != nil && s.remote.IsConfigured() {
		count, err := s.remote.Count(ctx, itemsTable)
		if err == nil {
			rb := &remoteBackend{client: s.remote, fallback: &localBackend{db: s.local}}
			if count == 0 {
				if err := rb.seed(ctx); err != nil {
					slog.Error("seeding remote demonstration data", "error", err)
				}
			}
			slog.Info("storage connected to remote backend")
			s.become(rb)
			return
		}
		slog.Error("remote backend probe failed, falling back to local store", "error", err)
	} else {
		slog.Warn("remote backend not configured, using local store")
	}
	s.becomeLocal(ctx)
}

// become pins the active backend exactly once.
func (s *Store) become(b backend) {
	s.resolve.Do(func() {
		s.active = b
		close(s.ready)
	})
}

// becomeLocal pins the local backend, seeding it if it is empty. Seeding
// happens inside the once so a lost race against a remote pin leaves the
// local store untouched.
func (s *Store) becomeLocal(ctx context.Context) {
	s.resolve.Do(func() {
		lb := &localBackend{db: s.local}
		if err := lb.seedIfEmpty(ctx); err != nil {
			slog.Error("seeding local demonstration data", "error", err)
		}
		s.active = lb
		close(s.ready)
	})
}

// await blocks until a backend is pinned. After readyTimeout it forces local
// fallback so callers are never stuck behind an unreachable remote.
func (s *Store) await(ctx context.Context) backend {
	select {
	case <-s.ready:
	case <-time.After(readyTimeout):
		slog.Warn("storage initialization timed out, forcing local fallback")
		s.becomeLocal(ctx)
		<-s.ready
	}
	return s.active
}

// Mode reports which backend is active, blocking until one is pinned.
func (s *Store) Mode() string {
	return s.await(context.Background()).mode()
}

// Items returns every report, newest first. Backend failures are logged and
// yield an empty slice.
func (s *Store) Items(ctx context.Context) []model.Item {
	items, err := s.await(ctx).items(ctx)
	if err != nil {
		slog.Error("listing items", "error", err)
		return []model.Item{}
	}
	if items == nil {
		items = []model.Item{}
	}
	return items
}

// AddItem inserts a new report and returns it with the backend-assigned id
// and timestamp. When the remote insert fails, the report is written to the
// local store in the same call instead of surfacing the error. Returns nil
// only when every path failed.
func (s *Store) AddItem(ctx context.Context, item model.Item) *model.Item {
	b := s.await(ctx)
	created, err := b.add(ctx, item)
	if err == nil {
		return created
	}
	slog.Error("adding item", "backend", b.mode(), "error", err)

	if rb, ok := b.(*remoteBackend); ok {
		created, err = rb.fallback.add(ctx, item)
		if err != nil {
			slog.Error("local fallback write failed", "error", err)
			return nil
		}
		slog.Warn("item written to local fallback store", "id", created.ID)
		return created
	}
	return nil
}

// ItemByID returns a single report, or nil when absent or on error.
func (s *Store) ItemByID(ctx context.Context, id string) *model.Item {
	item, err := s.await(ctx).get(ctx, id)
	if err != nil {
		slog.Error("getting item", "id", id, "error", err)
		return nil
	}
	return item
}

// UpdateItem applies a partial app-format field map to a report. Fields
// absent from updates are left untouched; the id and creation timestamp are
// never updatable. Returns the updated report, or nil on not-found/error.
func (s *Store) UpdateItem(ctx context.Context, id string, updates map[string]any) *model.Item {
	// Filter into a copy so the caller's map is left alone.
	fields := make(map[string]any, len(updates))
	for name, value := range updates {
		if name == "id" || name == "dateReported" {
			continue
		}
		fields[name] = value
	}

	item, err := s.await(ctx).update(ctx, id, fields)
	if err != nil {
		slog.Error("updating item", "id", id, "error", err)
		return nil
	}
	return item
}

// DeleteItem removes a report. Returns true only when a record was actually
// removed; unknown ids and backend errors yield false.
func (s *Store) DeleteItem(ctx context.Context, id string) bool {
	ok, err := s.await(ctx).delete(ctx, id)
	if err != nil {
		slog.Error("deleting item", "id", id, "error", err)
		return false
	}
	return ok
}

// SearchItems filters the full dataset: a case-insensitive substring query
// across title, description, location and category, then exact type/category
// filters (skipped for "all" or empty) and a substring location filter. The
// result is re-sorted newest first.
func (s *Store) SearchItems(ctx context.Context, query string, filters model.Filters) []model.Item {
	items := s.Items(ctx)
	matched := make([]model.Item, 0, len(items))

	term := strings.ToLower(strings.TrimSpace(query))
	locTerm := strings.ToLower(strings.TrimSpace(filters.Location))

	for _, item := range items {
		if term != "" && !matchesQuery(item, term) {
			continue
		}
		if filters.Type != "" && filters.Type != "all" && item.Type != filters.Type {
			continue
		}
		if filters.Category != "" && filters.Category != "all" && item.Category != filters.Category {
			continue
		}
		if locTerm != "" && !strings.Contains(strings.ToLower(item.Location), locTerm) {
			continue
		}
		matched = append(matched, item)
	}

	sortNewestFirst(matched)
	return matched
}

// UploadImage stores a report photo and returns its URL: a public object URL
// in remote mode, or a base64 data URL in local fallback mode. Returns the
// empty string on failure.
func (s *Store) UploadImage(ctx context.Context, fileName, contentType string, data []byte) string {
	url, err := s.await(ctx).uploadImage(ctx, fileName, contentType, data)
	if err != nil {
		slog.Error("uploading image", "file", fileName, "error", err)
		return ""
	}
	return url
}

func matchesQuery(item model.Item, term string) bool {
	return strings.Contains(strings.ToLower(item.Title), term) ||
		strings.Contains(strings.ToLower(item.Description), term) ||
		strings.Contains(strings.ToLower(item.Location), term) ||
		strings.Contains(strings.ToLower(item.Category), term)
}

// sortNewestFirst orders items by dateReported descending. Unparseable
// timestamps sort last.
func sortNewestFirst(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return reportedAt(items[i]).After(reportedAt(items[j]))
	})
}

func reportedAt(item model.Item) time.Time {
	t, err := time.Parse(time.RFC3339, item.DateReported)
	if err != nil {
		return time.Time{}
	}
	return t
}
