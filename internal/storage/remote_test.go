package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reclaimhq/reclaim/internal/localstore"
	"github.com/reclaimhq/reclaim/internal/model"
	"github.com/reclaimhq/reclaim/internal/supabase"
)

// fakeProject emulates the slice of the hosted backend this service talks
// to: PostgREST row operations on the items table and bucket uploads.
type fakeProject struct {
	mu      sync.Mutex
	rows    []map[string]any
	objects map[string][]byte

	failInserts bool
	failUploads bool
}

func newFakeProject(t *testing.T, seed []map[string]any) (*fakeProject, *supabase.Client) {
	t.Helper()

	fp := &fakeProject{objects: map[string][]byte{}}
	for _, row := range seed {
		fp.insertRow(row)
	}

	server := httptest.NewServer(fp)
	t.Cleanup(server.Close)

	return fp, supabase.New(server.URL, "test-anon-key")
}

func (fp *fakeProject) insertRow(row map[string]any) map[string]any {
	stored := make(map[string]any, len(row)+2)
	for k, v := range row {
		stored[k] = v
	}
	stored["id"] = uuid.NewString()
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	fp.rows = append(fp.rows, stored)
	return stored
}

func (fp *fakeProject) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/storage/v1/object/") {
		fp.serveStorage(w, r)
		return
	}
	if r.URL.Path != "/rest/v1/items" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodHead:
		w.Header().Set("Content-Range", fmt.Sprintf("*/%d", len(fp.rows)))
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		rows := fp.matching(r)
		if r.URL.Query().Get("order") == "created_at.desc" {
			sort.SliceStable(rows, func(i, j int) bool {
				return asString(rows[i]["created_at"]) > asString(rows[j]["created_at"])
			})
		}
		writeRows(w, http.StatusOK, rows)
	case http.MethodPost:
		if fp.failInserts {
			http.Error(w, `{"message":"insert refused"}`, http.StatusInternalServerError)
			return
		}
		var incoming []map[string]any
		json.NewDecoder(r.Body).Decode(&incoming)
		created := make([]map[string]any, 0, len(incoming))
		for _, row := range incoming {
			created = append(created, fp.insertRow(row))
		}
		writeRows(w, http.StatusCreated, created)
	case http.MethodPatch:
		var updates map[string]any
		json.NewDecoder(r.Body).Decode(&updates)
		patched := []map[string]any{}
		for _, row := range fp.matching(r) {
			for k, v := range updates {
				row[k] = v
			}
			patched = append(patched, row)
		}
		writeRows(w, http.StatusOK, patched)
	case http.MethodDelete:
		deleted := fp.matching(r)
		kept := fp.rows[:0]
		for _, row := range fp.rows {
			if !containsRow(deleted, row) {
				kept = append(kept, row)
			}
		}
		fp.rows = kept
		writeRows(w, http.StatusOK, deleted)
	default:
		http.Error(w, `{"message":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (fp *fakeProject) serveStorage(w http.ResponseWriter, r *http.Request) {
	if fp.failUploads {
		http.Error(w, `{"message":"bucket unavailable"}`, http.StatusInternalServerError)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/")
	fp.objects[name] = []byte{}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"Key":%q}`, name)
}

// matching applies the only filter this service uses, id=eq.<id>.
func (fp *fakeProject) matching(r *http.Request) []map[string]any {
	filter := r.URL.Query().Get("id")
	matched := []map[string]any{}
	for _, row := range fp.rows {
		if filter == "" || filter == "eq."+row["id"].(string) {
			matched = append(matched, row)
		}
	}
	return matched
}

func containsRow(rows []map[string]any, row map[string]any) bool {
	for _, r := range rows {
		if r["id"] == row["id"] {
			return true
		}
	}
	return false
}

func writeRows(w http.ResponseWriter, status int, rows []map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(rows)
}

func newRemoteStore(t *testing.T, seed []map[string]any) (*fakeProject, *Store) {
	t.Helper()
	fp, client := newFakeProject(t, seed)
	return fp, New(client, localstore.NewTestStore(t))
}

func TestProbeFailureFallsBackToLocal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"service unavailable"}`, http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	s := New(supabase.New(server.URL, "test-anon-key"), localstore.NewTestStore(t))
	if mode := s.Mode(); mode != ModeLocal {
		t.Fatalf("expected local mode after probe failure, got %q", mode)
	}
	if items := s.Items(context.Background()); len(items) != 2 {
		t.Errorf("expected 2 demonstration items in the fallback store, got %d", len(items))
	}
}

func TestInitTimeoutForcesLocalFallback(t *testing.T) {
	saved := readyTimeout
	readyTimeout = 50 * time.Millisecond
	t.Cleanup(func() { readyTimeout = saved })

	// The probe hangs until the test ends, so only the timeout path can pin
	// a backend. The release cleanup is registered last so the handler
	// unblocks before the server shuts down.
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	s := New(supabase.New(server.URL, "test-anon-key"), localstore.NewTestStore(t))
	if mode := s.Mode(); mode != ModeLocal {
		t.Fatalf("expected forced local fallback, got %q", mode)
	}
	if items := s.Items(context.Background()); len(items) != 2 {
		t.Errorf("expected 2 demonstration items after forced fallback, got %d", len(items))
	}
}

func TestLateLocalFallbackKeepsLocalStoreUnseeded(t *testing.T) {
	_, s := newRemoteStore(t, sampleRemoteRows())
	if mode := s.Mode(); mode != ModeRemote {
		t.Fatalf("expected remote mode, got %q", mode)
	}

	// A fallback attempt that loses the pinning race must not write the
	// demonstration items into the local store.
	ctx := context.Background()
	s.becomeLocal(ctx)

	if mode := s.Mode(); mode != ModeRemote {
		t.Errorf("backend switched after being pinned: %q", mode)
	}
	if _, ok, err := s.local.Get(ctx, localstore.ItemsKey); err != nil || ok {
		t.Errorf("expected local store untouched: ok=%v err=%v", ok, err)
	}
}

func TestRemoteModeSelected(t *testing.T) {
	_, s := newRemoteStore(t, sampleRemoteRows())
	if mode := s.Mode(); mode != ModeRemote {
		t.Fatalf("expected remote mode, got %q", mode)
	}
}

func TestEmptyRemoteSeededWithSixItems(t *testing.T) {
	_, s := newRemoteStore(t, nil)
	items := s.Items(context.Background())

	if len(items) != 6 {
		t.Fatalf("expected 6 demonstration items, got %d", len(items))
	}
	for _, item := range items {
		if item.ID == "" || item.Type == "" || item.Title == "" || item.Category == "" ||
			item.Location == "" || item.Description == "" ||
			item.ReporterName == "" || item.ReporterEmail == "" {
			t.Errorf("demonstration item missing required fields: %+v", item)
		}
	}
}

func TestRemoteSeedSkippedWhenPopulated(t *testing.T) {
	fp, s := newRemoteStore(t, sampleRemoteRows()[:1])
	s.Mode() // wait for initialization

	fp.mu.Lock()
	defer fp.mu.Unlock()
	if len(fp.rows) != 1 {
		t.Errorf("expected populated table to stay at 1 row, got %d", len(fp.rows))
	}
}

func TestRemoteAddTranslatesFields(t *testing.T) {
	fp, s := newRemoteStore(t, sampleRemoteRows())
	ctx := context.Background()

	created := s.AddItem(ctx, keysReport())
	if created == nil {
		t.Fatal("AddItem returned nil")
	}
	if created.ID == "" || created.DateReported == "" {
		t.Error("expected backend-assigned id and timestamp")
	}

	fp.mu.Lock()
	var row map[string]any
	for _, r := range fp.rows {
		if r["id"] == created.ID {
			row = r
		}
	}
	fp.mu.Unlock()

	if row == nil {
		t.Fatal("created row not found in remote table")
	}
	if row["reporter_name"] != "A" || row["reporter_email"] != "a@a.com" {
		t.Errorf("expected snake_case reporter columns, got %v", row)
	}
	if _, ok := row["reporterName"]; ok {
		t.Error("app-format field leaked into the wire payload")
	}

	got := s.ItemByID(ctx, created.ID)
	if got == nil || got.Title != "Keys" || got.ReporterEmail != "a@a.com" {
		t.Errorf("round trip through remote backend failed: %+v", got)
	}
}

func TestRemoteUpdateDropsAbsentFields(t *testing.T) {
	fp, s := newRemoteStore(t, sampleRemoteRows())
	ctx := context.Background()

	created := s.AddItem(ctx, keysReport())
	updated := s.UpdateItem(ctx, created.ID, map[string]any{"title": "House Keys"})
	if updated == nil {
		t.Fatal("UpdateItem returned nil")
	}
	if updated.Title != "House Keys" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	if updated.Description != "x" {
		t.Errorf("absent field must stay untouched, got %q", updated.Description)
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()
	for _, row := range fp.rows {
		if row["id"] == created.ID {
			if _, ok := row["updated_at"]; !ok {
				t.Error("expected updated_at to be set on the wire")
			}
		}
	}
}

func TestRemoteDelete(t *testing.T) {
	_, s := newRemoteStore(t, sampleRemoteRows())
	ctx := context.Background()

	created := s.AddItem(ctx, keysReport())
	if !s.DeleteItem(ctx, created.ID) {
		t.Fatal("expected delete to succeed")
	}
	if got := s.ItemByID(ctx, created.ID); got != nil {
		t.Errorf("expected deleted report to be gone, got %+v", got)
	}
	if s.DeleteItem(ctx, created.ID) {
		t.Error("expected deleting an unknown id to return false")
	}
}

func TestRemoteAddFallsBackToLocalStore(t *testing.T) {
	fp, s := newRemoteStore(t, sampleRemoteRows())
	s.Mode() // wait for initialization before breaking inserts

	fp.mu.Lock()
	fp.failInserts = true
	fp.mu.Unlock()

	ctx := context.Background()
	created := s.AddItem(ctx, keysReport())
	if created == nil {
		t.Fatal("expected fallback write to return a non-nil report")
	}
	if created.ID == "" || created.DateReported == "" {
		t.Error("expected locally assigned id and timestamp")
	}

	// The report must be retrievable from the local fallback store.
	raw, ok, err := s.local.Get(ctx, localstore.ItemsKey)
	if err != nil || !ok {
		t.Fatalf("expected local store to hold items: ok=%v err=%v", ok, err)
	}
	var items []model.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("decoding local items: %v", err)
	}
	found := false
	for _, item := range items {
		if item.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Error("fallback report not present in local store")
	}
}

func TestRemoteUploadImage(t *testing.T) {
	fp, s := newRemoteStore(t, sampleRemoteRows())

	url := s.UploadImage(context.Background(), "cap.jpg", "image/jpeg", []byte("jpeg bytes"))
	if url == "" {
		t.Fatal("expected a public URL")
	}
	if !strings.Contains(url, "/storage/v1/object/public/item-images/") {
		t.Errorf("unexpected public URL shape: %q", url)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("expected original extension in object name, got %q", url)
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()
	if len(fp.objects) != 1 {
		t.Errorf("expected 1 uploaded object, got %d", len(fp.objects))
	}
}

func TestRemoteUploadFailureYieldsEmptyURL(t *testing.T) {
	fp, s := newRemoteStore(t, sampleRemoteRows())
	s.Mode()

	fp.mu.Lock()
	fp.failUploads = true
	fp.mu.Unlock()

	if url := s.UploadImage(context.Background(), "cap.jpg", "image/jpeg", []byte("x")); url != "" {
		t.Errorf("expected empty URL on upload failure, got %q", url)
	}
}

func TestRemoteItemsOrderedNewestFirst(t *testing.T) {
	_, s := newRemoteStore(t, nil)
	items := s.Items(context.Background())

	for i := 1; i < len(items); i++ {
		if reportedAt(items[i-1]).Before(reportedAt(items[i])) {
			t.Errorf("listing out of order at %d: %s before %s",
				i, items[i-1].DateReported, items[i].DateReported)
		}
	}
}
