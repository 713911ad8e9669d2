package storage

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"path"
	"time"

	"github.com/reclaimhq/reclaim/internal/model"
	"github.com/reclaimhq/reclaim/internal/supabase"
)

// Remote table and bucket names.
const (
	itemsTable  = "items"
	imageBucket = "item-images"
)

// remoteBackend stores reports in the hosted table store and photos in the
// public object bucket. It keeps a local backend around solely for the
// same-call fallback write when a remote insert fails.
type remoteBackend struct {
	client   *supabase.Client
	fallback *localBackend
}

func (b *remoteBackend) mode() string { return ModeRemote }

func (b *remoteBackend) items(ctx context.Context) ([]model.Item, error) {
	rows, err := b.client.Select(ctx, itemsTable, url.Values{
		"select": {"*"},
		"order":  {"created_at.desc"},
	})
	if err != nil {
		return nil, err
	}

	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, decodeItem(row))
	}
	return items, nil
}

func (b *remoteBackend) add(ctx context.Context, item model.Item) (*model.Item, error) {
	app := itemToApp(item)
	// The backend assigns both.
	delete(app, "dateReported")

	rows, err := b.client.Insert(ctx, itemsTable, []map[string]any{toWire(app)})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert returned no representation")
	}

	created := decodeItem(rows[0])
	return &created, nil
}

func (b *remoteBackend) get(ctx context.Context, id string) (*model.Item, error) {
	rows, err := b.client.Select(ctx, itemsTable, url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	item := decodeItem(rows[0])
	return &item, nil
}

func (b *remoteBackend) update(ctx context.Context, id string, updates map[string]any) (*model.Item, error) {
	wire := toWire(updates)
	wire["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	rows, err := b.client.Update(ctx, itemsTable, url.Values{"id": {"eq." + id}}, wire)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	item := decodeItem(rows[0])
	return &item, nil
}

func (b *remoteBackend) delete(ctx context.Context, id string) (bool, error) {
	rows, err := b.client.Delete(ctx, itemsTable, url.Values{"id": {"eq." + id}})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (b *remoteBackend) uploadImage(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	name := uniqueObjectName(fileName)
	if err := b.client.Upload(ctx, imageBucket, name, contentType, data); err != nil {
		return "", err
	}
	return b.client.PublicURL(imageBucket, name), nil
}

// seed inserts the six-item demonstration dataset.
func (b *remoteBackend) seed(ctx context.Context) error {
	_, err := b.client.Insert(ctx, itemsTable, sampleRemoteRows())
	if err != nil {
		return fmt.Errorf("inserting demonstration rows: %w", err)
	}
	return nil
}

// uniqueObjectName builds a collision-resistant object name from the upload
// time, a random suffix and the original file extension.
func uniqueObjectName(fileName string) string {
	ext := path.Ext(fileName)
	return fmt.Sprintf("%d-%08x%s", time.Now().UnixMilli(), rand.Uint32(), ext)
}
