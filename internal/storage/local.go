package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reclaimhq/reclaim/internal/localstore"
	"github.com/reclaimhq/reclaim/internal/model"
)

// localBackend keeps the whole dataset as one serialized JSON array under a
// fixed key, read and rewritten wholesale on every mutation.
type localBackend struct {
	db *localstore.DB
}

func (b *localBackend) mode() string { return ModeLocal }

func (b *localBackend) loadItems(ctx context.Context) ([]model.Item, error) {
	raw, ok, err := b.db.Get(ctx, localstore.ItemsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var items []model.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding local items: %w", err)
	}
	return items, nil
}

func (b *localBackend) saveItems(ctx context.Context, items []model.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding local items: %w", err)
	}
	return b.db.Put(ctx, localstore.ItemsKey, string(raw))
}

func (b *localBackend) items(ctx context.Context) ([]model.Item, error) {
	items, err := b.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

func (b *localBackend) add(ctx context.Context, item model.Item) (*model.Item, error) {
	items, err := b.loadItems(ctx)
	if err != nil {
		return nil, err
	}

	item.ID = newItemID()
	item.DateReported = time.Now().UTC().Format(time.RFC3339)

	items = append([]model.Item{item}, items...)
	if err := b.saveItems(ctx, items); err != nil {
		return nil, err
	}
	return &item, nil
}

func (b *localBackend) get(ctx context.Context, id string) (*model.Item, error) {
	items, err := b.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (b *localBackend) update(ctx context.Context, id string, updates map[string]any) (*model.Item, error) {
	items, err := b.loadItems(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}

		// Merge through the app-format map so only present fields change.
		app := itemToApp(items[i])
		for name, value := range updates {
			if _, known := appToWireNames[name]; known {
				app[name] = value
			}
		}
		merged := itemFromApp(app)
		merged.ID = items[i].ID
		merged.DateReported = items[i].DateReported
		items[i] = merged

		if err := b.saveItems(ctx, items); err != nil {
			return nil, err
		}
		return &items[i], nil
	}
	return nil, nil
}

func (b *localBackend) delete(ctx context.Context, id string) (bool, error) {
	items, err := b.loadItems(ctx)
	if err != nil {
		return false, err
	}

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return false, nil
	}

	if err := b.saveItems(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// uploadImage has no object store to reach: the file becomes a base64 data
// URL carried inline, exactly like the browser fallback did.
func (b *localBackend) uploadImage(_ context.Context, _, contentType string, data []byte) (string, error) {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// seedIfEmpty writes the two-item demonstration dataset, but only when the
// store holds nothing yet.
func (b *localBackend) seedIfEmpty(ctx context.Context) error {
	items, err := b.loadItems(ctx)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		return nil
	}
	return b.saveItems(ctx, sampleLocalItems())
}

func newItemID() string {
	return "item_" + uuid.NewString()
}
