package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pokemmo-tools/dexlate/cache"
)

// Source is the read-only resource contract the dictionary builder depends
// on. Both Client and Cached satisfy it, as do test fakes.
type Source interface {
	List(ctx context.Context, category string) ([]Ref, error)
	Resource(ctx context.Context, category string, id int) (*Resource, error)
}

// Cached composes a Client with a cache.Store. Records and category listings
// are fetched from the network only on cache miss; afterwards the cached
// payload is returned without any network access. There is no TTL — a stale
// cached value is always preferred over failing, and invalidation is manual.
type Cached struct {
	client *Client
	store  cache.Store
}

// NewCached wraps client with store.
func NewCached(client *Client, store cache.Store) *Cached {
	return &Cached{client: client, store: store}
}

// List returns the category listing, consulting the cache first. A fresh
// listing is persisted as one normalized document per category.
func (c *Cached) List(ctx context.Context, category string) ([]Ref, error) {
	key := cache.ListKey(category)

	if payload, ok, err := c.store.Get(key); err == nil && ok {
		var refs []Ref
		if err := json.Unmarshal(payload, &refs); err == nil {
			return refs, nil
		}
		// Unreadable cache entry: fall through to a network fetch.
	}

	refs, err := c.client.List(ctx, category)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(refs)
	if err != nil {
		return nil, fmt.Errorf("encoding %s listing: %w", category, err)
	}
	if err := c.store.Put(key, payload); err != nil {
		return nil, err
	}
	return refs, nil
}

// Resource returns one record, consulting the cache first. On miss the raw
// API payload is fetched, persisted, and decoded.
func (c *Cached) Resource(ctx context.Context, category string, id int) (*Resource, error) {
	key := cache.Key(category, id)

	if payload, ok, err := c.store.Get(key); err == nil && ok {
		if r, err := decodeResource(category, id, payload); err == nil {
			return r, nil
		}
	}

	payload, err := c.client.FetchRaw(ctx, category, id)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(key, payload); err != nil {
		return nil, err
	}
	return decodeResource(category, id, payload)
}
