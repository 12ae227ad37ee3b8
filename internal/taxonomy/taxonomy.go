// ABOUTME: Category and tag lookup for commands that accept names
// ABOUTME: Loads both lists concurrently, caches them, and resolves names to IDs

package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/markalston/blogctl/internal/cache"
	"github.com/markalston/blogctl/internal/client"
)

// DefaultTTL bounds how long a loaded taxonomy is reused
const DefaultTTL = 5 * time.Minute

const cacheKey = "taxonomy"

// ErrNotFound is returned when a name matches no category or tag
var ErrNotFound = errors.New("not found")

// API is the slice of the client the resolver reads from
type API interface {
	ListCategories(ctx context.Context) ([]client.Category, error)
	ListTags(ctx context.Context) ([]client.Tag, error)
}

// Snapshot is one consistent view of categories and tags
type Snapshot struct {
	Categories []client.Category
	Tags       []client.Tag
}

type Resolver struct {
	api     API
	cache   *cache.Cache[*Snapshot]
	sfGroup singleflight.Group
}

func New(api API, ttl time.Duration) *Resolver {
	return &Resolver{
		api:   api,
		cache: cache.New[*Snapshot](ttl),
	}
}

// Close releases the cache's background cleanup
func (r *Resolver) Close() {
	r.cache.Close()
}

// Invalidate drops the cached taxonomy, e.g. after creating a category
func (r *Resolver) Invalidate() {
	r.cache.Clear(cacheKey)
}

// Load returns the cached taxonomy, fetching categories and tags in parallel
// on a miss. Concurrent callers share one fetch.
func (r *Resolver) Load(ctx context.Context) (*Snapshot, error) {
	if s, ok := r.cache.Get(cacheKey); ok {
		return s, nil
	}

	v, err, _ := r.sfGroup.Do(cacheKey, func() (interface{}, error) {
		return r.cache.GetOrLoad(cacheKey, func() (*Snapshot, error) {
			return r.fetch(ctx)
		})
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (r *Resolver) fetch(ctx context.Context) (*Snapshot, error) {
	var s Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		categories, err := r.api.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		s.Categories = categories
		return nil
	})
	g.Go(func() error {
		tags, err := r.api.ListTags(gctx)
		if err != nil {
			return fmt.Errorf("failed to load tags: %w", err)
		}
		s.Tags = tags
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

// CategoryID resolves a category name or ID. Names match case-insensitively.
// A well-formed UUID is passed through unchanged.
func (r *Resolver) CategoryID(ctx context.Context, nameOrID string) (string, error) {
	nameOrID = strings.TrimSpace(nameOrID)
	if nameOrID == "" {
		return "", nil
	}
	if isUUID(nameOrID) {
		return nameOrID, nil
	}

	s, err := r.Load(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range s.Categories {
		if strings.EqualFold(c.Name, nameOrID) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("category %q: %w", nameOrID, ErrNotFound)
}

// TagIDs resolves tag names or IDs in order, dropping duplicates
func (r *Resolver) TagIDs(ctx context.Context, namesOrIDs []string) ([]string, error) {
	ids := make([]string, 0, len(namesOrIDs))
	seen := make(map[string]bool, len(namesOrIDs))
	var s *Snapshot

	for _, raw := range namesOrIDs {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		id := name
		if !isUUID(name) {
			if s == nil {
				var err error
				if s, err = r.Load(ctx); err != nil {
					return nil, err
				}
			}
			id = ""
			for _, t := range s.Tags {
				if strings.EqualFold(t.Name, name) {
					id = t.ID
					break
				}
			}
			if id == "" {
				return nil, fmt.Errorf("tag %q: %w", name, ErrNotFound)
			}
		}

		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func isUUID(s string) bool {
	return uuid.Validate(s) == nil
}
