package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

var ErrDuplicateID = errors.New("duplicate listing id")

// Catalog is the read side of the listing catalog. ByID reports ok == false
// for an unknown id; that is not an error.
type Catalog interface {
	All(ctx context.Context) ([]domain.Listing, error)
	ByID(ctx context.Context, id int64) (domain.Listing, bool, error)
}

// MemoryCatalog is an append-only, in-process catalog.
type MemoryCatalog struct {
	mu       sync.RWMutex
	listings []domain.Listing
	byID     map[int64]int
}

func NewMemoryCatalog(listings ...domain.Listing) (*MemoryCatalog, error) {
	c := &MemoryCatalog{byID: make(map[int64]int, len(listings))}
	for _, l := range listings {
		if err := c.Add(l); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a listing. Ids are never reused.
func (c *MemoryCatalog) Add(l domain.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[l.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateID, l.ID)
	}
	c.byID[l.ID] = len(c.listings)
	c.listings = append(c.listings, l)
	return nil
}

func (c *MemoryCatalog) All(context.Context) ([]domain.Listing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]domain.Listing, 0, len(c.listings)), c.listings...), nil
}

func (c *MemoryCatalog) ByID(_ context.Context, id int64) (domain.Listing, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pos, ok := c.byID[id]
	if !ok {
		return domain.Listing{}, false, nil
	}
	return c.listings[pos], true, nil
}

func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listings)
}
