package cart

import (
	"sync"
	"time"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

// Cart is a set of listings keyed by ID, kept in insertion order.
// It is safe for concurrent use.
type Cart struct {
	mu       sync.RWMutex
	currency string
	items    []domain.Listing
	index    map[int64]int
	held     bool
}

// New creates an empty cart totalling in currency (DefaultCurrency if empty).
func New(currency string) *Cart {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &Cart{currency: currency, index: make(map[int64]int)}
}

// Add returns true if the listing was newly added, false if already present.
func (c *Cart) Add(l domain.Listing) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[l.ID]; exists {
		return false
	}
	c.index[l.ID] = len(c.items)
	c.items = append(c.items, l)
	return true
}

// Remove returns false if no listing with id is in the cart.
func (c *Cart) Remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(id)
}

// RemoveAll removes every id present and returns how many were removed.
func (c *Cart) RemoveAll(ids ...int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, id := range ids {
		if c.removeLocked(id) {
			n++
		}
	}
	return n
}

func (c *Cart) removeLocked(id int64) bool {
	pos, exists := c.index[id]
	if !exists {
		return false
	}
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, id)
	for i := pos; i < len(c.items); i++ {
		c.index[c.items[i].ID] = i
	}
	return true
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.index = make(map[int64]int)
}

func (c *Cart) Contains(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.index[id]
	return exists
}

func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// TotalPrice sums member prices. Listings whose price failed to parse carry a
// zero amount and contribute nothing.
func (c *Cart) TotalPrice() domain.Money {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalLocked()
}

func (c *Cart) totalLocked() domain.Money {
	var sum int64
	for _, l := range c.items {
		if l.Price.Amount > 0 {
			sum += l.Price.Amount
		}
	}
	return domain.Money{Amount: sum, Currency: c.currency}
}

// Items returns a copy of the members in insertion order.
func (c *Cart) Items() []domain.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]domain.Listing, 0, len(c.items)), c.items...)
}

// Snapshot captures items and total under a single lock.
func (c *Cart) Snapshot() domain.CartSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CartSnapshot{
		Items:      append(make([]domain.Listing, 0, len(c.items)), c.items...),
		Total:      c.totalLocked(),
		CapturedAt: time.Now().UTC(),
	}
}

// Hold marks the cart as being checked out and captures its contents. ok is
// false while another hold is active. Add and Remove keep working during a
// hold; only a second Hold is refused.
func (c *Cart) Hold() (snap domain.CartSnapshot, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held {
		return domain.CartSnapshot{}, false
	}
	c.held = true
	return domain.CartSnapshot{
		Items:      append(make([]domain.Listing, 0, len(c.items)), c.items...),
		Total:      c.totalLocked(),
		CapturedAt: time.Now().UTC(),
	}, true
}

// Release ends a hold and removes ids in the same critical section. It
// returns how many of ids were removed.
func (c *Cart) Release(ids ...int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.held = false
	n := 0
	for _, id := range ids {
		if c.removeLocked(id) {
			n++
		}
	}
	return n
}
