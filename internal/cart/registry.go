package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMaxSessions = 10000
	DefaultSessionTTL  = 24 * time.Hour
)

// Registry owns one cart per browsing session. Sessions expire TTL after they
// were last used, and the least recently used session is dropped once the
// registry is full.
type Registry struct {
	currency string
	carts    *expirable.LRU[string, *Cart]
}

type Option func(*registryOptions)

type registryOptions struct {
	maxSessions int
	ttl         time.Duration
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(o *registryOptions) { o.maxSessions = n }
}

// WithSessionTTL sets how long an unused session survives.
func WithSessionTTL(d time.Duration) Option {
	return func(o *registryOptions) { o.ttl = d }
}

func NewRegistry(currency string, opts ...Option) *Registry {
	o := registryOptions{maxSessions: DefaultMaxSessions, ttl: DefaultSessionTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxSessions <= 0 {
		o.maxSessions = DefaultMaxSessions
	}
	if o.ttl <= 0 {
		o.ttl = DefaultSessionTTL
	}
	return &Registry{
		currency: currency,
		carts:    expirable.NewLRU[string, *Cart](o.maxSessions, nil, o.ttl),
	}
}

// New opens a session with an empty cart and returns its id.
func (r *Registry) New() (string, *Cart) {
	id := uuid.NewString()
	c := New(r.currency)
	r.carts.Add(id, c)
	return id, c
}

// Get returns the cart for id and marks the session as used.
func (r *Registry) Get(id string) (*Cart, bool) {
	if id == "" {
		return nil, false
	}
	c, ok := r.carts.Get(id)
	if !ok {
		return nil, false
	}
	r.carts.Add(id, c)
	return c, true
}

// GetOrCreate returns the cart for id, opening a new session when id is
// unknown. The returned id is the one the caller should keep using.
func (r *Registry) GetOrCreate(id string) (string, *Cart) {
	if c, ok := r.Get(id); ok {
		return id, c
	}
	return r.New()
}

func (r *Registry) Delete(id string) {
	r.carts.Remove(id)
}

func (r *Registry) Len() int {
	return r.carts.Len()
}
