package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

func TestMemoryCatalogByIDNotFound(t *testing.T) {
	c, err := NewMemoryCatalog(domain.Listing{ID: 1, Name: "A"}, domain.Listing{ID: 2, Name: "B"})
	if err != nil {
		t.Fatalf("NewMemoryCatalog: %v", err)
	}

	_, ok, err := c.ByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("ByID err=%v", err)
	}
	if ok {
		t.Fatalf("ByID(9999) ok=true want=false")
	}

	l, ok, _ := c.ByID(context.Background(), 2)
	if !ok || l.Name != "B" {
		t.Fatalf("ByID(2)=%+v ok=%v", l, ok)
	}
}

func TestMemoryCatalogRejectsDuplicateIDs(t *testing.T) {
	_, err := NewMemoryCatalog(domain.Listing{ID: 1}, domain.Listing{ID: 1})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err=%v want ErrDuplicateID", err)
	}
}

func TestMemoryCatalogAllIsCopy(t *testing.T) {
	c, _ := NewMemoryCatalog(domain.Listing{ID: 1, Name: "A"})
	all, _ := c.All(context.Background())
	all[0].Name = "changed"

	again, _ := c.All(context.Background())
	if again[0].Name != "A" {
		t.Fatalf("catalog mutated through All(): %q", again[0].Name)
	}
	if err := c.Add(domain.Listing{ID: 2}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("len=%d want=2", c.Len())
	}
}

func TestLoadListingsFromSeedFile(t *testing.T) {
	listings, err := LoadListingsFromFile(filepath.Join("..", "..", "data", "listings.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(listings) != 7 {
		t.Fatalf("listings=%d want=7", len(listings))
	}
	if listings[0].Price.Amount != 250000000 || listings[0].Price.Currency != "GHS" {
		t.Fatalf("first price=%+v", listings[0].Price)
	}
	if listings[6].Price.Amount != 210000000 {
		t.Fatalf("object price=%+v", listings[6].Price)
	}
	if listings[0].CreatedAt.IsZero() {
		t.Fatalf("created_at not decoded")
	}
}

func TestDecodeListingsValidation(t *testing.T) {
	cases := map[string]string{
		"not json":        `[{`,
		"not array":       `{"id":1}`,
		"missing name":    `[{"id":1,"price":"₵1"}]`,
		"zero id":         `[{"id":0,"name":"x","price":"₵1"}]`,
		"negative amount": `[{"id":1,"name":"x","price":{"amount":-5}}]`,
		"bad currency":    `[{"id":1,"name":"x","price":{"amount":5,"currency":"cedi"}}]`,
		"bad created_at":  `[{"id":1,"name":"x","price":"₵1","created_at":"yesterday"}]`,
		"fractional beds": `[{"id":1,"name":"x","price":"₵1","beds":1.5}]`,
	}
	for name, body := range cases {
		if _, err := DecodeListings(strings.NewReader(body)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	got, err := DecodeListings(strings.NewReader(`[{"id":3,"name":"x","price":"on request"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got[0].Price.Amount != 0 {
		t.Fatalf("malformed price amount=%d want=0", got[0].Price.Amount)
	}
}

func TestSQLiteCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	items := []domain.Listing{
		{ID: 2, Name: "House", Price: domain.Money{Amount: 95000000, Currency: "GHS"}, Type: "House", Beds: 4, Area: 3200.5, CreatedAt: created},
		{ID: 1, Name: "Villa", Price: domain.Money{Amount: 250000000}, Type: "Villa"},
	}
	n, err := store.UpsertMany(ctx, items)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted=%d want=2", n)
	}

	n, err = store.UpsertMany(ctx, items[:1])
	if err != nil || n != 0 {
		t.Fatalf("re-upsert inserted=%d err=%v", n, err)
	}

	count, _ := store.Count(ctx)
	if count != 2 {
		t.Fatalf("count=%d want=2", count)
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Fatalf("all order=%+v", all)
	}
	if all[0].Price.Currency != "GHS" {
		t.Fatalf("default currency=%q", all[0].Price.Currency)
	}

	got, ok, err := store.ByID(ctx, 2)
	if err != nil || !ok {
		t.Fatalf("ByID(2) ok=%v err=%v", ok, err)
	}
	if !got.CreatedAt.Equal(created) || got.Area != 3200.5 || got.Beds != 4 {
		t.Fatalf("ByID(2)=%+v", got)
	}

	_, ok, err = store.ByID(ctx, 9999)
	if err != nil || ok {
		t.Fatalf("ByID(9999) ok=%v err=%v", ok, err)
	}
}

var _ Catalog = (*MemoryCatalog)(nil)
var _ Catalog = (*SQLiteCatalog)(nil)
