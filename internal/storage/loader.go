package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

const listingsSchemaURL = "listings.schema.json"

//go:embed schema/listings.schema.json
var listingsSchemaJSON []byte

var (
	schemaOnce     sync.Once
	listingsSchema *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(listingsSchemaURL, bytes.NewReader(listingsSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add listings schema: %w", err)
			return
		}
		listingsSchema, schemaErr = compiler.Compile(listingsSchemaURL)
	})
	return listingsSchema, schemaErr
}

// LoadListingsFromFile reads a seed feed from a JSON file.
func LoadListingsFromFile(path string) ([]domain.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open listings file: %w", err)
	}
	defer f.Close()

	listings, err := DecodeListings(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return listings, nil
}

// DecodeListings validates a JSON array of listings against the feed schema
// and decodes it. Prices may be display strings or {amount,currency} objects.
func DecodeListings(r io.Reader) ([]domain.Listing, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read listings: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	var doc interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("listings feed is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("listings feed failed schema validation: %w", err)
	}

	var listings []domain.Listing
	if err := json.Unmarshal(b, &listings); err != nil {
		return nil, fmt.Errorf("unmarshal listings: %w", err)
	}
	return listings, nil
}
