// Package docstore provides a key-path document store in the style of hosted
// document-tree databases: point reads, full overwrites, field merges,
// push-with-generated-id appends, and an atomic read-modify-write hook.
// Repository adapters in this package let the register core run against it
// interchangeably with the SQL backend.
package docstore

import (
	"context"
	"encoding/json"
	"strings"
)

// Document pairs a generated key with its raw value, for collection listings
type Document struct {
	ID   string
	Data json.RawMessage
}

// Store is the storage contract. Paths are slash-separated, e.g.
// "branches/{branchID}/products/{productID}". Read returns nil for an absent
// path; that is not an error.
type Store interface {
	Read(ctx context.Context, path string) (json.RawMessage, error)
	Write(ctx context.Context, path string, value any) error

	// Update merges the given fields into the document at path.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Push appends value under collectionPath with a generated unique key
	// and returns that key.
	Push(ctx context.Context, collectionPath string, value any) (string, error)

	Remove(ctx context.Context, path string) error

	// List returns the direct children of a collection path.
	List(ctx context.Context, collectionPath string) ([]Document, error)

	// Transact atomically applies fn to the current value at path and writes
	// the result. fn receives nil when the path is absent. This is the hook
	// relative adjustments (stock, points) run through, so concurrent writers
	// never overwrite each other from stale reads.
	Transact(ctx context.Context, path string, fn func(current json.RawMessage) (any, error)) error
}

// Path joins path segments with slashes, skipping empty parts
func Path(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "/")
}
