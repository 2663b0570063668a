/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/dynarest/schema"
)

// Item is a stored record in its store-agnostic form: attribute name to
// JSON-compatible value.
type Item = map[string]any

// Key identifies a single item by its hash key and, when declared, its
// range key.
type Key = map[string]any

// Page is one page of query or scan results. Cursor is an opaque
// continuation token; it is empty when no further results exist.
type Page struct {
	Items  []Item
	Cursor string
}

// QueryInput describes a key-scoped read. KeyConditions holds equality
// conditions on the (index) key attributes; Filters holds equality
// conditions applied after the key condition.
type QueryInput struct {
	IndexName     string
	KeyConditions Key
	Filters       Item
	Limit         int32
	Cursor        string
}

// ScanInput describes an unscoped read over the whole table.
type ScanInput struct {
	Filters Item
	Limit   int32
	Cursor  string
}

// Store is the storage collaborator a resource delegates to. One Store
// serves one table with one key schema. Implementations are expected to
// honor the error taxonomy in the errors package:
//
//   - GetItem returns ErrNotFound when no item matches the key.
//   - PutItem returns ErrAlreadyExists when the key is already taken.
//   - UpdateItem merges the given fields into an existing item and returns
//     the updated item, or ErrNotFound when the key does not exist.
//   - DeleteItem is idempotent and succeeds whether or not the item exists.
//
// Pagination is stateless: the cursor in a Page fully encodes continuation
// state for the next Query or Scan call.
type Store interface {
	GetItem(ctx context.Context, key Key) (Item, error)
	PutItem(ctx context.Context, item Item) error
	UpdateItem(ctx context.Context, key Key, updates Item) (Item, error)
	DeleteItem(ctx context.Context, key Key) error
	Query(ctx context.Context, input *QueryInput) (*Page, error)
	Scan(ctx context.Context, input *ScanInput) (*Page, error)
}

// KeySchemed is implemented by stores that know their table's key layout.
// The ddb and mock implementations both satisfy it.
type KeySchemed interface {
	KeySchema() schema.KeySchema
}
