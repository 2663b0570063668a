/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the datastore.Store
// interface for testing. It honors the same key semantics and error
// taxonomy as the ddb implementation: conditional create, merge updates,
// idempotent delete, and cursor pagination.
package mock

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/suparena/dynarest/datastore"
	"github.com/suparena/dynarest/errors"
	"github.com/suparena/dynarest/schema"
)

// Store is an in-memory datastore.Store for testing.
type Store struct {
	mu    sync.RWMutex
	name  string
	keys  schema.KeySchema
	items map[string]datastore.Item
	order []string

	getError    error
	putError    error
	updateError error
	deleteError error
	queryError  error
	scanError   error
}

// New creates a mock Store for a table with the given key schema.
func New(name string, keys schema.KeySchema) *Store {
	return &Store{
		name:  name,
		keys:  keys,
		items: make(map[string]datastore.Item),
	}
}

// KeySchema returns the table's key layout.
func (m *Store) KeySchema() schema.KeySchema { return m.keys }

// WithGetError makes GetItem operations return an error
func (m *Store) WithGetError(err error) *Store {
	m.getError = err
	return m
}

// WithPutError makes PutItem operations return an error
func (m *Store) WithPutError(err error) *Store {
	m.putError = err
	return m
}

// WithUpdateError makes UpdateItem operations return an error
func (m *Store) WithUpdateError(err error) *Store {
	m.updateError = err
	return m
}

// WithDeleteError makes DeleteItem operations return an error
func (m *Store) WithDeleteError(err error) *Store {
	m.deleteError = err
	return m
}

// WithQueryError makes Query operations return an error
func (m *Store) WithQueryError(err error) *Store {
	m.queryError = err
	return m
}

// WithScanError makes Scan operations return an error
func (m *Store) WithScanError(err error) *Store {
	m.scanError = err
	return m
}

// compositeKey renders a key as the internal map index.
func (m *Store) compositeKey(key datastore.Key) (string, error) {
	hv, ok := key[m.keys.HashKey]
	if !ok {
		return "", fmt.Errorf("key missing hash attribute %q", m.keys.HashKey)
	}
	ck := fmt.Sprintf("%v", hv)
	if m.keys.RangeKey != "" {
		rv, ok := key[m.keys.RangeKey]
		if !ok {
			return "", fmt.Errorf("key missing range attribute %q", m.keys.RangeKey)
		}
		ck = fmt.Sprintf("%s|%v", ck, rv)
	}
	return ck, nil
}

// GetItem retrieves an item by key.
func (m *Store) GetItem(ctx context.Context, key datastore.Key) (datastore.Item, error) {
	if m.getError != nil {
		return nil, m.getError
	}

	ck, err := m.compositeKey(key)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	item, exists := m.items[ck]
	if !exists {
		return nil, errors.NewNotFoundError(m.name, ck)
	}
	return clone(item), nil
}

// PutItem stores a new item; an existing key is a conflict.
func (m *Store) PutItem(ctx context.Context, item datastore.Item) error {
	if m.putError != nil {
		return m.putError
	}

	ck, err := m.compositeKey(item)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[ck]; exists {
		return errors.NewAlreadyExistsError(m.name, ck)
	}
	m.items[ck] = clone(item)
	m.order = append(m.order, ck)
	return nil
}

// UpdateItem merges fields into an existing item and returns the result.
func (m *Store) UpdateItem(ctx context.Context, key datastore.Key, updates datastore.Item) (datastore.Item, error) {
	if m.updateError != nil {
		return nil, m.updateError
	}

	ck, err := m.compositeKey(key)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.items[ck]
	if !exists {
		return nil, errors.NewNotFoundError(m.name, ck)
	}

	merged := clone(item)
	for k, v := range updates {
		merged[k] = v
	}
	m.items[ck] = merged
	return clone(merged), nil
}

// DeleteItem removes an item by key. Deleting an absent key is not an error.
func (m *Store) DeleteItem(ctx context.Context, key datastore.Key) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	ck, err := m.compositeKey(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[ck]; exists {
		delete(m.items, ck)
		for i, k := range m.order {
			if k == ck {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Query returns items matching every key condition and filter, in
// insertion order, one page at a time.
func (m *Store) Query(ctx context.Context, in *datastore.QueryInput) (*datastore.Page, error) {
	if m.queryError != nil {
		return nil, m.queryError
	}

	match := func(item datastore.Item) bool {
		for name, want := range in.KeyConditions {
			if !valuesEqual(item[name], want) {
				return false
			}
		}
		for name, want := range in.Filters {
			if !valuesEqual(item[name], want) {
				return false
			}
		}
		return true
	}
	return m.page(match, in.Limit, in.Cursor)
}

// Scan returns items matching every filter, in insertion order, one page
// at a time.
func (m *Store) Scan(ctx context.Context, in *datastore.ScanInput) (*datastore.Page, error) {
	if m.scanError != nil {
		return nil, m.scanError
	}

	match := func(item datastore.Item) bool {
		for name, want := range in.Filters {
			if !valuesEqual(item[name], want) {
				return false
			}
		}
		return true
	}
	return m.page(match, in.Limit, in.Cursor)
}

// page walks the insertion order from the cursor offset, like DynamoDB's
// ExclusiveStartKey walks the key order.
func (m *Store) page(match func(datastore.Item) bool, limit int32, cursor string) (*datastore.Page, error) {
	start := 0
	if cursor != "" {
		offset, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %q", cursor)
		}
		start = offset
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	page := &datastore.Page{}
	for i := start; i < len(m.order); i++ {
		if limit > 0 && int32(len(page.Items)) == limit {
			page.Cursor = strconv.Itoa(i)
			return page, nil
		}
		if item, exists := m.items[m.order[i]]; exists && match(item) {
			page.Items = append(page.Items, clone(item))
		}
	}
	return page, nil
}

// valuesEqual compares attribute values with numeric normalization, since
// parsed request values may be int64 while stored values are float64.
func valuesEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func clone(item datastore.Item) datastore.Item {
	out := make(datastore.Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// Helper methods for testing

// SetData replaces the stored items, keyed and ordered by insertion.
func (m *Store) SetData(items []datastore.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]datastore.Item, len(items))
	m.order = m.order[:0]
	for _, item := range items {
		ck, err := m.compositeKey(item)
		if err != nil {
			return err
		}
		m.items[ck] = clone(item)
		m.order = append(m.order, ck)
	}
	return nil
}

// Count returns the number of stored items
func (m *Store) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Clear removes all items
func (m *Store) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]datastore.Item)
	m.order = nil
}
