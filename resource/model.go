/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resource

import (
	"fmt"
	"net/http"

	"github.com/suparena/dynarest/contract"
	"github.com/suparena/dynarest/datastore"
	"github.com/suparena/dynarest/errors"
	"github.com/suparena/dynarest/schema"
)

// modelResource holds the bindings one model's handlers close over.
type modelResource struct {
	name   string
	ct     *contract.Contract
	keys   schema.KeySchema
	store  datastore.Store
	schema map[string]any
}

// NewModel derives a full CRUD resource from a model description. The
// contract is built once here; handlers never inspect attribute kinds at
// request time. Each declared index contributes its own read-only routes
// under {prefix}/{index-name}.
//
// Routes (with a range key; drop the second segment without one):
//
//	GET    {prefix}            list
//	POST   {prefix}            create
//	GET    {prefix}/_schema    schema document
//	GET    {prefix}/{hash}/{range}
//	PUT    {prefix}/{hash}/{range}
//	DELETE {prefix}/{hash}/{range}
func NewModel(model schema.Model, store datastore.Store, prefix string) (*Resource, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	ct, err := contract.Build(model.Name, model.Attributes)
	if err != nil {
		return nil, err
	}
	prefix, err = normalizePrefix(prefix, model.Name)
	if err != nil {
		return nil, err
	}

	m := &modelResource{
		name:   model.Name,
		ct:     ct,
		keys:   ct.Keys(),
		store:  store,
		schema: model.Describe(),
	}

	itemPath := prefix + "/{hash}"
	if m.keys.RangeKey != "" {
		itemPath += "/{range}"
	}

	res := &Resource{
		Name:   model.Name,
		Prefix: prefix,
		Schema: model.Describe(),
		Routes: []Route{
			{Method: http.MethodGet, Path: prefix, Handler: m.list},
			{Method: http.MethodPost, Path: prefix, Handler: m.create},
			{Method: http.MethodGet, Path: prefix + "/_schema", Handler: m.describe},
			{Method: http.MethodGet, Path: itemPath, Handler: m.get},
			{Method: http.MethodPut, Path: itemPath, Handler: m.update},
			{Method: http.MethodDelete, Path: itemPath, Handler: m.delete},
		},
	}

	for _, ix := range model.Indexes {
		ixRes, err := NewIndex(ix, store, prefix+"/"+ix.Name)
		if err != nil {
			return nil, err
		}
		res.Routes = append(res.Routes, ixRes.Routes...)
	}
	return res, nil
}

// pathKey parses the path key segments through the contract.
func (m *modelResource) pathKey(r *http.Request) (datastore.Key, error) {
	key := datastore.Key{}
	hv, err := m.ct.ParseField(m.keys.HashKey, r.PathValue("hash"))
	if err != nil {
		return nil, err
	}
	key[m.keys.HashKey] = hv

	if m.keys.RangeKey != "" {
		rv, err := m.ct.ParseField(m.keys.RangeKey, r.PathValue("range"))
		if err != nil {
			return nil, err
		}
		key[m.keys.RangeKey] = rv
	}
	return key, nil
}

// filters parses equality filters for the declared non-key attributes
// present in the query string. Key-named and undeclared parameters are not
// filters and are ignored.
func (m *modelResource) filters(r *http.Request) (datastore.Item, error) {
	q := r.URL.Query()
	var filters datastore.Item
	for _, name := range m.ct.Names() {
		if m.ct.IsKey(name) || !q.Has(name) {
			continue
		}
		v, err := m.ct.ParseField(name, q.Get(name))
		if err != nil {
			return nil, err
		}
		if filters == nil {
			filters = datastore.Item{}
		}
		filters[name] = v
	}
	return filters, nil
}

func (m *modelResource) list(w http.ResponseWriter, r *http.Request) {
	limit, cursor, err := pageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	filters, err := m.filters(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := m.store.Scan(r.Context(), &datastore.ScanInput{
		Filters: filters,
		Limit:   limit,
		Cursor:  cursor,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageBody(m.ct, page))
}

func (m *modelResource) create(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := m.ct.ParseCreate(body)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := m.store.PutItem(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m.ct.Serialize(item))
}

func (m *modelResource) get(w http.ResponseWriter, r *http.Request) {
	key, err := m.pathKey(r)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := m.store.GetItem(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m.ct.Serialize(item))
}

func (m *modelResource) update(w http.ResponseWriter, r *http.Request) {
	key, err := m.pathKey(r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	updates, err := m.ct.ParseUpdate(body)
	if err != nil {
		writeError(w, err)
		return
	}

	// Key fields are immutable; a body value may only restate the path.
	for name, v := range updates {
		if !m.ct.IsKey(name) {
			continue
		}
		if !sameValue(v, key[name]) {
			writeError(w, errors.NewValidationError(name, "key field does not match the request path"))
			return
		}
		delete(updates, name)
	}

	// Nothing left to change: the current item is the result.
	if len(updates) == 0 {
		item, err := m.store.GetItem(r.Context(), key)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m.ct.Serialize(item))
		return
	}

	item, err := m.store.UpdateItem(r.Context(), key, updates)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m.ct.Serialize(item))
}

func (m *modelResource) delete(w http.ResponseWriter, r *http.Request) {
	key, err := m.pathKey(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := m.store.DeleteItem(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (m *modelResource) describe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.schema)
}

// pageBody serializes a store page into the list response shape.
func pageBody(ct *contract.Contract, page *datastore.Page) map[string]any {
	body := map[string]any{"items": ct.SerializeAll(page.Items)}
	if page.Cursor != "" {
		body["cursor"] = page.Cursor
	}
	return body
}

// sameValue compares two parsed key values. Parsed values are canonical
// scalars, so the printed form is a faithful comparison.
func sameValue(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
