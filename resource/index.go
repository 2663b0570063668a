/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resource

import (
	"net/http"

	"github.com/suparena/dynarest/contract"
	"github.com/suparena/dynarest/datastore"
	"github.com/suparena/dynarest/errors"
	"github.com/suparena/dynarest/schema"
)

// indexResource holds the bindings one index's handler closes over.
type indexResource struct {
	name  string
	ct    *contract.Contract
	keys  schema.KeySchema
	store datastore.Store
}

// NewIndex derives a read-only resource from a secondary index description.
// An index list is inherently a query, so the index's hash key is a
// required query parameter rather than a path segment. Responses are
// projected to the index's declared attribute subset.
//
// Routes:
//
//	GET {prefix}            query by index key
//	GET {prefix}/_schema    schema document
func NewIndex(index schema.Index, store datastore.Store, prefix string) (*Resource, error) {
	if err := index.Validate(); err != nil {
		return nil, err
	}
	ct, err := contract.Build(index.Name, index.Attributes)
	if err != nil {
		return nil, err
	}
	prefix, err = normalizePrefix(prefix, index.Name)
	if err != nil {
		return nil, err
	}

	ix := &indexResource{
		name:  index.Name,
		ct:    ct,
		keys:  ct.Keys(),
		store: store,
	}
	schemaDoc := index.Describe()

	return &Resource{
		Name:   index.Name,
		Prefix: prefix,
		Schema: schemaDoc,
		Routes: []Route{
			{Method: http.MethodGet, Path: prefix, Handler: ix.list},
			{Method: http.MethodGet, Path: prefix + "/_schema", Handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, schemaDoc)
			}},
		},
	}, nil
}

func (ix *indexResource) list(w http.ResponseWriter, r *http.Request) {
	limit, cursor, err := pageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	if !q.Has(ix.keys.HashKey) {
		writeError(w, errors.NewValidationError(ix.keys.HashKey, "required query parameter is missing"))
		return
	}

	conditions := datastore.Key{}
	var filters datastore.Item
	for _, name := range ix.ct.Names() {
		if !q.Has(name) {
			continue
		}
		v, err := ix.ct.ParseField(name, q.Get(name))
		if err != nil {
			writeError(w, err)
			return
		}
		if ix.ct.IsKey(name) {
			conditions[name] = v
			continue
		}
		if filters == nil {
			filters = datastore.Item{}
		}
		filters[name] = v
	}

	page, err := ix.store.Query(r.Context(), &datastore.QueryInput{
		IndexName:     ix.name,
		KeyConditions: conditions,
		Filters:       filters,
		Limit:         limit,
		Cursor:        cursor,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageBody(ix.ct, page))
}
