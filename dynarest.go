/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynarest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/suparena/dynarest/resource"
)

// Registry is a thread-safe collection of named resources. It is a
// convenience for hosts serving several models from one mux; the resource
// factories themselves never touch it.
type Registry struct {
	mu        sync.RWMutex
	resources map[string]*resource.Resource
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		resources: make(map[string]*resource.Resource),
	}
}

// Register stores the resource under its name.
func (r *Registry) Register(res *resource.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[res.Name]; exists {
		return fmt.Errorf("resource with name %q already registered", res.Name)
	}
	r.resources[res.Name] = res
	return nil
}

// Get retrieves the resource registered under the given name.
func (r *Registry) Get(name string) (*resource.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, exists := r.resources[name]
	if !exists {
		return nil, fmt.Errorf("resource with name %q not found", name)
	}
	return res, nil
}

// List returns the registered resources sorted by name.
func (r *Registry) List() []*resource.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*resource.Resource, 0, len(r.resources))
	for _, res := range r.resources {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MountAll attaches every registered resource to the mux, plus a GET
// /schema endpoint listing all resource schemas keyed by name.
func (r *Registry) MountAll(mux *http.ServeMux) {
	for _, res := range r.List() {
		res.Mount(mux)
	}
	mux.HandleFunc("GET /schema", r.schemaIndex)
}

func (r *Registry) schemaIndex(w http.ResponseWriter, req *http.Request) {
	index := make(map[string]any)
	for _, res := range r.List() {
		index[res.Name] = map[string]any{
			"prefix": res.Prefix,
			"schema": res.Schema,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(index)
}
