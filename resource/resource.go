/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resource

import (
	"fmt"
	"net/http"
	"strings"
)

// Route binds one HTTP method and path pattern to a handler. Patterns use
// the net/http method-prefixed form, e.g. "GET /thread/{hash}".
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Resource is a set of routes derived from a model or index description,
// plus the schema document served on the discovery endpoint. The factories
// return resources; attaching them to a mux is the caller's decision.
type Resource struct {
	Name   string
	Prefix string
	Routes []Route
	Schema map[string]any
}

// Mount registers every route on the mux.
func (r *Resource) Mount(mux *http.ServeMux) {
	for _, rt := range r.Routes {
		mux.HandleFunc(rt.Method+" "+rt.Path, rt.Handler)
	}
}

// normalizePrefix validates and canonicalizes a route prefix, deriving one
// from the fallback name when the prefix is empty.
func normalizePrefix(prefix, name string) (string, error) {
	if prefix == "" {
		prefix = "/" + strings.ToLower(name)
	}
	if !strings.HasPrefix(prefix, "/") {
		return "", fmt.Errorf("prefix %q must start with /", prefix)
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return "", fmt.Errorf("prefix must name at least one path segment")
	}
	return prefix, nil
}
