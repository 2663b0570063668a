/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resource_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/suparena/dynarest/datastore"
	"github.com/suparena/dynarest/datastore/mock"
	"github.com/suparena/dynarest/resource"
	"github.com/suparena/dynarest/schema"
)

func threadModel() schema.Model {
	return schema.Model{
		Name: "Thread",
		Attributes: []schema.Attribute{
			{Name: "forum_name", Kind: schema.String, HashKey: true},
			{Name: "subject", Kind: schema.String, RangeKey: true},
			{Name: "views", Kind: schema.Number, Default: 0},
		},
		Indexes: []schema.Index{{
			Name: "by_views",
			Attributes: []schema.Attribute{
				{Name: "views", Kind: schema.Number, HashKey: true},
				{Name: "subject", Kind: schema.String, RangeKey: true},
			},
		}},
	}
}

func newThreadServer(t *testing.T) (*httptest.Server, *mock.Store) {
	t.Helper()

	store := mock.New("Thread", schema.KeySchema{HashKey: "forum_name", RangeKey: "subject"})
	res, err := resource.NewModel(threadModel(), store, "/thread")
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	mux := http.NewServeMux()
	res.Mount(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store
}

// do issues a request with an optional JSON body and decodes the JSON
// response when there is one.
func do(t *testing.T, method, url string, body any) (int, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		t.Fatalf("decode response body: %v", err)
	}
	return resp.StatusCode, out
}

func TestThreadLifecycle(t *testing.T) {
	srv, _ := newThreadServer(t)

	status, body := do(t, http.MethodPost, srv.URL+"/thread", map[string]any{
		"forum_name": "general",
		"subject":    "hello",
	})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (%v)", status, body)
	}
	if body["forum_name"] != "general" || body["subject"] != "hello" {
		t.Errorf("created body = %v", body)
	}
	if body["views"] != float64(0) {
		t.Errorf("created views = %v, want default 0", body["views"])
	}

	status, body = do(t, http.MethodGet, srv.URL+"/thread/general/hello", nil)
	if status != http.StatusOK {
		t.Fatalf("get status = %d, want 200", status)
	}
	if body["views"] != float64(0) {
		t.Errorf("get views = %v, want 0", body["views"])
	}

	status, body = do(t, http.MethodPut, srv.URL+"/thread/general/hello", map[string]any{"views": 5})
	if status != http.StatusOK {
		t.Fatalf("update status = %d, want 200 (%v)", status, body)
	}
	if body["views"] != float64(5) {
		t.Errorf("updated views = %v, want 5", body["views"])
	}
	if body["forum_name"] != "general" || body["subject"] != "hello" {
		t.Errorf("update changed untouched fields: %v", body)
	}

	status, _ = do(t, http.MethodDelete, srv.URL+"/thread/general/hello", nil)
	if status != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", status)
	}

	status, _ = do(t, http.MethodGet, srv.URL+"/thread/general/hello", nil)
	if status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", status)
	}
}

func TestCreateConflict(t *testing.T) {
	srv, _ := newThreadServer(t)

	item := map[string]any{"forum_name": "general", "subject": "hello"}
	if status, _ := do(t, http.MethodPost, srv.URL+"/thread", item); status != http.StatusCreated {
		t.Fatalf("first create status = %d, want 201", status)
	}
	if status, _ := do(t, http.MethodPost, srv.URL+"/thread", item); status != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", status)
	}
}

func TestCreateValidation(t *testing.T) {
	srv, store := newThreadServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"MissingRangeKey", map[string]any{"forum_name": "general"}},
		{"MissingHashKey", map[string]any{"subject": "hello"}},
		{"UnknownField", map[string]any{"forum_name": "g", "subject": "s", "color": "red"}},
		{"WrongType", map[string]any{"forum_name": "g", "subject": "s", "views": "many"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, http.MethodPost, srv.URL+"/thread", tc.body)
			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%v)", status, body)
			}
		})
	}

	// Validation happens before any store call.
	if store.Count() != 0 {
		t.Errorf("store has %d items after rejected creates, want 0", store.Count())
	}
}

func TestUpdateKeyFields(t *testing.T) {
	srv, _ := newThreadServer(t)

	if status, _ := do(t, http.MethodPost, srv.URL+"/thread", map[string]any{
		"forum_name": "general", "subject": "hello",
	}); status != http.StatusCreated {
		t.Fatal("seed create failed")
	}

	// A body may restate the path keys.
	status, body := do(t, http.MethodPut, srv.URL+"/thread/general/hello", map[string]any{
		"forum_name": "general",
		"views":      7,
	})
	if status != http.StatusOK {
		t.Fatalf("restated key update status = %d, want 200 (%v)", status, body)
	}
	if body["views"] != float64(7) {
		t.Errorf("views = %v, want 7", body["views"])
	}

	// It may not move the item.
	status, _ = do(t, http.MethodPut, srv.URL+"/thread/general/hello", map[string]any{
		"forum_name": "other",
	})
	if status != http.StatusBadRequest {
		t.Errorf("conflicting key update status = %d, want 400", status)
	}
}

func TestUpdateEmptyBody(t *testing.T) {
	srv, _ := newThreadServer(t)

	if status, _ := do(t, http.MethodPost, srv.URL+"/thread", map[string]any{
		"forum_name": "general", "subject": "hello", "views": 3,
	}); status != http.StatusCreated {
		t.Fatal("seed create failed")
	}

	status, body := do(t, http.MethodPut, srv.URL+"/thread/general/hello", map[string]any{})
	if status != http.StatusOK {
		t.Fatalf("empty update status = %d, want 200", status)
	}
	if body["views"] != float64(3) {
		t.Errorf("views = %v, want unchanged 3", body["views"])
	}
}

func TestUpdateMissing(t *testing.T) {
	srv, _ := newThreadServer(t)

	status, _ := do(t, http.MethodPut, srv.URL+"/thread/general/absent", map[string]any{"views": 1})
	if status != http.StatusNotFound {
		t.Errorf("update of missing item status = %d, want 404", status)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	srv, _ := newThreadServer(t)

	for i := 0; i < 2; i++ {
		status, _ := do(t, http.MethodDelete, srv.URL+"/thread/general/never-existed", nil)
		if status != http.StatusOK {
			t.Errorf("delete #%d status = %d, want 200", i+1, status)
		}
	}
}

func TestListFilters(t *testing.T) {
	srv, store := newThreadServer(t)
	seedThreads(t, store)

	status, body := do(t, http.MethodGet, srv.URL+"/thread?views=5", nil)
	if status != http.StatusOK {
		t.Fatalf("filtered list status = %d, want 200", status)
	}
	items := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("filtered list returned %d items, want 2", len(items))
	}
	for _, it := range items {
		if it.(map[string]any)["views"] != float64(5) {
			t.Errorf("filtered item has views = %v, want 5", it.(map[string]any)["views"])
		}
	}

	// Key-named parameters are not filters.
	status, body = do(t, http.MethodGet, srv.URL+"/thread?forum_name=general", nil)
	if status != http.StatusOK {
		t.Fatalf("list status = %d, want 200", status)
	}
	if got := len(body["items"].([]any)); got != 5 {
		t.Errorf("key-named filter narrowed the list to %d items, want all 5", got)
	}

	// A malformed filter value is the caller's error.
	status, _ = do(t, http.MethodGet, srv.URL+"/thread?views=many", nil)
	if status != http.StatusBadRequest {
		t.Errorf("bad filter status = %d, want 400", status)
	}
}

func TestListPagination(t *testing.T) {
	srv, store := newThreadServer(t)
	seedThreads(t, store)

	status, body := do(t, http.MethodGet, srv.URL+"/thread", nil)
	if status != http.StatusOK {
		t.Fatalf("unpaginated list status = %d", status)
	}
	all := subjectSet(t, body["items"].([]any))
	if len(all) != 5 {
		t.Fatalf("unpaginated list returned %d items, want 5", len(all))
	}
	if _, hasCursor := body["cursor"]; hasCursor {
		t.Error("unpaginated list returned a cursor")
	}

	// Walking the pages yields the same set, no duplicates, no omissions.
	paged := make(map[string]bool)
	url := srv.URL + "/thread?limit=2"
	for {
		status, body := do(t, http.MethodGet, url, nil)
		if status != http.StatusOK {
			t.Fatalf("paged list status = %d", status)
		}
		for s := range subjectSet(t, body["items"].([]any)) {
			if paged[s] {
				t.Errorf("subject %q appeared on two pages", s)
			}
			paged[s] = true
		}
		cursor, ok := body["cursor"].(string)
		if !ok || cursor == "" {
			break
		}
		url = srv.URL + "/thread?limit=2&cursor=" + cursor
	}

	if len(paged) != len(all) {
		t.Errorf("paged walk found %d items, unpaginated found %d", len(paged), len(all))
	}
	for s := range all {
		if !paged[s] {
			t.Errorf("paged walk omitted %q", s)
		}
	}
}

func TestListBadParams(t *testing.T) {
	srv, _ := newThreadServer(t)

	if status, _ := do(t, http.MethodGet, srv.URL+"/thread?limit=zero", nil); status != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", status)
	}
	if status, _ := do(t, http.MethodGet, srv.URL+"/thread?limit=-1", nil); status != http.StatusBadRequest {
		t.Errorf("negative limit status = %d, want 400", status)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	srv, _ := newThreadServer(t)

	status, body := do(t, http.MethodGet, srv.URL+"/thread/_schema", nil)
	if status != http.StatusOK {
		t.Fatalf("schema status = %d, want 200", status)
	}
	if body["name"] != "Thread" {
		t.Errorf("schema name = %v, want Thread", body["name"])
	}
	props, ok := body["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %v", body)
	}
	if _, ok := props["views"]; !ok {
		t.Error("schema properties missing views")
	}
}

func TestNewModelRejectsBadSchema(t *testing.T) {
	store := mock.New("Bad", schema.KeySchema{HashKey: "a"})

	_, err := resource.NewModel(schema.Model{
		Name: "Bad",
		Attributes: []schema.Attribute{
			{Name: "a", Kind: schema.String, HashKey: true},
			{Name: "b", Kind: schema.String, HashKey: true},
		},
	}, store, "/bad")
	if err == nil {
		t.Error("expected a schema error for two hash keys")
	}
}

func seedThreads(t *testing.T, store *mock.Store) {
	t.Helper()
	err := store.SetData([]datastore.Item{
		{"forum_name": "general", "subject": "a", "views": int64(5)},
		{"forum_name": "general", "subject": "b", "views": int64(3)},
		{"forum_name": "general", "subject": "c", "views": int64(5)},
		{"forum_name": "random", "subject": "d", "views": int64(0)},
		{"forum_name": "random", "subject": "e", "views": int64(1)},
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func subjectSet(t *testing.T, items []any) map[string]bool {
	t.Helper()
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it.(map[string]any)["subject"].(string)] = true
	}
	return set
}
