/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resource

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/suparena/dynarest/errors"
)

// writeJSON writes v as a JSON response with the given status. Encode
// failures after the header is written cannot be reported to the client.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error onto the response taxonomy. Validation and
// schema errors are the caller's fault (400), missing items are 404,
// duplicate creates are 409. Store failures outside the taxonomy pass
// through unmasked as 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsValidationError(err), errors.IsSchemaError(err):
		status = http.StatusBadRequest
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsAlreadyExists(err):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeBody reads the request body as a JSON object.
func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errors.NewValidationError("body", fmt.Sprintf("invalid JSON object: %v", err))
	}
	return body, nil
}

// pageParams extracts the limit and cursor query parameters.
func pageParams(r *http.Request) (int32, string, error) {
	cursor := r.URL.Query().Get("cursor")
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, cursor, nil
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit < 1 {
		return 0, "", errors.NewValidationError("limit", fmt.Sprintf("must be a positive integer, got %q", raw))
	}
	return int32(limit), cursor, nil
}
