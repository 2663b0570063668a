/*
Package resource turns model and index descriptions into HTTP resources.

NewModel derives a full CRUD surface for a model: list and create on the
collection path, get/update/delete on the item path keyed by the model's
hash (and range) key, a schema document under _schema, and one read-only
query route per declared secondary index. NewIndex builds the index
surface on its own.

All request parsing and response shaping goes through a contract.Contract
built once per resource, so handlers stay free of per-kind logic. Handlers
validate before touching the store; store errors in the package taxonomy
map to 400/404/409 and anything else passes through as 500.

Resources do not register themselves anywhere. The factories return routes
and the caller mounts them, either directly on an http.ServeMux or via the
dynarest Registry.
*/
package resource
