/*
Package datastore defines the storage collaborator interface for dynarest
resources.

The main interface is Store, which provides the exact operation vocabulary
the resource layer needs: get/put/update/delete keyed by the table's key
schema, plus cursor-paginated Query and Scan. Items cross this boundary as
plain map[string]any values; the contract package owns all coercion to and
from the external JSON forms.

Implementations:
  - ddb: DynamoDB implementation built on aws-sdk-go-v2
  - mock: In-memory implementation with real key semantics for testing

Stores signal outcomes through the errors package taxonomy (ErrNotFound,
ErrAlreadyExists) so the resource layer can translate them to HTTP status
codes without inspecting store-specific error types.
*/
package datastore
