/*
Package ddb provides a DynamoDB implementation of the datastore.Store
interface.

The Store supports:
  - Get/put/update/delete keyed by the table's hash and range keys
  - Conditional writes: create fails on existing keys, update fails on
    missing keys, delete is idempotent
  - Query against the primary key or a Global Secondary Index (GSI)
  - Equality filter expressions built with the expression package
  - Stateless cursor pagination: LastEvaluatedKey is exchanged with
    clients as an opaque base64 token

Items cross the package boundary as map[string]any and are converted with
the attributevalue package. Merge-style updates are expressed as a SET
update expression built from the changed fields only, so unmentioned
attributes keep their stored values.

Integration tests against a real table are gated behind the integration
build tag and configured via .env (see dynamodb_integration_test.go).
*/
package ddb
