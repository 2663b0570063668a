/*
Package contract derives the field contract a resource operates through:
for every declared attribute, a (parse, serialize) codec pair selected by
the attribute's semantic kind.

Build resolves all codecs once, at resource construction time, so request
handling never dispatches on attribute kinds. The resulting Contract is
immutable and safe for concurrent use.

The one explicit behavioral guarantee is the timestamp contract: timestamp
fields accept ISO-8601 strings (and epoch-like values) on input and always
serialize as canonical RFC 3339 UTC strings with millisecond precision,
regardless of how the store represents them internally.

Defaults declared on attributes apply only when a create body omits the
field; reads never synthesize values.
*/
package contract
