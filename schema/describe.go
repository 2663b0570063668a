/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

// Describe produces a JSON-serializable schema document for an attribute
// list: an object schema with per-property types and the key attributes
// listed as required. The document mirrors what the contract package will
// accept and emit for the owning resource.
func Describe(attrs []Attribute) map[string]any {
	required := make([]string, 0, 2)
	properties := make(map[string]any, len(attrs))

	for _, a := range attrs {
		properties[a.Name] = a.describe()
		if a.HashKey || a.RangeKey {
			required = append(required, a.Name)
		}
	}

	return map[string]any{
		"type":       "object",
		"required":   required,
		"properties": properties,
	}
}

func (a Attribute) describe() map[string]any {
	doc := make(map[string]any, 3)
	switch a.Kind {
	case String:
		doc["type"] = "string"
	case Number:
		doc["type"] = "number"
	case Bool:
		doc["type"] = "boolean"
	case Binary:
		doc["type"] = "string"
		doc["format"] = "byte"
	case Timestamp:
		doc["type"] = "string"
		doc["format"] = "date-time"
	case StringSet:
		doc["type"] = "array"
		doc["items"] = map[string]any{"type": "string"}
	case NumberSet:
		doc["type"] = "array"
		doc["items"] = map[string]any{"type": "number"}
	case Map:
		doc["type"] = "object"
		if len(a.Fields) > 0 {
			doc["properties"] = Describe(a.Fields)["properties"]
		}
	case List:
		doc["type"] = "array"
		if len(a.Fields) > 0 {
			doc["items"] = a.Fields[0].describe()
		}
	}
	if a.Null {
		doc["nullable"] = true
	}
	if a.Default != nil {
		doc["default"] = a.Default
	}
	return doc
}

// Describe produces the model's schema document, including its indexes.
func (m Model) Describe() map[string]any {
	doc := Describe(m.Attributes)
	doc["name"] = m.Name
	if len(m.Indexes) > 0 {
		indexes := make(map[string]any, len(m.Indexes))
		for _, ix := range m.Indexes {
			indexes[ix.Name] = ix.Describe()
		}
		doc["indexes"] = indexes
	}
	return doc
}

// Describe produces the index's schema document.
func (ix Index) Describe() map[string]any {
	doc := Describe(ix.Attributes)
	doc["name"] = ix.Name
	return doc
}
