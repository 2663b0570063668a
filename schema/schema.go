/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"fmt"

	"github.com/suparena/dynarest/errors"
)

// Kind identifies the semantic type of an attribute. It determines which
// parse/serialize rules the contract package binds to the attribute.
type Kind string

const (
	String    Kind = "string"
	Number    Kind = "number"
	Bool      Kind = "boolean"
	Binary    Kind = "binary"
	Timestamp Kind = "timestamp"
	StringSet Kind = "string-set"
	NumberSet Kind = "number-set"
	Map       Kind = "map"
	List      Kind = "list"
)

// Valid reports whether k is a known attribute kind.
func (k Kind) Valid() bool {
	switch k {
	case String, Number, Bool, Binary, Timestamp, StringSet, NumberSet, Map, List:
		return true
	}
	return false
}

// keyable reports whether k may be used as a hash or range key.
func (k Kind) keyable() bool {
	switch k {
	case String, Number, Binary, Timestamp:
		return true
	}
	return false
}

// Attribute describes a single declared attribute of a model or index.
// Attributes are immutable once declared; the resource factories never
// modify them.
type Attribute struct {
	// Name is the attribute name, unique within its owner.
	Name string `yaml:"name" json:"name"`
	// Kind is the semantic type of the attribute.
	Kind Kind `yaml:"kind" json:"kind"`
	// HashKey marks the attribute as the partition key.
	HashKey bool `yaml:"hashKey,omitempty" json:"hashKey,omitempty"`
	// RangeKey marks the attribute as the sort key.
	RangeKey bool `yaml:"rangeKey,omitempty" json:"rangeKey,omitempty"`
	// Null permits an explicit JSON null for this attribute.
	Null bool `yaml:"null,omitempty" json:"null,omitempty"`
	// Default is applied at write time when the field is absent from a
	// create request body. Never applied on reads.
	Default any `yaml:"default,omitempty" json:"default,omitempty"`
	// Fields optionally declares nested attributes for Map kinds, or a
	// single element descriptor for List kinds. When empty, nested values
	// pass through as opaque JSON.
	Fields []Attribute `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Index describes a secondary index: an alternate key schema over a
// projected subset of a model's attributes. Indexes are read-only views.
type Index struct {
	Name       string      `yaml:"name" json:"name"`
	Attributes []Attribute `yaml:"attributes" json:"attributes"`
}

// Model describes a table-backed data model: its name, ordered attributes
// and zero or more secondary indexes.
type Model struct {
	Name       string      `yaml:"name" json:"name"`
	Attributes []Attribute `yaml:"attributes" json:"attributes"`
	Indexes    []Index     `yaml:"indexes,omitempty" json:"indexes,omitempty"`
}

// KeySchema is the derived key layout of a model or index: exactly one hash
// key and at most one range key.
type KeySchema struct {
	HashKey  string
	RangeKey string // empty when no range key is declared
}

// Keys derives the KeySchema from an attribute list, enforcing the schema
// invariants: unique names, exactly one hash key, at most one range key,
// and key attributes of a scalar kind. The owner name is used in error
// messages only.
func Keys(owner string, attrs []Attribute) (KeySchema, error) {
	var ks KeySchema
	if len(attrs) == 0 {
		return ks, errors.NewSchemaError(owner, "no attributes declared")
	}

	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if a.Name == "" {
			return ks, errors.NewSchemaError(owner, "attribute with empty name")
		}
		if !a.Kind.Valid() {
			return ks, errors.NewSchemaError(owner, fmt.Sprintf("attribute %q has unknown kind %q", a.Name, a.Kind))
		}
		if seen[a.Name] {
			return ks, errors.NewSchemaError(owner, fmt.Sprintf("duplicate attribute name %q", a.Name))
		}
		seen[a.Name] = true

		if a.HashKey && a.RangeKey {
			return ks, errors.NewSchemaError(owner, fmt.Sprintf("attribute %q is both hash and range key", a.Name))
		}
		if (a.HashKey || a.RangeKey) && !a.Kind.keyable() {
			return ks, errors.NewSchemaError(owner, fmt.Sprintf("attribute %q of kind %q cannot be a key", a.Name, a.Kind))
		}
		if a.HashKey {
			if ks.HashKey != "" {
				return ks, errors.NewSchemaError(owner, "more than one hash key declared")
			}
			ks.HashKey = a.Name
		}
		if a.RangeKey {
			if ks.RangeKey != "" {
				return ks, errors.NewSchemaError(owner, "more than one range key declared")
			}
			ks.RangeKey = a.Name
		}
	}

	if ks.HashKey == "" {
		return ks, errors.NewSchemaError(owner, "no hash key declared")
	}
	return ks, nil
}

// Keys derives the model's primary key schema.
func (m Model) Keys() (KeySchema, error) {
	return Keys(m.Name, m.Attributes)
}

// Keys derives the index's key schema.
func (ix Index) Keys() (KeySchema, error) {
	return Keys(ix.Name, ix.Attributes)
}

// Validate checks the model description and all of its index descriptions.
func (m Model) Validate() error {
	if m.Name == "" {
		return errors.NewSchemaError("", "model with empty name")
	}
	if _, err := m.Keys(); err != nil {
		return err
	}

	declared := make(map[string]Kind, len(m.Attributes))
	for _, a := range m.Attributes {
		declared[a.Name] = a.Kind
	}

	seen := make(map[string]bool, len(m.Indexes))
	for _, ix := range m.Indexes {
		if ix.Name == "" {
			return errors.NewSchemaError(m.Name, "index with empty name")
		}
		if seen[ix.Name] {
			return errors.NewSchemaError(m.Name, fmt.Sprintf("duplicate index name %q", ix.Name))
		}
		seen[ix.Name] = true

		if _, err := ix.Keys(); err != nil {
			return err
		}
		// Index projections must be drawn from the model's attributes.
		for _, a := range ix.Attributes {
			kind, ok := declared[a.Name]
			if !ok {
				return errors.NewSchemaError(ix.Name, fmt.Sprintf("attribute %q not declared on model %q", a.Name, m.Name))
			}
			if kind != a.Kind {
				return errors.NewSchemaError(ix.Name, fmt.Sprintf("attribute %q kind %q differs from model kind %q", a.Name, a.Kind, kind))
			}
		}
	}
	return nil
}

// Validate checks the index description in isolation.
func (ix Index) Validate() error {
	if ix.Name == "" {
		return errors.NewSchemaError("", "index with empty name")
	}
	_, err := ix.Keys()
	return err
}
