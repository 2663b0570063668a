/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package contract

import (
	"fmt"

	"github.com/suparena/dynarest/errors"
	"github.com/suparena/dynarest/schema"
)

// Contract is the derived field contract for one resource: a per-attribute
// codec table, the key-field subset, and the write-time defaults. It is
// built once at resource construction time and never mutated afterwards.
type Contract struct {
	owner    string
	keys     schema.KeySchema
	order    []string
	attrs    map[string]schema.Attribute
	codecs   map[string]Codec
	defaults map[string]any
}

// Build derives a Contract from an attribute list. It fails with a
// SchemaError when the attributes violate the schema invariants (duplicate
// names, zero or multiple hash keys, undeclarable defaults). The owner name
// appears in error messages only.
func Build(owner string, attrs []schema.Attribute) (*Contract, error) {
	keys, err := schema.Keys(owner, attrs)
	if err != nil {
		return nil, err
	}

	c := &Contract{
		owner:    owner,
		keys:     keys,
		order:    make([]string, 0, len(attrs)),
		attrs:    make(map[string]schema.Attribute, len(attrs)),
		codecs:   make(map[string]Codec, len(attrs)),
		defaults: make(map[string]any),
	}

	for _, attr := range attrs {
		codec, err := codecFor(attr)
		if err != nil {
			return nil, errors.NewSchemaError(owner, fmt.Sprintf("attribute %q: %v", attr.Name, err))
		}
		c.order = append(c.order, attr.Name)
		c.attrs[attr.Name] = attr
		c.codecs[attr.Name] = codec

		if attr.Default != nil {
			parsed, err := codec.Parse(attr.Default)
			if err != nil {
				return nil, errors.NewSchemaError(owner, fmt.Sprintf("attribute %q has invalid default: %v", attr.Name, err))
			}
			c.defaults[attr.Name] = parsed
		}
	}

	return c, nil
}

// Keys returns the derived key schema.
func (c *Contract) Keys() schema.KeySchema { return c.keys }

// Names returns the declared attribute names in declaration order.
func (c *Contract) Names() []string { return c.order }

// Has reports whether name is a declared attribute.
func (c *Contract) Has(name string) bool {
	_, ok := c.attrs[name]
	return ok
}

// IsKey reports whether name is the hash or range key.
func (c *Contract) IsKey(name string) bool {
	return name == c.keys.HashKey || (c.keys.RangeKey != "" && name == c.keys.RangeKey)
}

// ParseField coerces a single request value through the attribute's parse
// rule. Unknown fields and coercion failures return a field-level
// ValidationError.
func (c *Contract) ParseField(name string, v any) (any, error) {
	attr, ok := c.attrs[name]
	if !ok {
		return nil, errors.NewValidationError(name, "unknown field")
	}
	if v == nil {
		if attr.Null {
			return nil, nil
		}
		return nil, errors.NewValidationError(name, "null is not allowed")
	}
	parsed, err := c.codecs[name].Parse(v)
	if err != nil {
		return nil, errors.NewValidationError(name, err.Error())
	}
	return parsed, nil
}

// ParseCreate validates a full create body: every present field is parsed,
// declared defaults fill absent non-key fields, and both key fields must be
// present. Validation happens entirely before any store call.
func (c *Contract) ParseCreate(body map[string]any) (map[string]any, error) {
	item, err := c.parsePresent(body)
	if err != nil {
		return nil, err
	}

	for name, def := range c.defaults {
		if _, present := item[name]; !present && !c.IsKey(name) {
			item[name] = def
		}
	}

	if _, present := item[c.keys.HashKey]; !present {
		return nil, errors.NewValidationError(c.keys.HashKey, "required key field is missing")
	}
	if c.keys.RangeKey != "" {
		if _, present := item[c.keys.RangeKey]; !present {
			return nil, errors.NewValidationError(c.keys.RangeKey, "required key field is missing")
		}
	}
	return item, nil
}

// ParseUpdate validates a partial update body: only the present fields are
// parsed. Set, map and list fields replace the stored value wholesale when
// present; no deep merge is attempted.
func (c *Contract) ParseUpdate(body map[string]any) (map[string]any, error) {
	return c.parsePresent(body)
}

func (c *Contract) parsePresent(body map[string]any) (map[string]any, error) {
	item := make(map[string]any, len(body))
	for name, v := range body {
		parsed, err := c.ParseField(name, v)
		if err != nil {
			return nil, err
		}
		item[name] = parsed
	}
	return item, nil
}

// Serialize converts a stored item into its external JSON form. Only
// declared attributes appear in the output, which is what restricts an
// index resource's responses to the index's projected attribute subset.
func (c *Contract) Serialize(item map[string]any) map[string]any {
	out := make(map[string]any, len(c.order))
	for _, name := range c.order {
		v, present := item[name]
		if !present {
			continue
		}
		if v == nil {
			out[name] = nil
			continue
		}
		out[name] = c.codecs[name].Serialize(v)
	}
	return out
}

// SerializeAll maps Serialize over a page of items.
func (c *Contract) SerializeAll(items []map[string]any) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, item := range items {
		out[i] = c.Serialize(item)
	}
	return out
}
