package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// ShadowAliasSuffix is appended to the canonical alias on the shadow index.
const ShadowAliasSuffix = "2"

const aliasesKey = "aliases"

// Mapping is an index creation body ("aliases", "mappings", "settings").
// It is immutable: every derivation returns a new Mapping and the wrapped
// document is never shared with callers.
type Mapping struct {
	doc map[string]any
}

// ParseMapping decodes a JSON object into a Mapping.
func ParseMapping(data []byte) (Mapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return Mapping{}, fmt.Errorf("parse mapping: %w", err)
	}
	if doc == nil {
		return Mapping{}, fmt.Errorf("parse mapping: document is not a JSON object")
	}

	return Mapping{doc: doc}, nil
}

// Raw returns a deep copy of the underlying document.
func (m Mapping) Raw() map[string]any {
	return deepCopyObject(m.doc)
}

// IsZero reports whether the mapping holds no keys.
func (m Mapping) IsZero() bool {
	return len(m.doc) == 0
}

// Aliases returns the alias names declared by the mapping.
func (m Mapping) Aliases() []string {
	aliases, _ := m.doc[aliasesKey].(map[string]any)
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	return names
}

// HasAlias reports whether alias is declared.
func (m Mapping) HasAlias(alias string) bool {
	aliases, _ := m.doc[aliasesKey].(map[string]any)
	_, ok := aliases[alias]
	return ok
}

// WithoutAlias returns a copy with alias removed.
func (m Mapping) WithoutAlias(alias string) Mapping {
	doc := deepCopyObject(m.doc)
	if aliases, ok := doc[aliasesKey].(map[string]any); ok {
		delete(aliases, alias)
	}
	return Mapping{doc: doc}
}

// WithAlias returns a copy declaring alias with an empty configuration,
// creating the aliases object when absent.
func (m Mapping) WithAlias(alias string) Mapping {
	doc := deepCopyObject(m.doc)
	if doc == nil {
		doc = map[string]any{}
	}
	aliases, ok := doc[aliasesKey].(map[string]any)
	if !ok {
		aliases = map[string]any{}
		doc[aliasesKey] = aliases
	}
	aliases[alias] = map[string]any{}
	return Mapping{doc: doc}
}

// MarshalJSON encodes the mapping; a zero Mapping encodes as {}.
func (m Mapping) MarshalJSON() ([]byte, error) {
	if m.doc == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.doc)
}

// Pretty returns indented JSON for display.
func (m Mapping) Pretty() string {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Sprintf("<unprintable mapping: %v>", err)
	}
	return string(data)
}

func deepCopyObject(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyObject(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopyValue(item)
		}
		return out
	case map[string]string:
		return maps.Clone(t)
	default:
		return v
	}
}
