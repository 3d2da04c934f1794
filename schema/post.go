package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Post is a single search result with its fields kept in the order the API returned them.
type Post struct {
	fields *orderedmap.OrderedMap[string, any]
}

// NewPost returns an empty post.
func NewPost() Post {
	return Post{fields: orderedmap.New[string, any]()}
}

// Set adds or replaces a field, keeping the original position of existing keys.
func (p *Post) Set(key string, value any) {
	if p.fields == nil {
		p.fields = orderedmap.New[string, any]()
	}
	p.fields.Set(key, value)
}

// Get returns the value stored under key.
func (p Post) Get(key string) (any, bool) {
	if p.fields == nil {
		return nil, false
	}
	return p.fields.Get(key)
}

// Keys returns the field names in their original order.
func (p Post) Keys() []string {
	if p.fields == nil {
		return nil
	}
	keys := make([]string, 0, p.fields.Len())
	for pair := p.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of fields.
func (p Post) Len() int {
	if p.fields == nil {
		return 0
	}
	return p.fields.Len()
}

// UnmarshalJSON decodes a JSON object while preserving key order.
// Numbers are kept as json.Number so large identifiers survive unchanged.
func (p *Post) UnmarshalJSON(data []byte) error {
	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, raw); err != nil {
		return err
	}
	fields := orderedmap.New[string, any]()
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		dec := json.NewDecoder(bytes.NewReader(pair.Value))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("field %q: %w", pair.Key, err)
		}
		fields.Set(pair.Key, v)
	}
	p.fields = fields
	return nil
}

// MarshalJSON encodes the post with its original key order.
func (p Post) MarshalJSON() ([]byte, error) {
	if p.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.fields)
}

// PostColumns returns the union of keys across posts in first-seen order.
func PostColumns(posts []Post) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, p := range posts {
		for _, k := range p.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}
