package rendering

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ParameterMap is an insertion-ordered string map of route captures and row
// values. The zero value is ready to use.
type ParameterMap struct {
	entries *orderedmap.OrderedMap[string, string]
}

// NewParameterMap builds a map from alternating key, value pairs.
func NewParameterMap(pairs ...string) *ParameterMap {
	p := &ParameterMap{}
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Set(pairs[i], pairs[i+1])
	}
	return p
}

func (p *ParameterMap) ordered() *orderedmap.OrderedMap[string, string] {
	if p.entries == nil {
		p.entries = orderedmap.New[string, string]()
	}
	return p.entries
}

// Set stores value under key. Existing keys keep their position.
func (p *ParameterMap) Set(key, value string) {
	p.ordered().Set(key, value)
}

// Get returns the value for key.
func (p *ParameterMap) Get(key string) (string, bool) {
	if p == nil || p.entries == nil {
		return "", false
	}
	return p.entries.Get(key)
}

// Keys returns keys in insertion order.
func (p *ParameterMap) Keys() []string {
	if p.Len() == 0 {
		return nil
	}
	keys := make([]string, 0, p.entries.Len())
	for pair := p.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len is the number of entries.
func (p *ParameterMap) Len() int {
	if p == nil || p.entries == nil {
		return 0
	}
	return p.entries.Len()
}

// Clone returns an independent copy.
func (p *ParameterMap) Clone() *ParameterMap {
	return (&ParameterMap{}).Merge(p)
}

// Merge returns a copy of p with other's entries applied on top.
func (p *ParameterMap) Merge(other *ParameterMap) *ParameterMap {
	out := &ParameterMap{}
	for _, src := range []*ParameterMap{p, other} {
		if src.Len() == 0 {
			continue
		}
		for pair := src.entries.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, pair.Value)
		}
	}
	return out
}

// ToMap returns a plain map copy.
func (p *ParameterMap) ToMap() map[string]string {
	out := make(map[string]string, p.Len())
	if p.Len() == 0 {
		return out
	}
	for pair := p.entries.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// MarshalJSON writes the entries as an object in insertion order.
func (p *ParameterMap) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return p.ordered().MarshalJSON()
}
