package opencorp

import (
	"strings"
)

// Well-known query parameter names.
const (
	ParamTerm  = "q"
	ParamToken = "api_token"
	ParamPage  = "page"
)

type param struct {
	key   string
	value string
}

// Params is an ordered set of query parameters. Keys keep the order in which
// they were first set; setting an existing key replaces its value in place.
//
// Values are written to the URL verbatim. The only transformation applied is
// NormalizeTerm on the q parameter, so callers must pass URL-safe tokens.
type Params struct {
	items []param
}

// NewParams creates a parameter set from alternating key/value pairs.
// A trailing key without a value is ignored.
func NewParams(pairs ...string) *Params {
	params := &Params{}

	for i := 0; i+1 < len(pairs); i += 2 {
		params.Set(pairs[i], pairs[i+1])
	}

	return params
}

// Set adds or replaces a parameter.
func (p *Params) Set(key, value string) *Params {
	for i := range p.items {
		if p.items[i].key == key {
			p.items[i].value = value

			return p
		}
	}

	p.items = append(p.items, param{key: key, value: value})

	return p
}

// Get returns the value of a parameter, or "" when absent.
func (p *Params) Get(key string) string {
	value, _ := p.Lookup(key)

	return value
}

// Lookup returns the value of a parameter and whether it is present.
func (p *Params) Lookup(key string) (string, bool) {
	if p == nil {
		return "", false
	}

	for _, item := range p.items {
		if item.key == key {
			return item.value, true
		}
	}

	return "", false
}

// Has reports whether a parameter is present.
func (p *Params) Has(key string) bool {
	_, ok := p.Lookup(key)

	return ok
}

// Delete removes a parameter, keeping the order of the others.
func (p *Params) Delete(key string) *Params {
	for i := range p.items {
		if p.items[i].key == key {
			p.items = append(p.items[:i], p.items[i+1:]...)

			break
		}
	}

	return p
}

// Keys returns the parameter names in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}

	keys := make([]string, 0, len(p.items))
	for _, item := range p.items {
		keys = append(keys, item.key)
	}

	return keys
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}

	return len(p.items)
}

// Clone returns an independent copy. Cloning nil yields an empty set.
func (p *Params) Clone() *Params {
	clone := &Params{}
	if p == nil {
		return clone
	}

	clone.items = make([]param, len(p.items))
	copy(clone.items, p.items)

	return clone
}

// Merge sets every parameter of other on p, in other's order.
func (p *Params) Merge(other *Params) *Params {
	if other == nil {
		return p
	}

	for _, item := range other.items {
		p.Set(item.key, item.value)
	}

	return p
}

// Encode renders the parameters as key=value pairs joined by '&'.
func (p *Params) Encode() string {
	if p.Len() == 0 {
		return ""
	}

	var builder strings.Builder

	for i, item := range p.items {
		if i > 0 {
			builder.WriteByte('&')
		}

		builder.WriteString(item.key)
		builder.WriteByte('=')
		builder.WriteString(item.value)
	}

	return builder.String()
}

// NormalizeTerm applies the provider's search-term convention: lowercase,
// spaces replaced by '+'. Applying it twice gives the same result as once.
func NormalizeTerm(term string) string {
	return strings.ReplaceAll(strings.ToLower(term), " ", "+")
}
