package oauthmodel

import (
	"fmt"
	"net/url"
	"strings"
)

// Param is a single name/value pair of a query string, form body or header list.
type Param struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Params is an ordered list of parameters. Unlike url.Values it keeps insertion
// order, which matters for servers that are picky about the position of grant_type.
type Params []Param

// Add appends a parameter.
func (p *Params) Add(name, value string) {
	*p = append(*p, Param{Name: name, Value: value})
}

// AddIfSet appends a parameter only when value is not empty.
func (p *Params) AddIfSet(name, value string) {
	if value == "" {
		return
	}
	p.Add(name, value)
}

// Get returns the first value stored under name.
func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// Value returns the first value stored under name or an empty string.
func (p Params) Value(name string) string {
	v, _ := p.Get(name)
	return v
}

// Has reports whether name is present.
func (p Params) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Names returns the parameter names in order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for _, param := range p {
		names = append(names, param.Name)
	}
	return names
}

// Encode serializes the list as application/x-www-form-urlencoded.
func (p Params) Encode() string {
	return p.encode(url.QueryEscape)
}

// EncodeQuery serializes the list for a URL query string. Spaces become %20 so a
// space joined scope travels as one percent-encoded value.
func (p Params) EncodeQuery() string {
	return p.encode(escapeQueryValue)
}

func (p Params) encode(escape func(string) string) string {
	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(param.Name))
		sb.WriteByte('=')
		sb.WriteString(escape(param.Value))
	}
	return sb.String()
}

func escapeQueryValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// AppendToURL adds the encoded parameters to the query string of base,
// keeping any query the base URL already has.
func AppendToURL(base string, p Params) string {
	if len(p) == 0 {
		return base
	}
	encoded := p.EncodeQuery()
	switch {
	case !strings.Contains(base, "?"):
		return base + "?" + encoded
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		return base + encoded
	default:
		return base + "&" + encoded
	}
}

// ParseParams decodes a form encoded string (a query string, a URL fragment or a
// token response body) into an ordered list. A leading '?' or '#' is ignored.
func ParseParams(raw string) (Params, error) {
	raw = strings.TrimLeft(raw, "?#")
	params := Params{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		decodedName, err := url.QueryUnescape(name)
		if err != nil {
			return nil, fmt.Errorf("[ParseParams] invalid parameter name %q: %w", name, err)
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("[ParseParams] invalid value for %q: %w", decodedName, err)
		}
		params.Add(decodedName, decodedValue)
	}
	return params, nil
}
