package oauthmodel

import (
	"net/http"
	"slices"
)

// ApplyParameters appends the custom parameters to p. A custom parameter never
// replaces a standard one that is already present, and names listed in reserved
// are never added.
func (c CustomPhase) ApplyParameters(p *Params, reserved ...string) {
	appendMissing(p, c.Parameters, reserved)
}

// ApplyBody appends the custom body values to the end of the form body.
func (c CustomPhase) ApplyBody(p *Params) {
	for _, param := range c.Body {
		if param.Name == "" {
			continue
		}
		p.Add(param.Name, param.Value)
	}
}

// ApplyHeaders sets the custom headers. They are applied after the standard
// headers and therefore override them.
func (c CustomPhase) ApplyHeaders(h http.Header) {
	for _, header := range c.Headers {
		if header.Name == "" {
			continue
		}
		h.Set(header.Name, header.Value)
	}
}

func appendMissing(p *Params, custom Params, reserved []string) {
	for _, param := range custom {
		if param.Name == "" || p.Has(param.Name) || slices.Contains(reserved, param.Name) {
			continue
		}
		p.Add(param.Name, param.Value)
	}
}
