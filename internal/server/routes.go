package server

import (
	"net/http"
	"strings"
)

// RouteDoc describes one registered endpoint for the /api/routes listing.
type RouteDoc struct {
	Method      string `json:"method"`
	Pattern     string `json:"pattern"`
	Summary     string `json:"summary,omitempty"`
	ExampleBody string `json:"example_body,omitempty"`
}

// RouteRegistry collects docs for every endpoint registered through Handle.
type RouteRegistry struct {
	routes []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.routes = append(rr.routes, doc)
}

func (rr *RouteRegistry) List() []RouteDoc {
	out := make([]RouteDoc, len(rr.routes))
	copy(out, rr.routes)
	return out
}

// Handle registers the handler on mux and records it in the registry.
// methodAndPattern uses the "METHOD /path" mux syntax.
func Handle(mux *http.ServeMux, rr *RouteRegistry, methodAndPattern, summary, exampleBody string, h http.HandlerFunc) {
	parts := strings.SplitN(methodAndPattern, " ", 2)
	method, pattern := parts[0], ""
	if len(parts) == 2 {
		pattern = parts[1]
	}
	rr.Add(RouteDoc{Method: method, Pattern: pattern, Summary: summary, ExampleBody: exampleBody})
	mux.HandleFunc(methodAndPattern, h)
}
