package server

import (
	"net/http"
	"slices"
	"strings"
	"sync"
)

// Router maps "METHOD path" routes, all under a common prefix, onto handlers.
//
// Middleware wraps the whole router, so it also sees requests that end in a 404 or 405.
type Router struct {
	prefix      string
	mux         *http.ServeMux
	middlewares []Middleware
	routes      []string

	once    sync.Once
	wrapped http.Handler
}

// NewRouter creates a [Router] whose routes live under prefix, e.g. "/api/v1".
func NewRouter(prefix string) *Router {
	return &Router{
		prefix: strings.TrimSuffix(prefix, "/"),
		mux:    http.NewServeMux(),
	}
}

// Use appends middleware. The first one added is the outermost.
//
// Middleware added after the first request has been served is ignored.
func (r *Router) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// HandleFunc registers fn for method and path, relative to the prefix.
func (r *Router) HandleFunc(method, path string, fn http.HandlerFunc) {
	route := strings.ToUpper(method) + " " + path
	r.routes = append(r.routes, route)
	r.mux.Handle(strings.ToUpper(method)+" "+r.prefix+path, fn)
}

// Routes lists the registered routes without the prefix, sorted.
func (r *Router) Routes() []string {
	routes := slices.Clone(r.routes)
	slices.Sort(routes)
	return routes
}

// Prefix returns the path prefix every route is served under.
func (r *Router) Prefix() string {
	return r.prefix
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.once.Do(func() {
		var h http.Handler = r.mux
		for i := len(r.middlewares) - 1; i >= 0; i-- {
			h = r.middlewares[i](h)
		}
		r.wrapped = h
	})
	r.wrapped.ServeHTTP(w, req)
}
