package server

import (
	"net/http"
	"slices"
	"strings"
	"sync"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [http.ServeMux] internally for path matching and dispatches on method itself, so one path may carry
// several methods. OPTIONS requests to a registered path are answered with 200 and an Allow header.
type BasicRouter struct {
	mu          sync.Mutex
	mux         *http.ServeMux
	middlewares []Middleware
	methods     map[string]map[string]http.Handler
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
		methods:     map[string]map[string]http.Handler{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
//
// Only handlers registered after the call are wrapped.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
//
// The handler is wrapped with all registered middleware.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	method = strings.ToUpper(method)
	byMethod, ok := r.methods[path]
	if !ok {
		byMethod = map[string]http.Handler{}
		r.methods[path] = byMethod
		r.mux.Handle(path, r.dispatch(path))
	}
	byMethod[method] = r.Apply(handler)
}

// HandleFunc registers fn for the specified HTTP method and path.
func (r *BasicRouter) HandleFunc(method, path string, fn http.HandlerFunc) {
	r.Handle(method, path, fn)
}

func (r *BasicRouter) dispatch(path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		handler, ok := r.methods[path][strings.ToUpper(req.Method)]
		allowed := r.allowed(path)
		r.mu.Unlock()

		if ok {
			handler.ServeHTTP(w, req)
			return
		}

		w.Header().Set("Allow", allowed)
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
}

func (r *BasicRouter) allowed(path string) string {
	methods := make([]string, 0, len(r.methods[path])+1)
	for m := range r.methods[path] {
		methods = append(methods, m)
	}
	methods = append(methods, http.MethodOptions)
	slices.Sort(methods)
	return strings.Join(methods, ", ")
}

// Handler registers a custom Handler implementation for every method.
//
// All routes returned by [Handler.Routes] are registered with this handler.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
