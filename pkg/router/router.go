// Package router is a small method-aware HTTP router with wildcard path
// segments and colorized request logging. Routes are matched in registration
// order, exact paths before wildcards, so more specific routes should be
// registered first.
package router

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type route struct {
	method  string
	pattern string
	handler HandlerFunc
}

type Router struct {
	mux    *http.ServeMux
	routes []route // matched in registration order
}

func New() *Router {
	r := &Router{mux: http.NewServeMux()}

	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		r.dispatch(lrw, req)

		duration := time.Since(start)
		log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
			colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
			methodColor(req.Method), req.Method, colorReset,
			req.URL.Path,
			statusColor(lrw.statusCode), lrw.statusCode, colorReset,
			colorBlue, duration, colorReset,
		)
	})

	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	pathKnown := false
	for _, rt := range r.routes {
		if !matchRoute(req.URL.Path, rt.pattern) {
			continue
		}
		pathKnown = true
		if rt.method == req.Method {
			rt.handler(w, req)
			return
		}
	}

	if pathKnown {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// matchRoute checks a request path against a route pattern. A "*" segment
// matches any single segment; a trailing "*" matches any number of
// remaining segments.
func matchRoute(requestPath, pattern string) bool {
	if requestPath == pattern {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(pattern, "/"), "/")

	if routeSegments[len(routeSegments)-1] == "*" {
		if len(requestSegments) < len(routeSegments)-1 {
			return false
		}
		for i := 0; i < len(routeSegments)-1; i++ {
			if routeSegments[i] != "*" && requestSegments[i] != routeSegments[i] {
				return false
			}
		}
		return true
	}

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, seg := range routeSegments {
		if seg == "*" {
			continue
		}
		if requestSegments[i] != seg {
			return false
		}
	}
	return true
}

// --- Register paths ---
func (r *Router) register(method, pattern string, handler HandlerFunc) {
	r.routes = append(r.routes, route{method: method, pattern: pattern, handler: handler})
}

func (r *Router) GET(pattern string, handler HandlerFunc)  { r.register(http.MethodGet, pattern, handler) }
func (r *Router) POST(pattern string, handler HandlerFunc) { r.register(http.MethodPost, pattern, handler) }
func (r *Router) PUT(pattern string, handler HandlerFunc)  { r.register(http.MethodPut, pattern, handler) }
func (r *Router) DELETE(pattern string, handler HandlerFunc) {
	r.register(http.MethodDelete, pattern, handler)
}

// Routes exposes registered (method, pattern) pairs for testing.
func (r *Router) Routes() []string {
	out := make([]string, len(r.routes))
	for i, rt := range r.routes {
		out[i] = rt.method + ":" + rt.pattern
	}
	return out
}

// Handler returns the router as a plain http.Handler.
func (r *Router) Handler() http.Handler {
	return r.mux
}

// --- Start server ---
func (r *Router) Start(addr string) error {
	log.Printf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
	return http.ListenAndServe(addr, r.mux)
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	case http.MethodPut:
		return colorYellow
	case http.MethodDelete:
		return colorRed
	default:
		return colorCyan
	}
}
