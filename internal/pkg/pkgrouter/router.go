package pkgrouter

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Handler returns a payload that is wrapped in the JSON envelope, or an
// error that is rendered by encodeError.
type Handler func(ctx context.Context, r *http.Request) (any, error)

// Router wraps httprouter with a fixed middleware stack and the JSON codecs.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// NewRouter installs recover, correlation ID and logging middleware, plus
// the "/" and "/health" endpoints. The root endpoint greets with service.
func NewRouter(uuid Generator, service string) *Router {
	hr := httprouter.New()
	hr.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, "endpoint not found", http.StatusNotFound)
	})
	hr.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	ro := &Router{
		hr:  hr,
		mws: []Middleware{middlewareRecoverer, middlewareCorrelationID(uuid), middlewareLogging},
	}

	greeting := "hi from " + service
	ro.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, greeting, http.StatusOK)
	}))
	ro.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, "server is running well", http.StatusOK)
	}))

	return ro
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

// Handle registers a raw handler behind the router's middleware and mws.
func (r *Router) Handle(method, path string, h http.Handler, mws ...Middleware) {
	stack := append([]Middleware{withRoute(path)}, r.mws...)
	r.hr.Handler(method, path, Chain(h, append(stack, mws...)...))
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.Handle(method, path, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(req.Context(), req)
		if err != nil {
			encodeError(req.Context(), w, err)
			return
		}
		encodeSuccess(req.Context(), w, resp)
	}), mws...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}
