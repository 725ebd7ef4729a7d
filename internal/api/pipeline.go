package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/seantiz/catsapi/internal/deadline"
)

// Endpoint is a controller method: it turns a request into a result or an
// error without touching the response writer.
type Endpoint func(r *http.Request) (any, error)

// Interceptor decorates an Endpoint with cross-cutting behaviour.
type Interceptor func(Endpoint) Endpoint

// chain applies interceptors so that the first one listed runs outermost.
func chain(ep Endpoint, interceptors ...Interceptor) Endpoint {
	for i := len(interceptors) - 1; i >= 0; i-- {
		ep = interceptors[i](ep)
	}
	return ep
}

// handle adapts an intercepted Endpoint to net/http. Results are written as
// JSON with the given status; errors go through the exception filter.
func (s *Server) handle(status int, ep Endpoint, interceptors ...Interceptor) http.HandlerFunc {
	ep = chain(ep, interceptors...)
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := ep(r)
		if err != nil {
			s.writeException(w, r, err)
			return
		}
		s.writeJSON(w, status, result)
	}
}

// timeoutInterceptor bounds the wrapped endpoint with the server deadline.
// The endpoint only produces a value, so a result arriving after the
// deadline is dropped without ever reaching the response writer.
func (s *Server) timeoutInterceptor() Interceptor {
	return func(next Endpoint) Endpoint {
		return func(r *http.Request) (any, error) {
			return deadline.Call(r.Context(), s.deadline, func(ctx context.Context) (any, error) {
				return next(r.WithContext(ctx))
			})
		}
	}
}

// envelope is the response shape produced by transformInterceptor.
type envelope struct {
	Data any `json:"data"`
}

// transformInterceptor wraps successful results as {"data": ...}.
func transformInterceptor(next Endpoint) Endpoint {
	return func(r *http.Request) (any, error) {
		v, err := next(r)
		if err != nil {
			return nil, err
		}
		return envelope{Data: v}, nil
	}
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
