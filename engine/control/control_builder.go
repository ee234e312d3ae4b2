package control

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// ServerBuilderOption is a functional option for configuring a Server via NewServer.
type ServerBuilderOption func(*serverImpl)

// WithAddr sets the listen address. Defaults to DefaultAddr.
//
// Parameters:
//   - addr: a host:port pair
//
// Returns:
//   - ServerBuilderOption: a function that applies the address option to a server
func WithAddr(addr string) ServerBuilderOption {
	return func(s *serverImpl) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithAllowedOrigins lets pages served from other origins open the WebSocket. The panel served by the
// server itself is always accepted.
//
// Parameters:
//   - origins: accepted values of the Origin header, e.g. "http://localhost:3000"
//
// Returns:
//   - ServerBuilderOption: a function that applies the origin option to a server
func WithAllowedOrigins(origins ...string) ServerBuilderOption {
	return func(s *serverImpl) {
		if len(origins) == 0 {
			return
		}
		allowed := slices.Clone(origins)
		s.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(allowed, origin) {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		}
	}
}

// WithShutdownTimeout bounds how long ListenAndServe waits for in-flight requests when its context ends.
//
// Parameters:
//   - d: the shutdown timeout
//
// Returns:
//   - ServerBuilderOption: a function that applies the timeout option to a server
func WithShutdownTimeout(d time.Duration) ServerBuilderOption {
	return func(s *serverImpl) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}
