package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/graft/pkg/island"
)

// ServerConfig holds the live server configuration.
type ServerConfig struct {
	// Address is the address to listen on (e.g., ":7070").
	// Default: ":7070".
	Address string

	// LivePath is the websocket endpoint.
	// Default: "/live".
	LivePath string

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// MaxDocumentBytes bounds the size of a tree document in a request body
	// or websocket message.
	// Default: 1MB.
	MaxDocumentBytes int64

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// Namespace prefixes every metric.
	// Default: "graft".
	Namespace string

	// Registry receives the server and reconciler metrics and backs
	// /metrics. Default: a fresh registry per server.
	Registry *prometheus.Registry

	// Islands are the island definitions documents may use.
	// Default: island.Builtins().
	Islands map[string]*island.Definition
}

// DefaultServerConfig returns a ServerConfig with the defaults filled in.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:          ":7070",
		LivePath:         "/live",
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		CheckOrigin:      SameOriginCheck,
		MaxDocumentBytes: 1 << 20,
		ShutdownTimeout:  10 * time.Second,
		Namespace:        "graft",
		Islands:          island.Builtins(),
	}
}

// withDefaults returns a copy of c with every unset field defaulted.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.LivePath == "" {
		out.LivePath = defaults.LivePath
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.MaxDocumentBytes == 0 {
		out.MaxDocumentBytes = defaults.MaxDocumentBytes
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.Namespace == "" {
		out.Namespace = defaults.Namespace
	}
	if out.Islands == nil {
		out.Islands = defaults.Islands
	}
	return &out
}

// SameOriginCheck validates that the WebSocket request origin matches the host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}
