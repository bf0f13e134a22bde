package config

import (
	"strings"
	"time"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	// Used for accept links and tracking pixels in outbound job invitations.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000" validate:"required,http_url"`

	// StreamHeartbeat is the interval between keep-alive comments on SLA event streams.
	StreamHeartbeat time.Duration `env:"HTTP_STREAM_HEARTBEAT" envDefault:"25s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.BaseURL = strings.TrimRight(strings.TrimSpace(h.BaseURL), "/")
	if h.StreamHeartbeat < time.Second {
		h.StreamHeartbeat = time.Second
	}
}
