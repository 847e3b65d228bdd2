package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CookieSecure marks session cookies Secure; disable only for local dev.
	CookieSecure bool `env:"APP_COOKIE_SECURE" envDefault:"true"`

	// ReadHeaderTimeoutSeconds bounds how long the server waits for request headers.
	ReadHeaderTimeoutSeconds int `env:"HTTP_READ_HEADER_TIMEOUT_SECONDS" envDefault:"10"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.ReadHeaderTimeoutSeconds < 1 {
		h.ReadHeaderTimeoutSeconds = 1
	}
}
