package request

import (
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL         = "/api"
	DefaultTimeout         = 10 * time.Second
	DefaultSuccessCode     = 200
	DefaultRequestIDHeader = "X-Request-Id"
)

// Config holds the settings shared by every call made through a Client.
// Per-call values in Call take precedence over these.
type Config struct {
	BaseURL string
	Headers http.Header
	Timeout time.Duration

	// SuccessCode is the envelope code that marks an application-level success.
	SuccessCode int

	// RequestIDHeader names the header carrying a fresh uuid per call.
	// Empty disables it.
	RequestIDHeader string
}

func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Headers: http.Header{
			"Content-Type": []string{"application/json"},
		},
		Timeout:         DefaultTimeout,
		SuccessCode:     DefaultSuccessCode,
		RequestIDHeader: DefaultRequestIDHeader,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()

	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Headers == nil {
		c.Headers = def.Headers
	} else {
		c.Headers = c.Headers.Clone()
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.SuccessCode == 0 {
		c.SuccessCode = def.SuccessCode
	}
	return c
}
