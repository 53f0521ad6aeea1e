package gateway

import (
	"net/http"
	"strings"
)

// HeaderConfig is the source of the upstream header set.
type HeaderConfig struct {
	// APIKey is the resolved upstream API key.
	APIKey string

	// APIKeyHeader is the header carrying APIKey (e.g. "0x-api-key").
	APIKeyHeader string

	// APIVersion is the fixed upstream API version (e.g. "v2").
	APIVersion string

	// APIVersionHeader is the header carrying APIVersion (e.g. "0x-version").
	APIVersionHeader string
}

// UpstreamHeaders is the immutable header set attached to every upstream call.
type UpstreamHeaders struct {
	header http.Header
}

// NewUpstreamHeaders builds the upstream header set. A missing API key is a
// ConfigurationError.
func NewUpstreamHeaders(cfg HeaderConfig) (*UpstreamHeaders, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, &ConfigurationError{Field: "upstream.api_key", Message: "upstream API key is not set"}
	}
	if strings.HasPrefix(key, "${secret:") {
		return nil, &ConfigurationError{Field: "upstream.api_key", Message: "secret reference was not resolved"}
	}
	if cfg.APIKeyHeader == "" {
		return nil, &ConfigurationError{Field: "upstream.api_key_header", Message: "header name is not set"}
	}
	if cfg.APIVersion == "" || cfg.APIVersionHeader == "" {
		return nil, &ConfigurationError{Field: "upstream.api_version", Message: "API version and its header are required"}
	}

	h := make(http.Header, 3)
	h.Set("Content-Type", "application/json")
	h.Set(cfg.APIKeyHeader, key)
	h.Set(cfg.APIVersionHeader, cfg.APIVersion)

	return &UpstreamHeaders{header: h}, nil
}

// Header returns a copy of the header set that the caller may modify.
func (h *UpstreamHeaders) Header() http.Header {
	return h.header.Clone()
}
