package logging

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks credentials in log output. It knows two things: which
// attribute keys always hold secrets, and the literal secret values the
// process was configured with.
type Redactor struct {
	secrets  []string
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

const mask = "***"

var defaultPatterns = []*redactPattern{
	{regex: regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`), replacement: "Bearer " + mask},
	{regex: regexp.MustCompile(`(?i)(0x-api-key|x-api-key|api[-_]?key)([=:]\s*)[^\s&",]+`), replacement: "${1}${2}" + mask},
}

var sensitiveKeys = []string{
	"password", "passwd", "secret", "token",
	"api_key", "apikey", "api-key",
	"authorization", "private_key", "privatekey",
}

// NewRedactor creates a Redactor that also masks the given literal values.
// Empty and very short values are ignored, they would mask too much.
func NewRedactor(secrets ...string) *Redactor {
	r := &Redactor{patterns: defaultPatterns}
	for _, s := range secrets {
		if len(strings.TrimSpace(s)) >= 4 {
			r.secrets = append(r.secrets, s)
		}
	}
	return r
}

// RedactString masks known secret values and credential-looking substrings.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, s := range r.secrets {
		value = strings.ReplaceAll(value, s, mask)
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactAttr masks an attribute. Sensitive keys lose their value entirely,
// other string-ish values are scrubbed, groups are walked.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		attrs := v.Group()
		out := make([]any, len(attrs))
		for i, ga := range attrs {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, out...)
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, RedactAPIKey(v.String()))
	}

	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return slog.String(a.Key, r.RedactString(x.Error()))
		case fmt.Stringer:
			return slog.String(a.Key, r.RedactString(x.String()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// isSensitiveKey checks if a key name indicates sensitive data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// RedactAPIKey redacts an API key, keeping only a prefix.
func RedactAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return mask
	}
	return apiKey[:4] + mask
}
