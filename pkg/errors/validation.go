package errors

import (
	"strings"
	"unicode"
)

// ValidateAPIKey checks that an API key is usable in a query string.
//
// The rules are intentionally conservative:
//   - No empty keys
//   - No whitespace or control characters
//   - Maximum length of 256 characters
//
// The key itself is never included in the returned error.
func ValidateAPIKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidConfig, "api key cannot be empty")
	}

	if len(key) > 256 {
		return New(ErrCodeInvalidConfig, "api key too long (max 256 characters)")
	}

	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "api key contains whitespace or control characters")
		}
	}

	return nil
}

// ValidateParamKey validates a query parameter name.
// Values are passed through untouched; only names are checked, since an
// empty or malformed name would corrupt the encoded query string.
func ValidateParamKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidParam, "parameter name cannot be empty")
	}

	if strings.ContainsAny(key, "=&?#") {
		return New(ErrCodeInvalidParam, "parameter name %q contains reserved characters", key)
	}

	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidParam, "parameter name %q contains whitespace or control characters", key)
		}
	}

	return nil
}

// ValidateProxyHost validates a proxy host name or address.
// Schemes and ports belong in their own fields and are rejected here.
func ValidateProxyHost(host string) error {
	if host == "" {
		return New(ErrCodeInvalidConfig, "proxy host cannot be empty")
	}

	if strings.Contains(host, "://") {
		return New(ErrCodeInvalidConfig, "proxy host must not include a scheme: %q", host)
	}

	if strings.ContainsAny(host, "/@ ") {
		return New(ErrCodeInvalidConfig, "proxy host contains invalid characters: %q", host)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
