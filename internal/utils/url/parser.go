package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL performs comprehensive URL validation
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %q", parsed.Scheme)
	}

	if parsed.Hostname() == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// Resolve turns a possibly relative reference found on a page into an absolute URL.
//
// Rules, in order: empty ref is not resolvable; refs starting with "http" are
// returned unchanged; protocol-relative refs get an https scheme; root-relative
// refs are joined to the origin of base; anything else is resolved with RFC 3986
// reference resolution. Parse failures report false instead of an error.
func Resolve(ref, base string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	if strings.HasPrefix(ref, "http") {
		return ref, true
	}

	if strings.HasPrefix(ref, "//") {
		return "https:" + ref, true
	}

	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Host == "" {
		return "", false
	}

	if strings.HasPrefix(ref, "/") {
		return baseURL.Scheme + "://" + baseURL.Host + ref, true
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	return baseURL.ResolveReference(refURL).String(), true
}

// IsAbsoluteHTTP reports whether s parses as an absolute http(s) URL with a host
func IsAbsoluteHTTP(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Hostname returns the lower-cased host of urlStr without port, or "" if it cannot be parsed
func Hostname(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
