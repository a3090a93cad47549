package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

var (
	errMissingSchemeOrHost = errors.New("missing scheme or host")
	errUnsupportedScheme   = errors.New("url must start with http:// or https://")
)

// ParseRoot validates an audit target. Only absolute http(s) URLs are accepted;
// the fragment is dropped.
func ParseRoot(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, err
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errMissingSchemeOrHost
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errUnsupportedScheme
	}

	parsed.Fragment = ""

	return parsed, nil
}

// Origin returns scheme://host for u, without path, query or fragment.
func Origin(u *url.URL) string {
	origin := url.URL{Scheme: u.Scheme, Host: u.Host}

	return origin.String()
}

// Resolve resolves href against base and returns an absolute HTTP(S) URL.
func Resolve(base *url.URL, href string) (string, bool) {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}

	if !isSupportedScheme(parsed.Scheme) {
		return "", false
	}

	resolved := base.ResolveReference(parsed)
	if !isSupportedScheme(resolved.Scheme) {
		return "", false
	}

	resolved.Fragment = ""

	return resolved.String(), true
}

func isSupportedScheme(scheme string) bool {
	return scheme == "" || scheme == "http" || scheme == "https"
}

// SameHost reports whether raw points at exactly the host (including port) of base.
// The scheme is not compared, so http links on an https site still count.
func SameHost(base *url.URL, raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}

	return strings.EqualFold(parsed.Host, base.Host)
}
