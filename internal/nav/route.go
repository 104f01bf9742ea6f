// Package nav derives navigation state from the current location: which
// header links are active, the mobile menu open/closed lifecycle, and the
// footer year stamp.
package nav

import "strings"

// NormalizePath maps a location path or an href to its route key: the path
// component only, "/" when empty, always rooted, and without trailing
// slashes except for "/" itself. It is idempotent, and "/about" and
// "/about/" share a key.
func NormalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if trimmed := strings.TrimRight(p, "/"); trimmed != "" {
		return trimmed
	}

	return "/"
}

// IsInternalHref reports whether href is a site-absolute path ("/about"),
// excluding protocol-relative URLs ("//cdn.example.com").
func IsInternalHref(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
}
