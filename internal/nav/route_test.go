package nav_test

import (
	"sitekit/internal/nav"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"", "/"},
		{"/", "/"},
		{"//", "/"},
		{"/about", "/about"},
		{"/about/", "/about"},
		{"/about//", "/about"},
		{"/services/web/", "/services/web"},
		{"/about?ref=nav", "/about"},
		{"/about/#team", "/about"},
		{"?q=1", "/"},
		{"about", "/about"},
	}

	for _, tc := range cases {
		if got := nav.NormalizePath(tc.in); got != tc.out {
			t.Errorf("NormalizePath(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestNormalizePath_Idempotent(t *testing.T) {
	inputs := []string{"", "/", "//", "///a//", "/a/b/", "a/", "/x?y#z", "#frag", "/über/"}
	for _, in := range inputs {
		once := nav.NormalizePath(in)
		if twice := nav.NormalizePath(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsInternalHref(t *testing.T) {
	cases := map[string]bool{
		"/":                      true,
		"/about":                 true,
		"//cdn.example.com/x.js": false,
		"https://example.com/":   false,
		"about":                  false,
		"#top":                   false,
		"mailto:a@b.com":         false,
	}
	for href, want := range cases {
		if got := nav.IsInternalHref(href); got != want {
			t.Errorf("IsInternalHref(%q) = %v, want %v", href, got, want)
		}
	}
}
