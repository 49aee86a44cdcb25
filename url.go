package qrstudio

import (
	"net/url"
	"strings"
	"unicode"
)

// IsValidURL reports whether s is a well-formed absolute URL with a scheme
// and a host. The string is checked as is, nothing is trimmed.
func IsValidURL(s string) bool {
	if s == "" {
		return false
	}

	if strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return false
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	// url.Parse validates the scheme characters; an empty scheme means a
	// relative reference.
	if u.Scheme == "" || u.Opaque != "" {
		return false
	}

	return u.Hostname() != ""
}
