// Package validate holds the small input checks shared by several domains.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	MsgRequired     = "This field is required."
	MsgInvalidEmail = "Enter a valid email address."
	MsgInvalidURL   = "Enter a valid URL."
)

// Email accepts a bare address with a dotted domain. Display-name forms
// such as "Bob <bob@example.com>" are rejected.
func Email(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	domain := s[strings.LastIndexByte(s, '@')+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

// URL accepts absolute http and https URLs with a host.
func URL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// TooLong reports whether s exceeds n characters.
func TooLong(s string, n int) bool {
	return utf8.RuneCountInString(s) > n
}

func MaxLenMessage(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}
