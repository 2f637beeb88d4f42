package validator

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// NotBlank returns true if a string is not empty or contains only whitespace.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MinRunes returns true if a string is greater than or equal to a minimum number of n
func MinRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

// MaxRunes returns true if a string is less than or equal to a maximum number of n
func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// In returns true if a value is in a list of values.
func In[T comparable](value T, list ...T) bool {
	for i := range list {
		if value == list[i] {
			return true
		}
	}
	return false
}

// Positive reports whether an optional id is absent or greater than zero.
func Positive(id *int64) bool {
	return id == nil || *id > 0
}

// IsURL returns true if a string is a valid URL.
func IsURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}

// IsLink accepts an absolute URL or a site-relative path such as "/men/tops".
func IsLink(value string) bool {
	if value == "" {
		return true
	}
	if strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "//") {
		_, err := url.ParseRequestURI(value)
		return err == nil
	}
	return IsURL(value)
}
