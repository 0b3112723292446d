package validate

import (
	"regexp"
	"strings"
)

var (
	rePincode = regexp.MustCompile(`^[0-9]{4,10}$`)
	rePhone   = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{6,14}$`)
	reID      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSlug    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Qty validates a cart/order line quantity.
func Qty(n int) bool { return n >= 1 && n <= 999 }

// ID validates a simple resource identifier (product/category/cart ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 120 {
		return "", false
	}
	return s, true
}

// Slug validates an explicit url slug.
func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 140 && reSlug.MatchString(s)
}

// Address validates a free-form shipping line.
func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 250 {
		return "", false
	}
	return s, true
}

// Place validates a city/state field.
func Place(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Pincode validates a postal code.
func Pincode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePincode.MatchString(s)
}

// Phone validates a shipping contact number.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}
