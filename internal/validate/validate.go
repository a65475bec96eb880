package validate

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reID     = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)
	reSeller = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)
)

const maxQueryRunes = 100

// ID validates a product or order identifier.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// SellerID validates the seller id handed to the order screen.
func SellerID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reSeller.MatchString(s)
}

// Q bounds a search query. The query is matched exactly as typed, so it is
// neither trimmed nor restricted to a character class. An empty query is
// valid and means "everything".
func Q(s string) (string, bool) {
	if utf8.RuneCountInString(s) > maxQueryRunes || hasControl(s) {
		return "", false
	}
	return s, true
}

// ImageURL accepts any URL that parses: absolute http(s), protocol-relative
// or relative to the page. Other schemes are refused. The raw value is
// returned unchanged so blank input can still reach the viewer.
func ImageURL(s string) (string, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return s, true
	}
	if len(t) > 2048 || hasControl(t) {
		return "", false
	}
	u, err := url.Parse(t)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return s, true
	}
	return "", false
}

// DraftValue bounds a free-text product field. Parsing happens on save.
func DraftValue(s string) (string, bool) {
	if len(s) > 500 || hasControl(s) {
		return "", false
	}
	return s, true
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}
