package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// Japanese postal codes are exactly 7 digits, no dash.
	rePostal = regexp.MustCompile(`^[0-9]{7}$`)
	rePhone  = regexp.MustCompile(`^[0-9+\-\s]+$`)
	reEmail  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reRegion = regexp.MustCompile(`^[a-z0-9-]{1,50}$`)
)

func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Phone accepts digits plus the separators people actually type.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 10 || len(s) > 20 {
		return "", false
	}
	return s, rePhone.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func PostalCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePostal.MatchString(s)
}

func City(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 100 {
		return "", false
	}
	return s, true
}

func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 10 || len(s) > 500 {
		return "", false
	}
	return s, true
}

// Region validates a prefecture slug key (lowercase, hyphenated).
func Region(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reRegion.MatchString(s)
}

// ID validates a simple resource identifier (product/order/proof ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 99 {
		return 99
	} // clamp to avoid abuse
	return n
}

// Q trims a free-text search query and caps it at 50 characters. The cut
// lands on a rune boundary so multibyte input stays valid UTF-8.
func Q(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 50 {
		r := []rune(s)
		s = string(r[:50])
	}
	return s
}

// Password enforces the account password policy for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
