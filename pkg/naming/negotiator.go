package naming

import (
	"strconv"
	"strings"
)

// Defaults for name negotiation.
const (
	// DefaultBaseName is the instance name used when no base name is
	// configured. Kept for compatibility with ESP-class devices that
	// ship with this label.
	DefaultBaseName = "esp8266"

	// DefaultDivider separates the base name from the numeric
	// disambiguation suffix.
	DefaultDivider = "-"
)

// NextName derives the next candidate instance name.
//
// With an empty current name it returns defaultBase (or DefaultBaseName
// when defaultBase is empty); this path initializes a negotiation and is
// not a conflict response. Otherwise the current name is assumed to have
// lost a probe and the next candidate is produced: if the text after the
// rightmost divider occurrence is a clean positive decimal index, that
// index is incremented; otherwise divider+"2" is appended to the whole
// name. The result is always non-empty.
func NextName(current, divider, defaultBase string) string {
	if current == "" {
		if defaultBase != "" {
			return defaultBase
		}
		return DefaultBaseName
	}

	if divider == "" {
		divider = DefaultDivider
	}

	if i := strings.LastIndex(current, divider); i >= 0 {
		if n, ok := parseIndex(current[i+len(divider):]); ok {
			return current[:i+len(divider)] + strconv.FormatUint(n+1, 10)
		}
	}

	return current + divider + "2"
}

// parseIndex parses a disambiguation index. The whole string must be
// decimal digits and the value must be strictly positive; "0", "", and
// anything with non-digit characters are not indexes.
func parseIndex(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
