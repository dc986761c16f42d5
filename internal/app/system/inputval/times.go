package inputval

import "time"

// IsRFC3339 reports whether s parses as an RFC 3339 date-time.
func IsRFC3339(s string) bool {
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
