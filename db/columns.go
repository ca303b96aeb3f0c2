package db

import (
	"strings"
	"unicode"
)

// columnName maps a record field name to its snake_case column name:
// "TrackingCode" -> "tracking_code", "UserID" -> "user_id". Runs of capitals
// are kept together so initialisms come out as one word.
func columnName(field string) string {
	runes := []rune(field)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && !unicode.IsUpper(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
