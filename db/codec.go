package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// StringList is a column that logically holds an ordered list of strings
// (image URLs, document names) but is persisted as a single JSON-array text
// blob. Scan tolerates legacy rows written before the column became
// list-valued: a bare URL is wrapped into a one-element list, anything
// unparseable decodes to an empty list with a diagnostic. Scan never fails.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
	case []byte:
		*l = decodeStringList(string(v))
	case string:
		*l = decodeStringList(v)
	default:
		log.Warn("string list column has unexpected type", "type", fmt.Sprintf("%T", src))
		*l = StringList{}
	}
	return nil
}

// Value implements driver.Valuer. A nil list encodes as the empty JSON array.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encoding string list: %w", err)
	}
	return string(b), nil
}

// Contains reports whether the list holds exactly v. Used for in-memory
// exact-element filtering, where matching the serialized text would
// false-positive on substrings of other elements.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

func decodeStringList(raw string) StringList {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StringList{}
	}
	if strings.HasPrefix(trimmed, "[") {
		var out []string
		if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
			if out == nil {
				out = []string{}
			}
			return out
		}
	}
	if looksLikeURL(trimmed) {
		return StringList{trimmed}
	}
	// Last attempt: a JSON-encoded scalar string, possibly itself a bare URL.
	var single string
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil && looksLikeURL(single) {
		return StringList{single}
	}
	log.Warn("unparseable string list column, treating as empty", "value", raw)
	return StringList{}
}

func looksLikeURL(s string) bool {
	return strings.Contains(s, "http") || strings.Contains(s, "www")
}
