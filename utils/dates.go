package utils

import (
	"fmt"
	"strings"
	"time"
)

// DocumentDateLayout is the dd.mm.yyyy form used in generated documents.
const DocumentDateLayout = "02.01.2006"

// FormatDate renders t as dd.mm.yyyy, or "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DocumentDateLayout)
}

// ParseISODate accepts the date forms clients actually send: RFC3339 (with or
// without offset) and a bare yyyy-mm-dd. Empty input yields nil.
func ParseISODate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSuffix(s, "Z")); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("malformed date: %q", s)
}
