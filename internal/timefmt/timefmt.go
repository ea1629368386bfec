// Package timefmt normalizes the heterogeneous timestamp strings stored by
// the upstream ingestion system into one canonical display format.
package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical display format for message timestamps.
const Layout = "2006-01-02 15:04:05"

// Normalize converts strings such as
//
//	2025-08-31T13:39:02+05:00
//	2025-08-31 13:39:14 +0500 +05
//
// into "2025-08-31 13:39:02". The timezone offset is dropped; the wall-clock
// value is kept as written. Canonical input comes back unchanged.
func Normalize(raw string) (string, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(Layout), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t.Format(Layout), nil
	}

	cleaned := raw
	if i := strings.Index(cleaned, "+"); i >= 0 {
		cleaned = cleaned[:i]
	}
	cleaned = strings.TrimSpace(cleaned)

	t, err := time.Parse(Layout, cleaned)
	if err != nil {
		return "", fmt.Errorf("unrecognized timestamp %q", raw)
	}
	return t.Format(Layout), nil
}
