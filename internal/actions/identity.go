package actions

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
)

// ParseIdentity splits "Name <email>" into its parts
func ParseIdentity(s string) (name, email string, err error) {
	s = strings.TrimSpace(s)
	open := strings.LastIndex(s, "<")
	if open < 0 || !strings.HasSuffix(s, ">") {
		return "", "", fmt.Errorf("invalid identity %q: expected \"Name <email>\"", s)
	}
	name = strings.TrimSpace(s[:open])
	email = strings.TrimSpace(s[open+1 : len(s)-1])
	if name == "" || email == "" {
		return "", "", fmt.Errorf("invalid identity %q: expected \"Name <email>\"", s)
	}
	return name, email, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the date formats git understands for author dates:
// RFC 3339, RFC 2822, ISO-like "YYYY-MM-DD hh:mm:ss [zone]", and the raw
// "<unix seconds> <zone>" form with an optional leading "@"
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, ok := parseRawDate(s); ok {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := mail.ParseDate(s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// parseRawDate handles "1700000000 +0100" and "@1700000000"
func parseRawDate(s string) (time.Time, bool) {
	fields := strings.Fields(strings.TrimPrefix(s, "@"))
	if len(fields) == 0 || len(fields) > 2 {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	if !strings.HasPrefix(s, "@") && len(fields) == 1 {
		// a bare number is too ambiguous
		return time.Time{}, false
	}
	t := time.Unix(secs, 0)
	if len(fields) == 1 {
		return t, true
	}
	zone, err := time.Parse("-0700", fields[1])
	if err != nil {
		return time.Time{}, false
	}
	return t.In(zone.Location()), true
}
