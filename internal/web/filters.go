package web

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

const (
	fullLayout   = "Monday January, 2, 2006 at 3:04PM"
	mediumLayout = "Mon 01, 02, 2006 3:04PM"
)

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// FormatDatetime renders a time or a timestamp string in the "full" or
// "medium" style. Unknown formats fall back to medium.
func FormatDatetime(value interface{}, format ...string) (string, error) {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return "", nil
		}
		t = *v
	case string:
		parsed, err := parseTimestamp(v)
		if err != nil {
			return "", err
		}
		t = parsed
	default:
		return "", fmt.Errorf("datetime: unsupported value %T", value)
	}

	style := "medium"
	if len(format) > 0 {
		style = format[0]
	}
	if style == "full" {
		return t.Format(fullLayout), nil
	}
	return t.Format(mediumLayout), nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("datetime: cannot parse %q", s)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"datetime": FormatDatetime,
		"join":     strings.Join,
		"contains": contains,
	}
}
