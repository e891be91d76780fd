package payment

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// JavaScript dates are valid within ±8.64e15 ms of the epoch.
const maxEpochMillis = 8.64e15

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ExtractDate decodes a createdAt value. Candidates are tried in a fixed order
// and the first valid date wins:
//
//	a. a string holding a JSON array [seconds, fraction]
//	b. a date string
//	c. an array whose first element is {"seconds": n}
//	d. an array whose first element is a number of seconds
//	e. an array whose first element is a date string
func ExtractDate(raw json.RawMessage) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return time.Time{}, false
	}

	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		if t, ok := fromEncodedArray(s); ok {
			return t, true
		}
		return ParseDate(s)
	}

	var arr []json.RawMessage
	if raw[0] != '[' || json.Unmarshal(raw, &arr) != nil || len(arr) == 0 {
		return time.Time{}, false
	}
	first := bytes.TrimSpace(arr[0])

	var obj struct {
		Seconds *float64 `json:"seconds"`
	}
	if len(first) > 0 && first[0] == '{' && json.Unmarshal(first, &obj) == nil && obj.Seconds != nil {
		if t, ok := fromSeconds(*obj.Seconds); ok {
			return t, true
		}
	}

	var sec float64
	if json.Unmarshal(first, &sec) == nil {
		if t, ok := fromSeconds(sec); ok {
			return t, true
		}
	}

	var str string
	if json.Unmarshal(first, &str) == nil {
		return ParseDate(str)
	}

	return time.Time{}, false
}

func fromEncodedArray(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return time.Time{}, false
	}

	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(s), &arr); err != nil || len(arr) == 0 {
		return time.Time{}, false
	}

	var sec float64
	if err := json.Unmarshal(arr[0], &sec); err != nil {
		return time.Time{}, false
	}
	return fromSeconds(sec)
}

func fromSeconds(sec float64) (time.Time, bool) {
	ms := sec * 1000
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

// ParseDate parses the date formats the backend and its clients are known to produce.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// "Tue Nov 14 2023 22:13:20 GMT+0000 (Coordinated Universal Time)"
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
