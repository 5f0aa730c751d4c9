package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// WeekdayList and TimeList are the JSONB availability columns of a doctor.
//
// Rows seeded before the JSONB column existed hold either a literal list
// rendering ("['Monday', 'Tuesday']") or a comma-separated list, sometimes
// wrapped in a JSON string. Scan accepts every form, normalises each item,
// and falls back to an empty list when any item is malformed.
type WeekdayList []string

type TimeList []string

// Value implements driver.Valuer
func (l WeekdayList) Value() (driver.Value, error) {
	return listValue(l)
}

// Scan implements sql.Scanner
func (l *WeekdayList) Scan(value interface{}) error {
	raw, err := scanRaw(value)
	if err != nil {
		return err
	}
	*l = ParseWeekdays(raw)
	return nil
}

// Contains reports whether day is in the list.
func (l WeekdayList) Contains(day string) bool {
	return contains(l, day)
}

// Value implements driver.Valuer
func (l TimeList) Value() (driver.Value, error) {
	return listValue(l)
}

// Scan implements sql.Scanner
func (l *TimeList) Scan(value interface{}) error {
	raw, err := scanRaw(value)
	if err != nil {
		return err
	}
	*l = ParseTimes(raw)
	return nil
}

// Contains reports whether slot is in the list.
func (l TimeList) Contains(slot string) bool {
	return contains(l, slot)
}

// ParseWeekdays turns a loosely encoded list of weekday names into
// canonical names. Malformed input yields an empty list instead of an error.
func ParseWeekdays(raw string) WeekdayList {
	days, err := parseItems(raw, NormalizeWeekday)
	if err != nil {
		logrus.WithFields(logrus.Fields{"raw": raw, "error": err}).Warn("Malformed available days, treating as empty")
		return WeekdayList{}
	}
	return WeekdayList(days)
}

// ParseTimes turns a loosely encoded list of times into HH:MM slots.
// Malformed input yields an empty list instead of an error.
func ParseTimes(raw string) TimeList {
	times, err := parseItems(raw, NormalizeTime)
	if err != nil {
		logrus.WithFields(logrus.Fields{"raw": raw, "error": err}).Warn("Malformed available times, treating as empty")
		return TimeList{}
	}
	return TimeList(times)
}

// NormalizeWeekday returns the canonical weekday name ("Monday") for any
// casing of a full English weekday name.
func NormalizeWeekday(s string) (string, error) {
	s = strings.TrimSpace(s)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d.String(), nil
		}
	}
	return "", fmt.Errorf("invalid weekday %q", s)
}

// NormalizeTime returns the HH:MM form of a time of day.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q, use HH:MM", s)
}

// NormalizeDays normalises and de-duplicates weekday names, keeping order.
func NormalizeDays(items []string) (WeekdayList, error) {
	days, err := normalizeAll(items, NormalizeWeekday)
	return WeekdayList(days), err
}

// NormalizeTimes normalises and de-duplicates HH:MM times, keeping order.
func NormalizeTimes(items []string) (TimeList, error) {
	times, err := normalizeAll(items, NormalizeTime)
	return TimeList(times), err
}

// Availability is a doctor's declared universe of weekdays and time slots.
type Availability struct {
	Days  WeekdayList
	Times TimeList
}

// WorksOn reports whether the weekday of date is one of the declared days.
func (a Availability) WorksOn(date time.Time) bool {
	return a.Days.Contains(date.Weekday().String())
}

// Offers reports whether the slot time is one of the declared times.
func (a Availability) Offers(slot string) bool {
	return a.Times.Contains(slot)
}

// OpenTimes returns the declared times for date minus the booked ones, in
// declared order. A date outside the declared weekdays has no open times.
func (a Availability) OpenTimes(date time.Time, booked []string) TimeList {
	open := TimeList{}
	if !a.WorksOn(date) {
		return open
	}

	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}
	for _, t := range a.Times {
		if _, ok := taken[t]; !ok {
			open = append(open, t)
		}
	}
	return open
}

func scanRaw(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case []byte:
		return string(v), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("unsupported type for availability list: %T", value)
	}
}

func listValue(items []string) (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

func parseItems(raw string, normalize func(string) (string, error)) ([]string, error) {
	items, ok := decodeList(raw)
	if !ok {
		return nil, fmt.Errorf("unparseable list %q", raw)
	}
	return normalizeAll(items, normalize)
}

// decodeList reads a JSON array, a JSON string holding a legacy list, or a
// bare legacy list.
func decodeList(raw string) ([]string, bool) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return items, true
	}

	var legacy string
	if err := json.Unmarshal([]byte(raw), &legacy); err == nil {
		raw = legacy
	}
	return splitLegacyList(raw)
}

func normalizeAll(items []string, normalize func(string) (string, error)) ([]string, error) {
	out := []string{}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		n, err := normalize(item)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// splitLegacyList splits "[a, 'b', \"c\"]" or "a, 'b', c" into its items.
func splitLegacyList(raw string) ([]string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []string{}, true
	}

	if strings.HasPrefix(s, "[") || strings.HasSuffix(s, "]") {
		if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
			return nil, false
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
		if s == "" {
			return []string{}, true
		}
	}

	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		item, ok := unquote(strings.TrimSpace(p))
		if !ok || item == "" {
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"') && first == last {
			return strings.TrimSpace(s[1 : len(s)-1]), true
		}
	}
	if strings.ContainsAny(s, `'"[]`) {
		return "", false
	}
	return s, true
}
