package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"clinicsetup/domain/record"
)

var dayAliases = map[string]string{
	"mon": "monday", "tue": "tuesday", "tues": "tuesday", "wed": "wednesday",
	"thu": "thursday", "thur": "thursday", "thurs": "thursday", "fri": "friday",
	"sat": "saturday", "sun": "sunday",
}

func canonicalDay(key string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, day := range record.Weekdays {
		if k == day {
			return day, true
		}
	}
	day, ok := dayAliases[k]
	return day, ok
}

// schedule normalizes a weekly schedule object. Missing days, and days that
// are not objects, become unavailable with no shifts.
func (n *Normalizer) schedule(raw any) (any, bool) {
	out := record.EmptyWeeklySchedule()

	var days map[string]any
	switch v := raw.(type) {
	case map[string]any:
		days = v
	case record.WeeklySchedule:
		for day, d := range v {
			if canonical, ok := canonicalDay(day); ok {
				out[canonical] = n.dayFromTyped(d)
			}
		}
		return out, true
	default:
		return out, false
	}

	clean := true
	for key, value := range days {
		day, ok := canonicalDay(key)
		if !ok {
			clean = false
			continue
		}
		d, ok := n.day(value)
		if !ok {
			clean = false
		}
		out[day] = d
	}
	return out, clean
}

func (n *Normalizer) day(raw any) (record.DaySchedule, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return record.DaySchedule{Shifts: []record.Shift{}}, false
	}

	clean := true
	shifts := make([]record.Shift, 0)
	if list, ok := obj["shifts"].([]any); ok {
		for _, item := range list {
			s, ok := item.(map[string]any)
			if !ok {
				clean = false
				continue
			}
			shift, ok := n.shift(s["start"], s["end"])
			if !ok {
				clean = false
				continue
			}
			shifts = append(shifts, shift)
		}
	} else if obj["shifts"] != nil {
		clean = false
	}

	available, ok := n.coercer.Bool(obj["available"])
	if !ok {
		// An unspecified flag follows whether any shift was given.
		available = len(shifts) > 0
	}
	return record.DaySchedule{Available: available, Shifts: shifts}, clean
}

func (n *Normalizer) dayFromTyped(d record.DaySchedule) record.DaySchedule {
	shifts := make([]record.Shift, 0, len(d.Shifts))
	for _, s := range d.Shifts {
		if shift, ok := n.shift(s.Start, s.End); ok {
			shifts = append(shifts, shift)
		}
	}
	return record.DaySchedule{Available: d.Available, Shifts: shifts}
}

func (n *Normalizer) shift(start, end any) (record.Shift, bool) {
	s, ok := ParseClock(start)
	if !ok {
		return record.Shift{}, false
	}
	e, ok := ParseClock(end)
	if !ok {
		return record.Shift{}, false
	}
	return record.Shift{Start: s, End: e}, true
}

// businessHours normalizes a per-day open/close object. Unparseable times
// become empty strings.
func (n *Normalizer) businessHours(raw any) (any, bool) {
	out := make(record.BusinessHours, len(record.Weekdays))
	for _, day := range record.Weekdays {
		out[day] = record.OpeningHours{}
	}

	var days map[string]any
	switch v := raw.(type) {
	case map[string]any:
		days = v
	case record.BusinessHours:
		days = make(map[string]any, len(v))
		for day, h := range v {
			days[day] = map[string]any{"open": h.Open, "close": h.Close}
		}
	default:
		return out, false
	}

	clean := true
	for key, value := range days {
		day, ok := canonicalDay(key)
		if !ok {
			clean = false
			continue
		}
		obj, ok := value.(map[string]any)
		if !ok {
			clean = false
			continue
		}
		open, okOpen := ParseClock(obj["open"])
		closing, okClose := ParseClock(obj["close"])
		clean = clean && okOpen && okClose
		out[day] = record.OpeningHours{Open: open, Close: closing}
	}
	return out, clean
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm|a\.m\.|p\.m\.|a|p)?$`)

// ParseClock normalizes a time of day to HH:MM. It accepts "9", "09:00",
// "9.30", "9am", "1:30 PM", "1300", Excel day fractions (0.375) and whole
// hours as numbers.
func ParseClock(v any) (string, bool) {
	switch val := v.(type) {
	case float64:
		return clockFromNumber(val)
	case int:
		return clockFromNumber(float64(val))
	case string:
		return clockFromString(val)
	default:
		return "", false
	}
}

func clockFromNumber(f float64) (string, bool) {
	if math.IsNaN(f) || f < 0 {
		return "", false
	}
	if f < 1 {
		minutes := int(math.Round(f * 24 * 60))
		return formatClock(minutes/60, minutes%60)
	}
	if f <= 24 && f == math.Trunc(f) {
		return formatClock(int(f), 0)
	}
	return "", false
}

func clockFromString(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if s == "noon" {
		return "12:00", true
	}
	if s == "midnight" {
		return "00:00", true
	}
	if len(s) == 4 && isDigits(s) {
		s = s[:2] + ":" + s[2:]
	}

	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.TrimSuffix(strings.ReplaceAll(m[3], ".", ""), "m") {
	case "a":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	}
	return formatClock(hour, minute)
}

func formatClock(hour, minute int) (string, bool) {
	if hour == 24 && minute == 0 {
		return "24:00", true
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
