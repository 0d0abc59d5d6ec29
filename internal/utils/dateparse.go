package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	agoPattern      = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks|m|month|months|y|year|years)(\s+ago)?$`)
	sinceDateLayout = []string{
		"2006-01-02",
		"2006/01/02",
		"02.01.2006",
		"Jan 2, 2006",
		"2 Jan 2006",
		"January 2006",
		"2006-01",
		time.RFC3339,
	}
)

// ParseSince turns a --since value into the start of a history window.
// It accepts calendar dates, "today", "yesterday", "this week|month|year",
// "last week|month|year" and relative spans like "3 weeks ago" or "2m".
// Everything except RFC3339 input resolves to midnight in loc.
func ParseSince(input string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	now = now.In(loc)
	midnight := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}

	switch in {
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now.AddDate(0, 0, -1)), nil
	case "this week":
		wd := int(now.Weekday())
		if wd == 0 {
			wd = 7
		}
		return midnight(now.AddDate(0, 0, -(wd - 1))), nil
	case "this month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), nil
	case "this year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc), nil
	case "last week":
		return midnight(now.AddDate(0, 0, -7)), nil
	case "last month":
		return midnight(now.AddDate(0, -1, 0)), nil
	case "last year":
		return midnight(now.AddDate(-1, 0, 0)), nil
	}

	if m := agoPattern.FindStringSubmatch(in); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number in %q", input)
		}
		switch m[2][0] {
		case 'd':
			return midnight(now.AddDate(0, 0, -n)), nil
		case 'w':
			return midnight(now.AddDate(0, 0, -7*n)), nil
		case 'm':
			return midnight(now.AddDate(0, -n, 0)), nil
		case 'y':
			return midnight(now.AddDate(-n, 0, 0)), nil
		}
	}

	for _, layout := range sinceDateLayout {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(input), loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", input)
}
