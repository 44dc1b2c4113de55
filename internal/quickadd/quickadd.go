// Package quickadd parses the one-line task syntax used by `mytasks add`
// and the form's due date field.
//
//	Buy milk @shopping !low due:tomorrow
package quickadd

import (
	"strings"
	"time"

	"github.com/dori/mytasks/internal/model"
)

// Parse turns a quick-add line into a draft. Tokens it does not understand,
// such as an unknown @category, stay part of the text.
func Parse(text string, now time.Time) model.Draft {
	d := model.NewDraft()

	var words []string
	for _, word := range strings.Fields(text) {
		switch {
		case len(word) > 1 && strings.HasPrefix(word, "@"):
			if c, ok := model.ParseCategory(word[1:]); ok {
				d.Category = c
				continue
			}

		case len(word) > 1 && strings.HasPrefix(word, "!"):
			if p, ok := model.ParsePriority(word[1:]); ok {
				d.Priority = p
				continue
			}

		case strings.HasPrefix(strings.ToLower(word), "due:"):
			if due, ok := ParseDate(word[len("due:"):], now); ok {
				d.DueDate = &due
				continue
			}
		}
		words = append(words, word)
	}

	d.Text = strings.Join(words, " ")
	return d
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// date-only values are due at the end of that day
var dateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
}

// ParseDate reads a due date relative to now: today, tomorrow, a weekday
// name (the next one, never today), nextweek, or an absolute date with an
// optional time. Results are in now's location.
func ParseDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	switch strings.ToLower(s) {
	case "":
		return time.Time{}, false
	case "today":
		return endOfToday, true
	case "tomorrow", "tom":
		return endOfToday.AddDate(0, 0, 1), true
	case "nextweek":
		return endOfToday.AddDate(0, 0, 7), true
	}

	if day, ok := weekdays[strings.ToLower(s)]; ok {
		until := int(day - now.Weekday())
		if until <= 0 {
			until += 7
		}
		return endOfToday.AddDate(0, 0, until), true
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		if !strings.Contains(layout, "15") {
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, now.Location())
		}
		return t, true
	}

	return time.Time{}, false
}

// FormatDue renders a due date for display relative to now
func FormatDue(t, now time.Time) string {
	t = t.In(now.Location())
	sameDay := func(a, b time.Time) bool {
		return a.Year() == b.Year() && a.YearDay() == b.YearDay()
	}

	hasTime := t.Hour() != 23 || t.Minute() != 59
	clock := ""
	if hasTime {
		clock = " " + t.Format("15:04")
	}

	switch {
	case sameDay(t, now):
		return "today" + clock
	case sameDay(t, now.AddDate(0, 0, 1)):
		return "tomorrow" + clock
	case sameDay(t, now.AddDate(0, 0, -1)):
		return "yesterday" + clock
	case t.Year() == now.Year():
		return t.Format("Mon, Jan 2") + clock
	}
	return t.Format("Jan 2, 2006") + clock
}
