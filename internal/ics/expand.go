package ics

import (
	"time"

	"github.com/teambition/rrule-go"

	appLog "dailyplan/internal/log"
	"dailyplan/internal/model"
)

// Occurrence caps are generous: the window is a single day, so anything
// near the cap indicates a degenerate rule.
const maxOccurrencesPerEvent = 100

// expand turns one parsed VEVENT into the concrete CalendarEvents that
// fall inside [dayStart, dayEnd).
func expand(pe parsedEvent, dayStart, dayEnd time.Time, loc *time.Location) []model.CalendarEvent {
	if pe.rawRRule == "" {
		if !overlaps(pe.start, pe.end, dayStart, dayEnd) {
			return nil
		}
		return []model.CalendarEvent{materialize(pe, pe.start, pe.end, loc)}
	}

	r, err := rrule.StrToRRule(pe.rawRRule)
	if err != nil {
		appLog.Warn("ics rrule unparseable", "summary", pe.summary, "rrule", pe.rawRRule, "err", err)
		// Degrade to the base occurrence.
		if overlaps(pe.start, pe.end, dayStart, dayEnd) {
			return []model.CalendarEvent{materialize(pe, pe.start, pe.end, loc)}
		}
		return nil
	}
	r.DTStart(pe.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range pe.exDates {
		set.ExDate(ex.In(pe.start.Location()))
	}

	// Between uses the event's own timezone; results come back in it too.
	occStarts := set.Between(dayStart.In(pe.start.Location()), dayEnd.In(pe.start.Location()), true)
	if len(occStarts) > maxOccurrencesPerEvent {
		appLog.Warn("ics recurrence truncated", "summary", pe.summary, "cap", maxOccurrencesPerEvent)
		occStarts = occStarts[:maxOccurrencesPerEvent]
	}

	duration := pe.end.Sub(pe.start)
	out := make([]model.CalendarEvent, 0, len(occStarts))
	for _, start := range occStarts {
		end := start.Add(duration)
		// Between is inclusive on both bounds; the day window is half-open.
		if !start.Before(dayEnd.In(pe.start.Location())) {
			continue
		}
		out = append(out, materialize(pe, start, end, loc))
	}
	return out
}

// materialize converts a concrete occurrence into the export event shape:
// all-day events carry a date, timed ones an RFC3339 timestamp in loc.
func materialize(pe parsedEvent, start, end time.Time, loc *time.Location) model.CalendarEvent {
	e := model.CalendarEvent{
		Summary:     pe.summary,
		Description: pe.description,
		HTMLLink:    pe.url,
		Attendees:   pe.attendees,
		Attachments: pe.attachments,
	}

	if pe.allDay {
		e.Start = model.EventTime{Date: start.In(loc).Format("2006-01-02")}
		e.End = model.EventTime{Date: end.In(loc).Format("2006-01-02")}
	} else {
		e.Start = model.EventTime{DateTime: start.In(loc).Format(time.RFC3339)}
		e.End = model.EventTime{DateTime: end.In(loc).Format(time.RFC3339)}
	}
	return e
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.Before(bStart) {
		return false
	}
	if !aStart.Before(bEnd) {
		return false
	}
	return true
}
