// Package ics is the alternate event source: it turns a local .ics export
// into the same CalendarEvent batch the JSON loader produces, expanding
// recurring events for the requested day.
package ics

import (
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "dailyplan/internal/log"
	"dailyplan/internal/model"
)

// parsedEvent is the normalized VEVENT representation expansion operates on.
type parsedEvent struct {
	summary     string
	description string
	url         string
	attendees   []model.Attendee
	attachments []model.Attachment

	start  time.Time
	end    time.Time
	allDay bool

	rawRRule string
	exDates  []time.Time
}

// LoadFile reads an .ics file and returns the events that occur on day
// (midnight to midnight in loc). VEVENTs that fail to parse are logged and
// skipped so one bad component cannot sink the batch.
func LoadFile(path string, day time.Time, loc *time.Location) ([]model.CalendarEvent, error) {
	if loc == nil {
		loc = time.Local
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ics: %w", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	var out []model.CalendarEvent
	for _, ve := range cal.Events() {
		pe, err := parseVEvent(ve)
		if err != nil {
			appLog.Warn("ics vevent skipped", "file", path, "err", err)
			continue
		}
		out = append(out, expand(pe, dayStart, dayEnd, loc)...)
	}

	appLog.Info("ics source loaded", "file", path, "events", len(out))
	return out, nil
}

func parseVEvent(ve *ical.VEvent) (parsedEvent, error) {
	var pe parsedEvent

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		pe.summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		pe.description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentProperty("URL")); p != nil {
		pe.url = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return pe, fmt.Errorf("missing DTSTART: %w", err)
	}
	pe.start = start
	if end, err := ve.GetEndAt(); err == nil {
		pe.end = end
	} else {
		pe.end = start
	}

	// All-day detection: VALUE=DATE parameter or no time component.
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			pe.allDay = true
		}
		if !strings.Contains(p.Value, "T") {
			pe.allDay = true
		}
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyAttendee) {
		pe.attendees = append(pe.attendees, parseAttendee(p.Value, p.ICalParameters))
	}

	for _, p := range ve.GetProperties(ical.ComponentProperty("ATTACH")) {
		if p.Value == "" {
			continue
		}
		att := model.Attachment{FileURL: p.Value}
		if names, ok := p.ICalParameters["FILENAME"]; ok && len(names) > 0 {
			att.Title = names[0]
		}
		if mimes, ok := p.ICalParameters["FMTTYPE"]; ok && len(mimes) > 0 {
			att.MimeType = mimes[0]
		}
		pe.attachments = append(pe.attachments, att)
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		pe.rawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				pe.exDates = append(pe.exDates, t)
			}
		}
	}

	return pe, nil
}

// parseAttendee maps an ATTENDEE property onto the calendar export's
// attendee shape: mailto target, CN display name, PARTSTAT response.
func parseAttendee(val string, params map[string][]string) model.Attendee {
	a := model.Attendee{}

	if strings.HasPrefix(strings.ToLower(val), "mailto:") {
		a.Email = val[len("mailto:"):]
	}
	if cns, ok := params["CN"]; ok && len(cns) > 0 {
		a.DisplayName = cns[0]
	}
	if ps, ok := params["PARTSTAT"]; ok && len(ps) > 0 {
		a.ResponseStatus = partStat(ps[0])
	}
	return a
}

func partStat(s string) string {
	switch strings.ToUpper(s) {
	case "ACCEPTED":
		return model.ResponseAccepted
	case "DECLINED":
		return model.ResponseDeclined
	case "TENTATIVE":
		return model.ResponseTentative
	case "NEEDS-ACTION":
		return model.ResponseNeedsAction
	}
	return ""
}

// parseICSTime parses the basic ICS date/date-time forms used by EXDATE.
func parseICSTime(v string) (time.Time, error) {
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, time.Local)
	}
	return time.ParseInLocation("20060102", v, time.Local)
}
