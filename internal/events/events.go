// Package events loads calendar event batches and decides which events
// represent real meetings.
package events

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"dailyplan/internal/model"
)

// batch is the wire shape of an exported event file.
type batch struct {
	Events []model.CalendarEvent `json:"events"`
}

// LoadBatch reads a pre-fetched JSON export keyed by "events".
func LoadBatch(path string) ([]model.CalendarEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}

	var b batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return b.Events, nil
}

// SortChronological orders events by start time. All-day events sort to the
// beginning of their day; events with no start sort first.
func SortChronological(evs []model.CalendarEvent) {
	sort.SliceStable(evs, func(i, j int) bool {
		return evs[i].Start.SortKey() < evs[j].Start.SortKey()
	})
}

// isSelf reports whether an attendee is the calendar owner. The export's
// "self" flag is authoritative; the configured email is a fallback for
// exports that omit it.
func isSelf(a model.Attendee, selfEmail string) bool {
	if a.Self {
		return true
	}
	return selfEmail != "" && a.Email == selfEmail
}

// ShouldSkip reports whether an event is not a real meeting. Pure
// predicate; evaluated independently per event.
//
// Skip when:
//   - the event is a working-location marker
//   - the owner declined (only the self attendee's status counts)
//   - there are no attendees, or no attendee besides the owner
//   - both guest-visibility flags are explicitly false (broadcast event)
func ShouldSkip(e model.CalendarEvent, selfEmail string) bool {
	if e.EventType == "workingLocation" {
		return true
	}

	for _, a := range e.Attendees {
		if isSelf(a, selfEmail) && a.ResponseStatus == model.ResponseDeclined {
			return true
		}
	}

	if len(e.Attendees) == 0 {
		return true
	}

	others := 0
	for _, a := range e.Attendees {
		if !isSelf(a, selfEmail) {
			others++
		}
	}
	if others == 0 {
		return true
	}

	if e.GuestsCanSeeOtherGuests != nil && !*e.GuestsCanSeeOtherGuests &&
		e.GuestsCanInviteOthers != nil && !*e.GuestsCanInviteOthers {
		return true
	}

	return false
}
