package model

import (
	"errors"
	"strings"
	"time"
)

// EventTime mirrors the calendar export's start/end object: either a precise
// timestamp (DateTime) or a date-only value (Date) is set.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

// IsZero reports whether neither form is present.
func (t EventTime) IsZero() bool {
	return t.DateTime == "" && t.Date == ""
}

// Time parses the value into a time.Time. Date-only values resolve to
// midnight in the given location.
func (t EventTime) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if t.DateTime != "" {
		return time.Parse(time.RFC3339, t.DateTime)
	}
	if t.Date != "" {
		return time.ParseInLocation("2006-01-02", t.Date, loc)
	}
	return time.Time{}, errors.New("event time has neither dateTime nor date")
}

// SortKey returns a lexically sortable string: precise timestamps as-is,
// date-only values pinned to the beginning of the day, missing values empty
// (which sorts first).
func (t EventTime) SortKey() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	if t.Date != "" {
		return t.Date + "T00:00:00"
	}
	return ""
}

// Attendee response statuses as exported by the calendar source.
const (
	ResponseAccepted    = "accepted"
	ResponseDeclined    = "declined"
	ResponseTentative   = "tentative"
	ResponseNeedsAction = "needsAction"
)

type Attendee struct {
	Email          string `json:"email,omitempty"`
	DisplayName    string `json:"displayName,omitempty"`
	Self           bool   `json:"self,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

type Attachment struct {
	Title    string `json:"title,omitempty"`
	FileURL  string `json:"fileUrl,omitempty"`
	FileID   string `json:"fileId,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// CalendarEvent is an externally supplied event record. It is never
// mutated by the pipeline.
type CalendarEvent struct {
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	Start       EventTime    `json:"start"`
	End         EventTime    `json:"end"`
	Attendees   []Attendee   `json:"attendees,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	HangoutLink string       `json:"hangoutLink,omitempty"`
	HTMLLink    string       `json:"htmlLink,omitempty"`
	EventType   string       `json:"eventType,omitempty"`

	// Pointers so an explicit false can be told apart from an absent field;
	// the broadcast check only fires on explicit false.
	GuestsCanSeeOtherGuests *bool `json:"guestsCanSeeOtherGuests,omitempty"`
	GuestsCanInviteOthers   *bool `json:"guestsCanInviteOthers,omitempty"`
}

// Title returns the event summary, or a stand-in for untitled events.
func (e CalendarEvent) Title() string {
	if strings.TrimSpace(e.Summary) == "" {
		return "Untitled Meeting"
	}
	return e.Summary
}

// Provenance classifies how an attendee identity was resolved. It decides
// whether the identity renders as a wikilink or plain quoted text.
type Provenance int

const (
	// ProvenanceDirectory means the identity matched the vault's people
	// directory and is eligible for linking.
	ProvenanceDirectory Provenance = iota
	// ProvenanceExternal means an external directory lookup supplied the
	// name but the vault has no matching person file.
	ProvenanceExternal
	// ProvenanceLiteral means the attendee's own display name was used.
	ProvenanceLiteral
	// ProvenanceEmailLocal means the name was derived from the email
	// local-part.
	ProvenanceEmailLocal
	// ProvenancePlaceholder means no signal was available at all.
	ProvenancePlaceholder
)

// ResolvedIdentity is the output of attendee resolution.
type ResolvedIdentity struct {
	Name       string
	Provenance Provenance
}

// Linked reports whether the identity should be emitted as a wikilink.
func (r ResolvedIdentity) Linked() bool {
	return r.Provenance == ProvenanceDirectory
}

// Category is the semantic class of an event attachment.
type Category string

const (
	CategoryAgenda    Category = "agenda"
	CategoryMinutes   Category = "minutes"
	CategoryRecording Category = "recording"
	CategoryGemini    Category = "gemini"
	CategorySlides    Category = "slides"
	CategoryOther     Category = "other"
)

// CategoryOrder is the stable order in which attachment fields are written
// into a note's frontmatter.
var CategoryOrder = []Category{
	CategoryAgenda,
	CategoryMinutes,
	CategoryRecording,
	CategoryGemini,
	CategorySlides,
	CategoryOther,
}
