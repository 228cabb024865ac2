// Package attach classifies event attachments into semantic categories.
package attach

import (
	"context"
	"strings"

	"dailyplan/internal/gog"
	appLog "dailyplan/internal/log"
	"dailyplan/internal/model"
)

// MetaLookup is the capability for fetching richer attachment metadata by
// content identifier. A nil result means nothing usable came back.
type MetaLookup interface {
	LookupFile(ctx context.Context, fileID string) (*gog.FileMeta, error)
}

// Classifier maps attachments to categories. Classification itself is a
// pure function of the visible metadata; the optional lookup only widens
// what is visible.
type Classifier struct {
	lookup MetaLookup // may be nil
}

func NewClassifier(lookup MetaLookup) *Classifier {
	return &Classifier{lookup: lookup}
}

// Classify returns the attachment's category and canonical URL. When a file
// ID is present and a lookup is configured, drive metadata refines both;
// lookup failure degrades to title-only classification.
func (c *Classifier) Classify(ctx context.Context, a model.Attachment) (model.Category, string) {
	name := a.Title
	mime := a.MimeType
	url := a.FileURL

	if a.FileID != "" && c.lookup != nil {
		meta, err := c.lookup.LookupFile(ctx, a.FileID)
		if err != nil {
			appLog.Warn("attachment metadata lookup failed", "file_id", a.FileID, "err", err)
		} else if meta != nil {
			if meta.Name != "" {
				name = meta.Name
			}
			if meta.MimeType != "" {
				mime = meta.MimeType
			}
			if meta.WebViewLink != "" {
				url = meta.WebViewLink
			}
		}
	}

	return categorize(name, mime, url), url
}

// categorize applies the priority rules to lower-cased text. First match
// wins.
func categorize(name, mime, url string) model.Category {
	text := strings.ToLower(name)

	// AI-generated notes and transcripts share one bucket.
	if strings.Contains(text, "gemini") || strings.Contains(text, "transcript") {
		return model.CategoryGemini
	}
	if strings.Contains(text, "recording") {
		return model.CategoryRecording
	}
	if containsAny(text, "minutes", "summary", "recap") {
		return model.CategoryMinutes
	}
	if mime == "application/vnd.google-apps.presentation" ||
		containsAny(text, "slides", "presentation", "deck") {
		return model.CategorySlides
	}
	if containsAny(text, "notes", "agenda", "1:1", "1-1") {
		return model.CategoryAgenda
	}
	// Untitled or generic document-host links are most often agendas.
	if strings.Contains(url, "docs.google.com") {
		return model.CategoryAgenda
	}
	return model.CategoryOther
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Collect classifies every attachment of an event, grouping URLs by
// category in first-seen order.
func (c *Classifier) Collect(ctx context.Context, atts []model.Attachment) map[model.Category][]string {
	if len(atts) == 0 {
		return nil
	}
	out := make(map[model.Category][]string)
	for _, a := range atts {
		cat, url := c.Classify(ctx, a)
		if url == "" {
			continue
		}
		out[cat] = append(out[cat], url)
	}
	return out
}
