package vault

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Built-in template bodies used when the vault ships none. The daily
// fallback deliberately ends at the meetings header so the merger can
// append links right after it.
const (
	defaultMeetingBody = "## Actions\n\n\n## Agenda\n\n"
	defaultDailyBody   = "# 📅 Meetings\n\n"
)

// templaterPlaceholder matches Templater-style <% ... %> inserts, which
// are plain noise outside the Obsidian plugin.
var templaterPlaceholder = regexp.MustCompile(`<%.*?%>`)

// extractTemplateBody strips a template's own frontmatter block and any
// templating-engine placeholders, leaving the reusable body.
func extractTemplateBody(content string) string {
	if strings.HasPrefix(content, "---") {
		if end := strings.Index(content[3:], "---"); end != -1 {
			content = content[3+end+3:]
		}
	}
	content = templaterPlaceholder.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// LoadTemplate resolves a named template from the vault's template folder.
// Returns "" when the vault has no such template; callers supply their own
// fallback bodies.
func (v *Vault) LoadTemplate(name string) string {
	path := filepath.Join(v.Root, v.templatesFolder, name+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return extractTemplateBody(string(data))
}

// MeetingTemplate returns the meeting note body template.
func (v *Vault) MeetingTemplate() string {
	if body := v.LoadTemplate("Meeting Template"); body != "" {
		return body
	}
	return defaultMeetingBody
}

// DailyTemplate returns the daily note body template.
func (v *Vault) DailyTemplate() string {
	if body := v.LoadTemplate("Daily Note Template"); body != "" {
		return body
	}
	return defaultDailyBody
}
