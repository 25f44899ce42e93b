// Package minutes holds the structured output of one acquisition: a minutes
// document and its ordered speech segments.
package minutes

import (
	"time"

	"github.com/civictext/gijiroku/internal/jdate"
)

// Segment is one contiguous attributed utterance. Speaker is the raw display
// name as it appears in the source, not yet resolved to a known person.
type Segment struct {
	Speaker string `json:"speaker"`
	Role    string `json:"role,omitempty"`
	Text    string `json:"text"`
}

// Document is one captured minutes record. Instances are treated as immutable
// once constructed; the JSON encoding doubles as the cache file format.
type Document struct {
	CouncilID   string            `json:"council_id"`
	ScheduleID  string            `json:"schedule_id"`
	Title       string            `json:"title"`
	MeetingDate *jdate.Date       `json:"meeting_date,omitempty"`
	URL         string            `json:"url"`
	PDFURL      string            `json:"pdf_url,omitempty"`
	Body        string            `json:"body"`
	Segments    []Segment         `json:"segments,omitempty"`
	CapturedAt  time.Time         `json:"captured_at"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// Speakers returns the distinct raw speaker names in first-appearance order,
// the input expected by the downstream speaker-resolution step.
func (d *Document) Speakers() []string {
	seen := make(map[string]struct{}, len(d.Segments))
	var out []string
	for _, s := range d.Segments {
		if _, ok := seen[s.Speaker]; ok {
			continue
		}
		seen[s.Speaker] = struct{}{}
		out = append(out, s.Speaker)
	}
	return out
}
