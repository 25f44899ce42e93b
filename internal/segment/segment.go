// Package segment partitions minutes text into ordered speaker-attributed
// utterances. Japanese councils mark speakers with several conventions
// (【名前】, ○名前, 名前：, （名前）, bare name+role lines); the marker
// families are held as an ordered table evaluated first-match-wins per line.
package segment

import (
	"regexp"
	"strings"

	"github.com/civictext/gijiroku/internal/minutes"
)

// roles is the fixed role vocabulary in checked order. Stripping takes the
// first token found in the matched name, so a name embedding several tokens
// resolves by position in this list, not by longest match.
var roles = []string{
	"議員",
	"委員長",
	"委員",
	"市長",
	"町長",
	"村長",
	"知事",
	"部長",
	"次長",
	"課長",
	"局長",
	"副議長",
	"議長",
	"副委員長",
}

var rolePattern = strings.Join(roles, "|")

// matchFn tries one marker family against a line. rest is same-line utterance
// text following the marker.
type matchFn func(line string) (name, role, rest string, ok bool)

var (
	bracketRe  = regexp.MustCompile(`^【([^】]+)】\s*(.*)$`)
	circleRe   = regexp.MustCompile(`^[○◯●]\s*([^　\s：:]+)[　\s]*(.*)$`)
	colonRe    = regexp.MustCompile(`^([^　\s：:]{2,20})[：:]\s*(.*)$`)
	parenRe    = regexp.MustCompile(`^[（(]([^）)]+)[）)]\s*(.*)$`)
	trailingRe = regexp.MustCompile(`^([^　\s]{1,10}(?:` + rolePattern + `))$`)
)

// markers is the ordered family table; within each bracket/circle/colon pair
// the role-bearing variant is tried before the name-only variant.
var markers = []matchFn{
	matchVariant(bracketRe, true),
	matchVariant(bracketRe, false),
	matchVariant(circleRe, true),
	matchVariant(circleRe, false),
	matchVariant(colonRe, true),
	matchVariant(colonRe, false),
	matchVariant(parenRe, true),
	matchTrailing,
}

func matchVariant(re *regexp.Regexp, wantRole bool) matchFn {
	return func(line string) (string, string, string, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return "", "", "", false
		}
		name, role := splitNameRole(strings.TrimSpace(m[1]))
		if name == "" {
			return "", "", "", false
		}
		if wantRole && role == "" {
			return "", "", "", false
		}
		return name, role, strings.TrimSpace(m[2]), true
	}
}

// matchTrailing accepts a line that consists solely of a name immediately
// followed by a role token.
func matchTrailing(line string) (string, string, string, bool) {
	m := trailingRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	name, role := splitNameRole(m[1])
	if name == "" || role == "" {
		return "", "", "", false
	}
	return name, role, "", true
}

// splitNameRole strips the first role-vocabulary token embedded in s and
// returns it separately. Position in the vocabulary decides ties.
func splitNameRole(s string) (name, role string) {
	for _, r := range roles {
		if i := strings.Index(s, r); i >= 0 {
			name = strings.TrimSpace(s[:i] + s[i+len(r):])
			return name, r
		}
	}
	return s, ""
}

// Split partitions text into ordered speech segments. Lines before the first
// speaker marker are discarded; text after a marker accumulates under the
// current speaker until the next marker or end of input.
func Split(text string) []minutes.Segment {
	var (
		out      []minutes.Segment
		curName  string
		curRole  string
		curLines []string
	)
	flush := func() {
		if curName == "" {
			return
		}
		out = append(out, minutes.Segment{
			Speaker: curName,
			Role:    curRole,
			Text:    strings.Join(curLines, "\n"),
		})
		curName, curRole, curLines = "", "", nil
	}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if name, role, rest, ok := matchLine(line); ok {
			flush()
			curName, curRole = name, role
			if rest != "" {
				curLines = append(curLines, rest)
			}
			continue
		}
		if curName != "" {
			curLines = append(curLines, line)
		}
	}
	flush()
	return out
}

func matchLine(line string) (name, role, rest string, ok bool) {
	for _, fn := range markers {
		if name, role, rest, ok = fn(line); ok {
			return name, role, rest, true
		}
	}
	return "", "", "", false
}

// MergeContinuations merges adjacent segments sharing the same speaker and
// role, joining their text with a blank line. Order is preserved and the
// operation is idempotent.
func MergeContinuations(segs []minutes.Segment) []minutes.Segment {
	if len(segs) == 0 {
		return nil
	}
	out := make([]minutes.Segment, 0, len(segs))
	for _, s := range segs {
		if n := len(out); n > 0 && out[n-1].Speaker == s.Speaker && out[n-1].Role == s.Role {
			if s.Text != "" {
				if out[n-1].Text != "" {
					out[n-1].Text += "\n\n" + s.Text
				} else {
					out[n-1].Text = s.Text
				}
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
