// Package extract locates and cleans the minutes body text inside rendered
// markup. The minutes platform has no stable schema, so candidate containers
// are probed in a fixed priority order and accepted only when they hold
// enough text to be real content rather than decorative chrome.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// bodyLocators is the descending-priority list of content containers. The
// platform-specific ids and class patterns come first; generic semantic
// containers are the fallback. Evaluated first-match-wins.
var bodyLocators = []struct {
	name string
	sel  string
}{
	{"plain-minutes", "#plain-minutes"},
	{"honbun", "#honbun"},
	{"class-minutes", `div[class*="minutes"]`},
	{"class-giji", `div[class*="giji"]`},
	{"data-minutes", "[data-minutes]"},
	{"main", "main"},
	{"article", "article"},
	{"body", "body"},
}

// titleLocators is checked before falling back to the <title> element.
var titleLocators = []string{
	"h1.title",
	"#title",
	".minutes-title",
	"h1",
}

// noiseSelectors are subtrees removed before any text is read.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "header", "footer", "aside",
	"form", "button", "input", "select", "textarea",
	"iframe", "svg", "canvas",
}

// chromeLines are viewer controls that appear as standalone lines adjacent to
// the minutes text and must never leak into the extracted body.
var chromeLines = map[string]struct{}{
	"印刷":       {},
	"印刷する":     {},
	"文字を大きくする": {},
	"文字を小さくする": {},
}

var chromeButtonRe = regexp.MustCompile(`^「.+」ボタン$`)

// signalTokens mark a line as minutes-like in the last-resort body filter.
var signalTokens = []string{
	"会議", "委員会", "市長", "部長", "課長",
	"答弁", "質問", "議事", "会議録", "令和", "平成",
}

const (
	// A candidate container must clear this many runes of cleaned text;
	// decorative containers that match a locator stay under it.
	minBodyRunes = 500
	// Fallback keeps lines longer than this even without a signal token.
	fallbackMinLineRunes = 20
)

// DefaultTitle is used when no heading or page title is usable.
const DefaultTitle = "会議録"

// Body extracts the cleaned minutes body from markup. It returns an empty
// string when the markup holds no recognizable content; it never errors.
func Body(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
	for _, loc := range bodyLocators {
		sel := doc.Find(loc.sel)
		if sel.Length() == 0 {
			continue
		}
		text := dropChromeLines(Flatten(sel.First()))
		if utf8.RuneCountInString(text) > minBodyRunes {
			return text
		}
	}
	return fallbackBody(doc)
}

// fallbackBody is the recall-oriented last resort: take all body text and keep
// only lines that look like minutes content.
func fallbackBody(doc *goquery.Document) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		return ""
	}
	var kept []string
	for _, line := range strings.Split(dropChromeLines(Flatten(body.First())), "\n") {
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > fallbackMinLineRunes || hasSignalToken(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func hasSignalToken(line string) bool {
	for _, tok := range signalTokens {
		if strings.Contains(line, tok) {
			return true
		}
	}
	return false
}

func dropChromeLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if _, ok := chromeLines[trimmed]; ok {
			continue
		}
		if chromeButtonRe.MatchString(trimmed) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Title extracts a document title from markup, trying heading locators, then
// the page <title>, then a fixed placeholder. It never errors.
func Title(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return DefaultTitle
	}
	for _, sel := range titleLocators {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return DefaultTitle
}
