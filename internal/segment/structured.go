package segment

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/civictext/gijiroku/internal/extract"
	"github.com/civictext/gijiroku/internal/minutes"
)

// SplitStructured partitions markup into speech segments using explicit
// speech-block containers when the platform provides them, falling back to
// flattened text and the line-based algorithm when it does not.
func SplitStructured(markup string) []minutes.Segment {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	if segs := splitDefinitionLists(doc); len(segs) > 0 {
		return segs
	}
	if segs := splitSpeechBlocks(doc); len(segs) > 0 {
		return segs
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	return Split(extract.Flatten(body.First()))
}

// splitDefinitionLists reads <dl> speaker/utterance pairs: each <dt> names
// the speaker, the following <dd> holds the utterance.
func splitDefinitionLists(doc *goquery.Document) []minutes.Segment {
	var out []minutes.Segment
	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		dl.Find("dt").Each(func(_ int, dt *goquery.Selection) {
			name, role := resolveSpeaker(strings.TrimSpace(dt.Text()))
			if name == "" {
				return
			}
			text := ""
			if dd := dt.NextFiltered("dd"); dd.Length() > 0 {
				text = extract.Flatten(dd.First())
			}
			out = append(out, minutes.Segment{Speaker: name, Role: role, Text: text})
		})
	})
	return out
}

// splitSpeechBlocks reads class-pattern or data-attribute speech containers.
func splitSpeechBlocks(doc *goquery.Document) []minutes.Segment {
	var out []minutes.Segment
	blocks := doc.Find(`[class*="speech"], [class*="hatsugen"], [data-speaker]`)
	blocks.Each(func(_ int, block *goquery.Selection) {
		var name, role string
		if v, ok := block.Attr("data-speaker"); ok && strings.TrimSpace(v) != "" {
			name, role = splitNameRole(strings.TrimSpace(v))
		} else if h := block.Find(".speaker, .speaker-name, dt, h3, h4").First(); h.Length() > 0 {
			name, role = resolveSpeaker(strings.TrimSpace(h.Text()))
		}
		if name == "" {
			return
		}
		content := block.Find(".content, .utterance, dd, p").First()
		text := ""
		if content.Length() > 0 {
			text = extract.Flatten(content)
		} else {
			text = extract.Flatten(block)
		}
		out = append(out, minutes.Segment{Speaker: name, Role: role, Text: text})
	})
	return out
}

// resolveSpeaker applies the same marker resolution the line scanner uses, so
// decorated headings (【名前】, ○名前) and bare names both work.
func resolveSpeaker(heading string) (name, role string) {
	if heading == "" {
		return "", ""
	}
	if n, r, _, ok := matchLine(heading); ok {
		return n, r
	}
	return splitNameRole(heading)
}
