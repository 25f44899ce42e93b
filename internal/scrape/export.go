package scrape

import (
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/civictext/gijiroku/internal/minutes"
)

const exportSeparator = "--------------------------------"

// ExportText writes the document to path as plain UTF-8 text with fixed
// sections: title, date, URL, body, speaker roster. Failures come back as an
// error the caller can log and ignore.
func ExportText(doc *minutes.Document, path string) error {
	var b strings.Builder
	b.WriteString(doc.Title + "\n")
	if doc.MeetingDate != nil {
		b.WriteString(doc.MeetingDate.String() + "\n")
	}
	b.WriteString(doc.URL + "\n")
	b.WriteString(exportSeparator + "\n")
	b.WriteString(doc.Body + "\n")
	b.WriteString(exportSeparator + "\n")
	b.WriteString("発言者\n")
	seen := make(map[string]struct{})
	for _, s := range doc.Segments {
		label := s.Speaker
		if s.Role != "" {
			label = fmt.Sprintf("%s（%s）", s.Speaker, s.Role)
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		b.WriteString(label + "\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ExportPDF renders the document to a simple PDF at path. Layout mirrors the
// text export. Core fonts cover Latin glyphs only, so CJK text renders
// best-effort; the text export is the canonical form.
func ExportPDF(doc *minutes.Document, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.AddPage()
	pdf.MultiCell(0, 8, doc.Title, "", "L", false)

	pdf.SetFont("Helvetica", "", 11)
	if doc.MeetingDate != nil {
		pdf.MultiCell(0, 6, doc.MeetingDate.String(), "", "L", false)
	}
	pdf.MultiCell(0, 6, doc.URL, "", "L", false)
	pdf.Ln(4)
	for _, line := range strings.Split(doc.Body, "\n") {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
	pdf.Ln(4)
	seen := make(map[string]struct{})
	for _, s := range doc.Segments {
		label := s.Speaker
		if s.Role != "" {
			label += " (" + s.Role + ")"
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		pdf.MultiCell(0, 5, label, "", "L", false)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf export: %w", err)
	}
	return nil
}
