package scrape

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/civictext/gijiroku/internal/jdate"
	"github.com/civictext/gijiroku/internal/minutes"
)

func exportDoc() *minutes.Document {
	return &minutes.Document{
		Title:       "令和7年第1回定例会",
		MeetingDate: &jdate.Date{Year: 2025, Month: 1, Day: 23},
		URL:         "https://ssp.kaigiroku.net/tenant/kita/MinuteView.html?council_id=208&schedule_id=3",
		Body:        "【山田太郎議員】発言A",
		Segments: []minutes.Segment{
			{Speaker: "山田太郎", Role: "議員", Text: "発言A"},
			{Speaker: "鈴木花子", Text: "発言B"},
		},
		CapturedAt: time.Now().UTC(),
	}
}

func TestExportText_SectionsInOrder(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := ExportText(exportDoc(), path); err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(raw)
	for _, want := range []string{
		"令和7年第1回定例会",
		"2025-01-23",
		"council_id=208",
		exportSeparator,
		"発言A",
		"山田太郎（議員）",
		"鈴木花子",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("export missing %q:\n%s", want, text)
		}
	}
	// Title comes before the body, roster after it.
	if strings.Index(text, "令和7年第1回定例会") > strings.Index(text, "発言A") {
		t.Fatalf("title must precede body")
	}
	if strings.Index(text, "山田太郎（議員）") < strings.Index(text, "発言A") {
		t.Fatalf("roster must follow body")
	}
}

func TestExportText_FailureReturnsError(t *testing.T) {
	t.Parallel()
	err := ExportText(exportDoc(), filepath.Join(t.TempDir(), "missing", "out.txt"))
	if err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}

func TestExportPDF_WritesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := ExportPDF(exportDoc(), path); err != nil {
		t.Fatalf("export: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("empty pdf written")
	}
}
