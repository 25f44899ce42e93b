package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/civictext/gijiroku/internal/extract"
)

type stubDownloader struct {
	path string
	text string

	urls []string
}

func (s *stubDownloader) DownloadAndExtract(_ context.Context, url, _, _ string) (string, string) {
	s.urls = append(s.urls, url)
	return s.path, s.text
}

func TestPDFScraper_Success(t *testing.T) {
	t.Parallel()
	dl := &stubDownloader{path: "/tmp/pdf/a_b.pdf", text: "会議録本文"}
	p := &PDFScraper{PDF: dl}
	url := "https://example.jp/docs/%E5%AE%9A%E4%BE%8B%E4%BC%9A_2025-01-23.pdf"
	doc, err := p.FetchMinutes(context.Background(), url)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if doc.PDFURL != url || doc.URL != url {
		t.Fatalf("urls not preserved: %+v", doc)
	}
	if doc.Body != "会議録本文" {
		t.Fatalf("body = %q", doc.Body)
	}
	if doc.Title != "定例会 2025 01 23" {
		t.Fatalf("title = %q", doc.Title)
	}
	if doc.CouncilID == "" || doc.ScheduleID == "" {
		t.Fatalf("ids not synthesized: %+v", doc)
	}
	if doc.Meta["pdf_path"] != "/tmp/pdf/a_b.pdf" {
		t.Fatalf("meta = %+v", doc.Meta)
	}
}

func TestPDFScraper_SegmentsExtractedText(t *testing.T) {
	t.Parallel()
	text := "【山田太郎議員】発言A\n発言Aの続き\n【鈴木花子委員】発言B"
	p := &PDFScraper{PDF: &stubDownloader{text: text}}
	doc, err := p.FetchMinutes(context.Background(), "https://example.jp/giji.pdf")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(doc.Segments) != 2 {
		t.Fatalf("segments = %d, want 2: %+v", len(doc.Segments), doc.Segments)
	}
	if doc.Segments[0].Speaker != "山田太郎" || doc.Segments[0].Role != "議員" {
		t.Fatalf("first segment = %+v", doc.Segments[0])
	}
	if doc.Segments[0].Text != "発言A\n発言Aの続き" {
		t.Fatalf("continuation not attached: %q", doc.Segments[0].Text)
	}
	if doc.Segments[1].Speaker != "鈴木花子" || doc.Segments[1].Text != "発言B" {
		t.Fatalf("second segment = %+v", doc.Segments[1])
	}
}

func TestPDFScraper_IDsAreDeterministic(t *testing.T) {
	t.Parallel()
	p := &PDFScraper{PDF: &stubDownloader{text: "x"}}
	ctx := context.Background()
	a, _ := p.FetchMinutes(ctx, "https://example.jp/a.pdf")
	b, _ := p.FetchMinutes(ctx, "https://example.jp/a.pdf")
	c, _ := p.FetchMinutes(ctx, "https://example.jp/c.pdf")
	if a.CouncilID != b.CouncilID || a.ScheduleID != b.ScheduleID {
		t.Fatalf("ids unstable across repeats: %+v vs %+v", a, b)
	}
	if a.CouncilID == c.CouncilID {
		t.Fatalf("distinct urls share a council id")
	}
}

func TestPDFScraper_EmptyExtractionIsNil(t *testing.T) {
	t.Parallel()
	p := &PDFScraper{PDF: &stubDownloader{}}
	doc, err := p.FetchMinutes(context.Background(), "https://example.jp/a.pdf")
	if doc != nil || !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected ErrEmptyBody, got doc=%v err=%v", doc, err)
	}
}

func TestTitleFromURL_PlaceholderWhenUnusable(t *testing.T) {
	t.Parallel()
	if got := titleFromURL("https://example.jp/.pdf"); got != extract.DefaultTitle {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := titleFromURL("https://example.jp/giji_2024.pdf"); got != "giji 2024" {
		t.Fatalf("got %q", got)
	}
}
