package cache

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/civictext/gijiroku/internal/jdate"
	"github.com/civictext/gijiroku/internal/minutes"
)

func sampleDoc(body string) *minutes.Document {
	return &minutes.Document{
		CouncilID:   "208",
		ScheduleID:  "3",
		Title:       "令和7年第1回定例会",
		MeetingDate: &jdate.Date{Year: 2025, Month: 1, Day: 23},
		URL:         "https://ssp.kaigiroku.net/tenant/kita/MinuteView.html?council_id=208&schedule_id=3",
		Body:        body,
		Segments:    []minutes.Segment{{Speaker: "山田太郎", Role: "議員", Text: body}},
		CapturedAt:  time.Date(2025, 2, 1, 9, 30, 15, 123456789, time.UTC),
	}
}

func TestDocumentCache_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	c := &DocumentCache{Dir: t.TempDir()}
	ctx := context.Background()
	in := sampleDoc("発言A")
	if err := c.Save(ctx, in.URL, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !c.Has(ctx, in.URL) {
		t.Fatalf("expected entry to exist")
	}
	out, err := c.Load(ctx, in.URL)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !out.CapturedAt.Equal(in.CapturedAt) {
		t.Fatalf("captured_at drifted: %v != %v", out.CapturedAt, in.CapturedAt)
	}
	out.CapturedAt = in.CapturedAt
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestDocumentCache_SaveOverwritesWholeEntry(t *testing.T) {
	t.Parallel()
	c := &DocumentCache{Dir: t.TempDir()}
	ctx := context.Background()
	url := "https://example.jp/minutes"
	if err := c.Save(ctx, url, sampleDoc("旧本文")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := c.Save(ctx, url, sampleDoc("新本文")); err != nil {
		t.Fatalf("second save: %v", err)
	}
	out, err := c.Load(ctx, url)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Body != "新本文" {
		t.Fatalf("expected overwritten body, got %q", out.Body)
	}
}

func TestDocumentCache_MissAndMisconfiguration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &DocumentCache{Dir: t.TempDir()}
	if c.Has(ctx, "https://example.jp/none") {
		t.Fatalf("unexpected hit")
	}
	if _, err := c.Load(ctx, "https://example.jp/none"); err == nil {
		t.Fatalf("expected error on miss")
	}
	empty := &DocumentCache{}
	if err := empty.Save(ctx, "https://example.jp/x", sampleDoc("x")); err == nil {
		t.Fatalf("expected error for unconfigured dir")
	}
}

func TestDocumentCache_KeyIsStable(t *testing.T) {
	t.Parallel()
	c := &DocumentCache{Dir: t.TempDir()}
	u := "https://example.jp/minutes.pdf"
	if c.Key(u) != c.Key(u) {
		t.Fatalf("key not deterministic")
	}
	if c.Key(u) == c.Key(u+"?x=1") {
		t.Fatalf("distinct URLs share a key")
	}
}
