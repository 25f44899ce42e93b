package segment

import (
	"reflect"
	"testing"

	"github.com/civictext/gijiroku/internal/minutes"
)

func TestSplit_BracketMarkersWithContinuation(t *testing.T) {
	t.Parallel()
	text := "【山田太郎議員】発言A\n発言Aの続き\n【鈴木花子委員】発言B"
	got := Split(text)
	want := []minutes.Segment{
		{Speaker: "山田太郎", Role: "議員", Text: "発言A\n発言Aの続き"},
		{Speaker: "鈴木花子", Role: "委員", Text: "発言B"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split = %+v, want %+v", got, want)
	}
}

func TestSplit_MarkerFamilies(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want minutes.Segment
	}{
		{"bracket name only", "【佐藤一郎】おはようございます", minutes.Segment{Speaker: "佐藤一郎", Text: "おはようございます"}},
		{"circle with role", "○田中次郎市長　答弁いたします", minutes.Segment{Speaker: "田中次郎", Role: "市長", Text: "答弁いたします"}},
		{"circle name only", "○高橋三郎　質問します", minutes.Segment{Speaker: "高橋三郎", Text: "質問します"}},
		{"colon with role", "伊藤四郎委員長：開会します", minutes.Segment{Speaker: "伊藤四郎", Role: "委員長", Text: "開会します"}},
		{"colon name only", "渡辺五郎：了解しました", minutes.Segment{Speaker: "渡辺五郎", Text: "了解しました"}},
		{"paren with role", "（中村六郎議長）休憩とします", minutes.Segment{Speaker: "中村六郎", Role: "議長", Text: "休憩とします"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Split(c.in)
			if len(got) != 1 || got[0] != c.want {
				t.Fatalf("Split(%q) = %+v, want %+v", c.in, got, c.want)
			}
		})
	}
}

func TestSplit_BareTrailingNameRoleLine(t *testing.T) {
	t.Parallel()
	got := Split("小林七子議員\nただいまの件について伺います")
	want := []minutes.Segment{{Speaker: "小林七子", Role: "議員", Text: "ただいまの件について伺います"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split = %+v, want %+v", got, want)
	}
}

func TestSplit_DiscardsPreambleAndAllowsEmptyUtterance(t *testing.T) {
	t.Parallel()
	got := Split("議事日程は次のとおり\n\n【山田太郎議員】")
	want := []minutes.Segment{{Speaker: "山田太郎", Role: "議員", Text: ""}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split = %+v, want %+v", got, want)
	}
	if got := Split("マーカーのない行だけ"); got != nil {
		t.Fatalf("expected no segments, got %+v", got)
	}
}

func TestSplit_RoleStrippingIsPositionDependent(t *testing.T) {
	t.Parallel()
	// 副委員長 embeds 委員長, which sits earlier in the vocabulary, so the
	// earlier token wins and the leading 副 stays on the name.
	name, role := splitNameRole("佐藤副委員長")
	if role != "委員長" || name != "佐藤副" {
		t.Fatalf("splitNameRole = (%q, %q)", name, role)
	}
}

func TestMergeContinuations(t *testing.T) {
	t.Parallel()
	in := []minutes.Segment{
		{Speaker: "山田太郎", Role: "議員", Text: "一"},
		{Speaker: "山田太郎", Role: "議員", Text: "二"},
		{Speaker: "鈴木花子", Role: "委員", Text: "三"},
		{Speaker: "山田太郎", Role: "議員", Text: "四"},
	}
	want := []minutes.Segment{
		{Speaker: "山田太郎", Role: "議員", Text: "一\n\n二"},
		{Speaker: "鈴木花子", Role: "委員", Text: "三"},
		{Speaker: "山田太郎", Role: "議員", Text: "四"},
	}
	got := MergeContinuations(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergeContinuations = %+v, want %+v", got, want)
	}
	// Idempotent on an already-merged list.
	again := MergeContinuations(got)
	if !reflect.DeepEqual(again, want) {
		t.Fatalf("second merge changed result: %+v", again)
	}
	// Same speaker with a different role is never merged.
	mixed := MergeContinuations([]minutes.Segment{
		{Speaker: "山田太郎", Role: "議員", Text: "一"},
		{Speaker: "山田太郎", Role: "議長", Text: "二"},
	})
	if len(mixed) != 2 {
		t.Fatalf("role mismatch merged: %+v", mixed)
	}
}

func TestSplitStructured_DefinitionList(t *testing.T) {
	t.Parallel()
	markup := `<html><body><dl>
		<dt>【山田太郎議員】</dt><dd><p>発言A</p></dd>
		<dt>鈴木花子委員</dt><dd><p>発言B</p></dd>
	</dl></body></html>`
	got := SplitStructured(markup)
	want := []minutes.Segment{
		{Speaker: "山田太郎", Role: "議員", Text: "発言A"},
		{Speaker: "鈴木花子", Role: "委員", Text: "発言B"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitStructured = %+v, want %+v", got, want)
	}
}

func TestSplitStructured_DataAttributeBlocks(t *testing.T) {
	t.Parallel()
	markup := `<html><body>
		<div data-speaker="田中次郎市長"><p class="content">答弁いたします</p></div>
	</body></html>`
	got := SplitStructured(markup)
	want := []minutes.Segment{{Speaker: "田中次郎", Role: "市長", Text: "答弁いたします"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitStructured = %+v, want %+v", got, want)
	}
}

func TestSplitStructured_FallsBackToLineScan(t *testing.T) {
	t.Parallel()
	markup := `<html><body><div>
		<p>【山田太郎議員】発言A</p>
		<p>発言Aの続き</p>
	</div></body></html>`
	got := SplitStructured(markup)
	if len(got) != 1 || got[0].Speaker != "山田太郎" || got[0].Role != "議員" {
		t.Fatalf("SplitStructured fallback = %+v", got)
	}
}