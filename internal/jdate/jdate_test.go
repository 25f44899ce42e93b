package jdate

import (
	"encoding/json"
	"testing"
)

func TestParse_KnownForms(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"令和7年1月23日", "2025-01-23"},
		{"平成16年9月22日", "2004-09-22"},
		{"2024年12月31日", "2024-12-31"},
		{"令和元年5月1日", "2019-05-01"},
		{"令和７年１月２３日", "2025-01-23"}, // full-width digits
		{"２０２４年１２月３１日", "2024-12-31"},
	}
	for _, c := range cases {
		got := Parse(c.in)
		if got == nil {
			t.Fatalf("Parse(%q) returned nil", c.in)
		}
		if got.String() != c.want {
			t.Fatalf("Parse(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParse_RejectsNonDates(t *testing.T) {
	t.Parallel()
	for _, in := range []string{
		"not a date",
		"",
		"令和7年13月1日",
		"2024年2月30日",
		"昭和40年1月1日", // era outside the supported vocabulary
		"年月日",
	} {
		if got := Parse(in); got != nil {
			t.Fatalf("Parse(%q) = %v, want nil", in, got)
		}
	}
}

func TestExtractFromText(t *testing.T) {
	t.Parallel()
	d := ExtractFromText("本会議は令和7年1月23日に開催された。")
	if d == nil || d.String() != "2025-01-23" {
		t.Fatalf("ExtractFromText = %v, want 2025-01-23", d)
	}
	if d := ExtractFromText("議事録本文のみ"); d != nil {
		t.Fatalf("expected nil for text without dates, got %v", d)
	}
	// First match wins when several dates appear.
	d = ExtractFromText("平成16年9月22日から令和7年1月23日まで")
	if d == nil || d.String() != "2004-09-22" {
		t.Fatalf("expected first date, got %v", d)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	t.Parallel()
	in := Date{Year: 2025, Month: 1, Day: 23}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-01-23"` {
		t.Fatalf("unexpected encoding %s", b)
	}
	var out Date
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %v != %v", out, in)
	}
}
