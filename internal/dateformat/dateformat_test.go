package dateformat

import (
	"testing"
	"time"
)

func TestSingleTokens(t *testing.T) {
	cases := map[string]string{
		"YYYY": "2006",
		"YY":   "06",
		"MMMM": "January",
		"MMM":  "Jan",
		"MM":   "01",
		"M":    "1",
		"DD":   "02",
		"D":    "2",
		"dddd": "Monday",
		"ddd":  "Mon",
		"HH":   "15",
		"hh":   "03",
		"h":    "3",
		"mm":   "04",
		"ss":   "05",
		"A":    "PM",
		"a":    "pm",
	}
	for pattern, want := range cases {
		if got := ToGoLayout(pattern); got != want {
			t.Errorf("ToGoLayout(%q) = %q, want %q", pattern, got, want)
		}
	}
}

func TestCompositePattern(t *testing.T) {
	layout := ToGoLayout("YYYY/MM-MMMM/YYYY-MM-DD dddd")
	if layout != "2006/01-January/2006-01-02 Monday" {
		t.Fatalf("layout = %q", layout)
	}

	day := time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC)
	got := day.Format(layout)
	want := "2026/02-February/2026-02-26 Thursday"
	if got != want {
		t.Errorf("formatted = %q, want %q", got, want)
	}
}

func TestLongestTokenWins(t *testing.T) {
	// YYYY must not be consumed as two YY tokens.
	if got := ToGoLayout("YYYY-YY"); got != "2006-06" {
		t.Errorf("ToGoLayout(YYYY-YY) = %q, want %q", got, "2006-06")
	}
	// dddd must not be consumed as ddd + d.
	if got := ToGoLayout("dddd"); got != "Monday" {
		t.Errorf("ToGoLayout(dddd) = %q, want %q", got, "Monday")
	}
}

func TestReplacementTextIsProtected(t *testing.T) {
	// "January" contains "a" (a meridiem token); the placeholder pass must
	// keep the substituted month name intact.
	if got := ToGoLayout("MMMM a"); got != "January pm" {
		t.Errorf("ToGoLayout(MMMM a) = %q, want %q", got, "January pm")
	}
}

func TestLiteralsPassThrough(t *testing.T) {
	if got := ToGoLayout("YYYY/MM/DD"); got != "2006/01/02" {
		t.Errorf("separators mangled: %q", got)
	}
	// Unknown tokens are preserved as literal text, not errors.
	if got := ToGoLayout("QQ-YYYY"); got != "QQ-2006" {
		t.Errorf("unknown token not preserved: %q", got)
	}
}
