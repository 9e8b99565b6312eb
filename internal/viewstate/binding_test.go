package viewstate

import (
	"math"
	"strings"
	"testing"
)

func mustParse(t *testing.T, raw string) *Values {
	t.Helper()
	q, err := ParseQuery(raw)
	if err != nil {
		t.Fatalf("failed to parse query %q: %v", raw, err)
	}
	return q
}

func TestStringBindingDefaultOmission(t *testing.T) {
	q := mustParse(t, "date=2024-01-01")
	b := stringBinding("date", "latest")

	if got := b.read(q); got != "2024-01-01" {
		t.Fatalf("expected 2024-01-01, got %q", got)
	}

	b.write(q, "latest")
	if got := b.read(q); got != "latest" {
		t.Fatalf("expected default latest after writing default, got %q", got)
	}
	if enc := q.Encode(); strings.Contains(enc, "date") {
		t.Fatalf("expected date elided from query, got %q", enc)
	}
}

func TestStringBindingRoundTrip(t *testing.T) {
	q := mustParse(t, "")
	b := stringBinding("task", "CheckRabi")

	b.write(q, "CheckT1")

	fresh := mustParse(t, q.Encode())
	if got := b.read(fresh); got != "CheckT1" {
		t.Fatalf("expected CheckT1 after round trip, got %q", got)
	}
}

func TestBoolBindingParseFailureFallsBack(t *testing.T) {
	q := mustParse(t, "errorRate=banana")
	b := boolBinding("errorRate", false)

	if got := b.read(q); got != false {
		t.Fatalf("expected default false for unparsable bool, got %v", got)
	}
}

func TestBoolBindingRoundTrip(t *testing.T) {
	q := mustParse(t, "")
	b := boolBinding("errorRate", false)

	b.write(q, true)
	if enc := q.Encode(); enc != "errorRate=true" {
		t.Fatalf("expected errorRate=true, got %q", enc)
	}

	b.write(q, false)
	if enc := q.Encode(); enc != "" {
		t.Fatalf("expected empty query after writing default, got %q", enc)
	}
}

func TestIntBindingParseFailureFallsBack(t *testing.T) {
	q := mustParse(t, "days=ninety")
	b := intBinding("days")

	if got := b.read(q); got != nil {
		t.Fatalf("expected nil for unparsable int, got %d", *got)
	}
}

func TestIntBindingRoundTrip(t *testing.T) {
	q := mustParse(t, "")
	b := intBinding("days")

	d := 30
	b.write(q, &d)

	fresh := mustParse(t, q.Encode())
	got := b.read(fresh)
	if got == nil || *got != 30 {
		t.Fatalf("expected 30 after round trip, got %v", got)
	}

	b.write(q, nil)
	if enc := q.Encode(); enc != "" {
		t.Fatalf("expected empty query after writing nil, got %q", enc)
	}
}

func TestFloatBindingParseFailureFallsBack(t *testing.T) {
	for _, raw := range []string{"threshold=high", "threshold=NaN", "threshold=%2BInf"} {
		q := mustParse(t, raw)
		b := floatBinding("threshold")
		if got := b.read(q); got != nil {
			t.Fatalf("expected nil for %q, got %v", raw, *got)
		}
	}
}

func TestFloatBindingNaNWriteRemovesKey(t *testing.T) {
	q := mustParse(t, "threshold=5")
	b := floatBinding("threshold")

	nan := math.NaN()
	b.write(q, &nan)

	if enc := q.Encode(); enc != "" {
		t.Fatalf("expected threshold removed when writing NaN, got %q", enc)
	}
	if got := b.read(q); got != nil {
		t.Fatalf("expected nil read after NaN write, got %v", *got)
	}
}

func TestFloatBindingRoundTrip(t *testing.T) {
	q := mustParse(t, "")
	b := floatBinding("threshold")

	v := 5.0
	b.write(q, &v)

	fresh := mustParse(t, q.Encode())
	got := b.read(fresh)
	if got == nil || *got != 5.0 {
		t.Fatalf("expected 5.0 after round trip, got %v", got)
	}
}

func TestStringListBindingOrderRoundTrip(t *testing.T) {
	q := mustParse(t, "")
	b := stringListBinding("params", []string{})

	want := []string{"t2_star", "t1", "gate_fidelity"}
	b.write(q, want)

	fresh := mustParse(t, q.Encode())
	got := b.read(fresh)
	if !stringSlicesEqual(got, want) {
		t.Fatalf("expected %v after round trip, got %v", want, got)
	}
}

func TestStringListBindingDropsEmptyElements(t *testing.T) {
	q := mustParse(t, "params=t1,,t2_echo")
	b := stringListBinding("params", []string{})

	got := b.read(q)
	if !stringSlicesEqual(got, []string{"t1", "t2_echo"}) {
		t.Fatalf("expected empty elements dropped, got %v", got)
	}
}

func TestStringListBindingDefaultOmission(t *testing.T) {
	q := mustParse(t, "")
	b := stringListBinding("params", []string{"t1", "t2_echo", "t2_star"})

	b.write(q, []string{"t1", "t2_echo", "t2_star"})
	if enc := q.Encode(); enc != "" {
		t.Fatalf("expected default list elided, got %q", enc)
	}
	if got := b.read(q); !stringSlicesEqual(got, []string{"t1", "t2_echo", "t2_star"}) {
		t.Fatalf("expected default list on read, got %v", got)
	}

	// Same elements in a different order are a different value.
	b.write(q, []string{"t2_star", "t2_echo", "t1"})
	if enc := q.Encode(); enc == "" {
		t.Fatalf("expected reordered list written, got empty query")
	}
}

func TestNullableStringBinding(t *testing.T) {
	q := mustParse(t, "chip=CHIP01")
	b := nullableStringBinding("chip")

	got := b.read(q)
	if got == nil || *got != "CHIP01" {
		t.Fatalf("expected CHIP01, got %v", got)
	}

	b.write(q, nil)
	if enc := q.Encode(); enc != "" {
		t.Fatalf("expected chip removed, got %q", enc)
	}
	if got := b.read(q); got != nil {
		t.Fatalf("expected nil after clearing, got %q", *got)
	}
}
