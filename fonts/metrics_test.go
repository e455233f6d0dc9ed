package fonts

import (
	"sync"
	"testing"
)

func TestMeasureGrowsWithContentAndSize(t *testing.T) {
	small := MustParseDescriptor("24px sans-serif")
	big := MustParseDescriptor("48px sans-serif")

	hello := Measure("HELLO", small)
	if hello.Width <= 0 || hello.Ascent <= 0 {
		t.Fatalf("expected positive extent, got %+v", hello)
	}
	longer := Measure("HELLO WORLD", small)
	if longer.Width <= hello.Width {
		t.Fatalf("longer text should be wider: %g <= %g", longer.Width, hello.Width)
	}
	bigger := Measure("HELLO", big)
	if bigger.Width <= hello.Width || bigger.Ascent <= hello.Ascent {
		t.Fatalf("bigger font should be larger: %+v vs %+v", bigger, hello)
	}
}

func TestMeasureInkExtents(t *testing.T) {
	d := MustParseDescriptor("40px sans-serif")
	caps := Measure("HELLO", d)
	if caps.Descent > 3 {
		t.Fatalf("capitals should not descend, got descent %g", caps.Descent)
	}
	desc := Measure("gjpqy", d)
	if desc.Descent <= caps.Descent {
		t.Fatalf("descenders expected below baseline: %+v", desc)
	}
	if got := Measure("", d); got != (Metrics{}) {
		t.Fatalf("empty text should measure zero, got %+v", got)
	}
}

func TestMeasureConcurrentCallsAgree(t *testing.T) {
	d := MustParseDescriptor("bold 36px monospace")
	want := Measure("concurrent", d)

	var wg sync.WaitGroup
	results := make([]Metrics, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Measure("concurrent", d)
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		if got != want {
			t.Fatalf("call %d measured %+v, want %+v", i, got, want)
		}
	}
}
