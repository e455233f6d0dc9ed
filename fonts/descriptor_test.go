package fonts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDescriptor(t *testing.T) {
	cases := []struct {
		in   string
		want Descriptor
	}{
		{"48px sans-serif", Descriptor{Size: 48}},
		{"bold 64px sans-serif", Descriptor{Face: Face{Weight: WeightBold}, Size: 64}},
		{"italic 700 32px 'Go Mono', monospace", Descriptor{Face: Face{Family: FamilyMono, Weight: WeightBold, Italic: true}, Size: 32}},
		{"medium 12pt Helvetica", Descriptor{Face: Face{Weight: WeightMedium}, Size: 16}},
		{"small-caps 20px/1.2 serif", Descriptor{Face: Face{Family: FamilySmallcaps}, Size: 20}},
		{"oblique normal 10px \"Unknown Font\", mono", Descriptor{Face: Face{Family: FamilyMono, Italic: true}, Size: 10}},
	}
	for _, tc := range cases {
		got, err := ParseDescriptor(tc.in)
		if err != nil {
			t.Fatalf("ParseDescriptor(%q) error: %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("ParseDescriptor(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParseDescriptorErrors(t *testing.T) {
	for _, in := range []string{"", "sans-serif", "bold", "0px sans", "fancy 12px go", "48 sans-serif"} {
		if _, err := ParseDescriptor(in); err == nil {
			t.Fatalf("ParseDescriptor(%q) expected error", in)
		}
	}
}

func TestDescriptorStringRoundTrip(t *testing.T) {
	for _, in := range []string{"48px sans-serif", "italic bold 31.5px monospace", "medium 12px smallcaps"} {
		d := MustParseDescriptor(in)
		back, err := ParseDescriptor(d.String())
		if err != nil {
			t.Fatalf("re-parse %q: %v", d.String(), err)
		}
		if diff := cmp.Diff(d, back); diff != "" {
			t.Fatalf("round trip of %q mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestLoadBuiltinFaces(t *testing.T) {
	for _, fam := range []Family{FamilyGo, FamilyMono, FamilySmallcaps} {
		for _, w := range []Weight{WeightRegular, WeightMedium, WeightBold} {
			for _, italic := range []bool{false, true} {
				face := Face{Family: fam, Weight: w, Italic: italic}
				if len(Load(face)) == 0 {
					t.Fatalf("no font data for %s", face.Key())
				}
				if _, err := openType(face); err != nil {
					t.Fatalf("parse %s: %v", face.Key(), err)
				}
			}
		}
	}
}
