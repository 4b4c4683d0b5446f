package domain

import (
	"encoding/json"
	"testing"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#000000", Black, true},
		{"#FFFFFF", White, true},
		{"ff8800", Color{R: 0xff, G: 0x88, B: 0x00, A: 255}, true},
		{"#e0e0e0", GridLine, true},
		{"#f00", Color{R: 255, A: 255}, true},
		{"  #0088FF ", Color{G: 0x88, B: 0xff, A: 255}, true},
		{"#12345", Color{}, false},
		{"#gggggg", Color{}, false},
		{"", Color{}, false},
	}
	for _, tc := range cases {
		got, err := ParseHex(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseHex(%q) error: %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("ParseHex(%q) expected error", tc.in)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("ParseHex(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestHexIsLowerCase(t *testing.T) {
	if got := MustHex("#AbCdEf").Hex(); got != "#abcdef" {
		t.Fatalf("Hex() = %q", got)
	}
}

func TestNearUsesStrictThreshold(t *testing.T) {
	base := Color{R: 100, G: 100, B: 100, A: 255}
	if !base.Near(Color{R: 104, G: 96, B: 100, A: 255}, 5) {
		t.Fatalf("difference of 4 should match at tolerance 5")
	}
	if base.Near(Color{R: 105, G: 100, B: 100, A: 255}, 5) {
		t.Fatalf("difference of 5 must not match at tolerance 5")
	}
	if base.Near(base, 0) {
		t.Fatalf("tolerance 0 matches nothing")
	}
}

func TestEqualIgnoresAlpha(t *testing.T) {
	a := Color{R: 1, G: 2, B: 3, A: 255}
	b := Color{R: 1, G: 2, B: 3, A: 0}
	if !a.Equal(b) {
		t.Fatalf("Equal should compare RGB only")
	}
}

func TestDimensions(t *testing.T) {
	d := Dimensions{CellCount: 4, CellPixelSize: 8}
	if d.SurfaceSize() != 32 {
		t.Fatalf("SurfaceSize = %d", d.SurfaceSize())
	}
	for _, c := range []Cell{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if d.Contains(c) {
			t.Fatalf("%v should be out of range", c)
		}
	}
	if !d.Contains(Cell{3, 3}) {
		t.Fatalf("3,3 should be in range")
	}
	if (Dimensions{CellCount: 0, CellPixelSize: 1}).Valid() {
		t.Fatalf("zero cell count must be invalid")
	}
}

func TestToolParseAndString(t *testing.T) {
	for _, tool := range Tools {
		got, err := ParseTool(tool.String())
		if err != nil || got != tool {
			t.Fatalf("ParseTool(%q) = %v, %v", tool.String(), got, err)
		}
	}
	if _, err := ParseTool("lasso"); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
	if !ToolErase.Paints() || ToolFill.Paints() {
		t.Fatalf("Paints classification wrong")
	}
}

func TestCellJSON(t *testing.T) {
	b, err := json.Marshal(Cell{X: 3, Y: 7})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"x":3,"y":7}` {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestPaletteSize(t *testing.T) {
	if len(Palette) != 16 {
		t.Fatalf("palette has %d colors", len(Palette))
	}
	if Palette[0] != Black || Palette[1] != White {
		t.Fatalf("palette should start with black and white")
	}
}
