package fill

import (
	"bytes"
	"testing"

	"gopixelart/internal/domain"
	"gopixelart/internal/raster"
)

var red = domain.Color{R: 255, A: 255}

func cellsOf(t *testing.T, s *raster.Surface) [][]domain.Color {
	t.Helper()
	n := s.Dimensions().CellCount
	out := make([][]domain.Color, n)
	for y := 0; y < n; y++ {
		out[y] = make([]domain.Color, n)
		for x := 0; x < n; x++ {
			out[y][x], _ = s.SampleCell(domain.Cell{X: x, Y: y})
		}
	}
	return out
}

func TestFillWholeWhiteGrid(t *testing.T) {
	s := raster.New(domain.Dimensions{CellCount: 4, CellPixelSize: 4})
	if n := Fill(s, domain.Cell{}, red, Options{}); n != 16 {
		t.Fatalf("painted %d cells, want 16", n)
	}
	for y, row := range cellsOf(t, s) {
		for x, c := range row {
			if c != red {
				t.Fatalf("cell %d,%d = %v", x, y, c)
			}
		}
	}
}

func TestFillStopsAtBorder(t *testing.T) {
	s := raster.New(domain.Dimensions{CellCount: 5, CellPixelSize: 4})
	for i := 0; i < 5; i++ {
		s.PaintCell(domain.Cell{X: i, Y: 0}, domain.Black)
		s.PaintCell(domain.Cell{X: i, Y: 4}, domain.Black)
		s.PaintCell(domain.Cell{X: 0, Y: i}, domain.Black)
		s.PaintCell(domain.Cell{X: 4, Y: i}, domain.Black)
	}
	if n := Fill(s, domain.Cell{X: 1, Y: 1}, red, Options{}); n != 9 {
		t.Fatalf("painted %d cells, want 9", n)
	}
	for y, row := range cellsOf(t, s) {
		for x, c := range row {
			edge := x == 0 || y == 0 || x == 4 || y == 4
			if edge && c != domain.Black {
				t.Fatalf("border cell %d,%d recolored to %v", x, y, c)
			}
			if !edge && c != red {
				t.Fatalf("interior cell %d,%d = %v", x, y, c)
			}
		}
	}
}

func TestFillIsFourConnected(t *testing.T) {
	// A diagonal wall of black cells splits the grid; the fill must not leak
	// through the diagonal gaps.
	s := raster.New(domain.Dimensions{CellCount: 4, CellPixelSize: 3})
	for i := 0; i < 4; i++ {
		s.PaintCell(domain.Cell{X: i, Y: 3 - i}, domain.Black)
	}
	Fill(s, domain.Cell{X: 0, Y: 0}, red, Options{})
	got := cellsOf(t, s)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			switch {
			case x+y == 3:
				if got[y][x] != domain.Black {
					t.Fatalf("wall cell %d,%d = %v", x, y, got[y][x])
				}
			case x+y < 3:
				if got[y][x] != red {
					t.Fatalf("cell %d,%d should be filled", x, y)
				}
			default:
				if got[y][x] != domain.White {
					t.Fatalf("cell %d,%d leaked across the diagonal", x, y)
				}
			}
		}
	}
}

func TestFillIdempotent(t *testing.T) {
	s := raster.New(domain.Dimensions{CellCount: 6, CellPixelSize: 4})
	s.PaintCell(domain.Cell{X: 2, Y: 2}, domain.Black)
	s.PaintCell(domain.Cell{X: 3, Y: 2}, domain.Black)
	Fill(s, domain.Cell{X: 0, Y: 0}, red, Options{})
	once := append([]byte(nil), s.Image().Pix...)
	if n := Fill(s, domain.Cell{X: 0, Y: 0}, red, Options{}); n != 0 {
		t.Fatalf("second fill painted %d cells", n)
	}
	if !bytes.Equal(once, s.Image().Pix) {
		t.Fatalf("second fill changed the surface")
	}
}

func TestFillTolerance(t *testing.T) {
	s := raster.New(domain.Dimensions{CellCount: 3, CellPixelSize: 4})
	nearWhite := domain.Color{R: 252, G: 251, B: 255, A: 255}
	farWhite := domain.Color{R: 250, G: 255, B: 255, A: 255}
	s.PaintCell(domain.Cell{X: 1, Y: 0}, nearWhite)
	s.PaintCell(domain.Cell{X: 1, Y: 1}, farWhite)
	Fill(s, domain.Cell{X: 0, Y: 0}, red, Options{})
	got := cellsOf(t, s)
	if got[0][1] != red {
		t.Fatalf("near-white cell should be filled, got %v", got[0][1])
	}
	if got[1][1] != farWhite {
		t.Fatalf("difference of 5 is outside tolerance, got %v", got[1][1])
	}

	s2 := raster.New(domain.Dimensions{CellCount: 3, CellPixelSize: 4})
	s2.PaintCell(domain.Cell{X: 1, Y: 1}, farWhite)
	Fill(s2, domain.Cell{X: 0, Y: 0}, red, Options{Tolerance: 10})
	if c, _ := s2.SampleCell(domain.Cell{X: 1, Y: 1}); c != red {
		t.Fatalf("wider tolerance should include the cell, got %v", c)
	}
}

func TestFillNoOps(t *testing.T) {
	s := raster.New(domain.Dimensions{CellCount: 3, CellPixelSize: 4})
	before := append([]byte(nil), s.Image().Pix...)
	if n := Fill(s, domain.Cell{X: -1, Y: 0}, red, Options{}); n != 0 {
		t.Fatalf("out-of-range seed painted %d", n)
	}
	if n := Fill(s, domain.Cell{X: 3, Y: 3}, red, Options{}); n != 0 {
		t.Fatalf("out-of-range seed painted %d", n)
	}
	if n := Fill(s, domain.Cell{X: 1, Y: 1}, domain.White, Options{}); n != 0 {
		t.Fatalf("same-color fill painted %d", n)
	}
	if !bytes.Equal(before, s.Image().Pix) {
		t.Fatalf("no-op fills changed the surface")
	}
}
