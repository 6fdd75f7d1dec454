package render

import (
	"image"
	"image/color"
	"testing"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"github.com/OpenTraceLab/nomograph/pkg/geom"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/OpenTraceLab/nomograph/pkg/scale"
)

func TestPaneRoundTrip(t *testing.T) {
	p := NewPane(800, 600, 2)
	p.OffsetX, p.OffsetY = 10, -4

	if got := p.Size(); got != (geom.Size{Width: 400, Height: 300}) {
		t.Fatalf("Size() = %v, want 400x300", got)
	}

	pt := geom.Pt(12.5, 40)
	screen := p.ToScreen(pt)
	if screen != f32.Pt(35, 76) {
		t.Errorf("ToScreen(%v) = %v, want (35,76)", pt, screen)
	}
	if back := p.FromScreen(screen); back != pt {
		t.Errorf("FromScreen(%v) = %v, want %v", screen, back, pt)
	}
	if d := p.Delta(f32.Pt(4, -6)); d != geom.Pt(2, -3) {
		t.Errorf("Delta = %v, want (2,-3)", d)
	}
	if l := p.Length(7); l != 14 {
		t.Errorf("Length(7) = %v, want 14", l)
	}

	if q := NewPane(10, 10, 0); q.Scale != 1 {
		t.Errorf("default scale = %v, want 1", q.Scale)
	}
}

func TestScaleColors(t *testing.T) {
	colors := ScaleColors(3, 0, 1, 1)
	want := []color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
	}
	for i := range want {
		if colors[i] != want[i] {
			t.Errorf("color %d = %v, want %v", i, colors[i], want[i])
		}
	}
}

func TestFade(t *testing.T) {
	black := color.NRGBA{A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	near := func(a, b uint8) bool { return a-b <= 1 || b-a <= 1 }

	if got := Fade(black, white, 0); !near(got.R, 0) || !near(got.B, 0) {
		t.Errorf("Fade(0) = %v, want black", got)
	}
	if got := Fade(black, white, 1); !near(got.R, 255) || !near(got.B, 255) {
		t.Errorf("Fade(1) = %v, want white", got)
	}
	mid := Fade(black, white, 0.5)
	if mid.R < 50 || mid.R > 200 || !near(mid.R, mid.G) || !near(mid.G, mid.B) {
		t.Errorf("Fade(0.5) = %v, want a mid grey", mid)
	}
	if half := Fade(color.NRGBA{R: 255, A: 128}, white, 0.5); half.A != 128 {
		t.Errorf("Fade kept alpha %d, want 128", half.A)
	}
}

func TestThemes(t *testing.T) {
	for name := range ThemeNames {
		th := NewTheme(name)
		if th.Background == th.Text {
			t.Errorf("%s: text is invisible on background", ThemeNames[name])
		}
		if th.ScaleColor(0) == th.ScaleColor(1) {
			t.Errorf("%s: scales 0 and 1 share a colour", ThemeNames[name])
		}
		if th.ScaleColor(5) != th.Axis {
			t.Errorf("%s: out of range slot should use the axis colour", ThemeNames[name])
		}
	}
}

func TestMeasurer(t *testing.T) {
	m := NewMeasurer()
	if got := m.Measure("", 14); got != (geom.Size{}) {
		t.Errorf("Measure(\"\") = %v, want zero", got)
	}
	short := m.Measure("1", 14)
	long := m.Measure("1000", 14)
	if short.Width <= 0 || short.Height <= 0 {
		t.Fatalf("Measure(1) = %v, want a positive size", short)
	}
	if long.Width <= short.Width {
		t.Errorf("width of 1000 = %v, not wider than 1 = %v", long.Width, short.Width)
	}
	big := m.Measure("1", 28)
	if big.Height <= short.Height {
		t.Errorf("height at 28 = %v, not taller than at 14 = %v", big.Height, short.Height)
	}
}

func TestCanvasDrawsNomogram(t *testing.T) {
	for _, id := range []string{"addition", "second-degree"} {
		def, _ := nomogram.Lookup(id)
		measurer := NewMeasurer()
		n, err := nomogram.New(def, nomogram.WithMeasurer(measurer))
		if err != nil {
			t.Fatalf("%s: New: %v", id, err)
		}
		pane := NewPane(600, 600, 1)
		if err := n.Init(pane.Size()); err != nil {
			t.Fatalf("%s: Init: %v", id, err)
		}

		gtx := layout.Context{
			Ops:         new(op.Ops),
			Constraints: layout.Exact(image.Pt(600, 600)),
		}
		c := &Canvas{Pane: pane, Theme: NewTheme(ThemePaper), Shaper: measurer.Shaper()}
		c.Background(gtx)
		for _, s := range n.Scales() {
			d, err := s.Display(scale.TopView)
			if err != nil {
				t.Fatalf("%s: Display: %v", id, err)
			}
			c.Scale(gtx, d, s.Core().Index)
		}
		c.IndexLine(gtx, n.IndexLine.Start, n.IndexLine.End)
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    ThemeName
		wantErr bool
	}{
		{"paper", ThemePaper, false},
		{"Slate", ThemeSlate, false},
		{"BLUEPRINT", ThemeBlueprint, false},
		{"neon", ThemePaper, true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTheme(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
