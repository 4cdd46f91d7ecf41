package export

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/forque/internal/config"
	"github.com/san-kum/forque/internal/physics"
	"github.com/san-kum/forque/internal/sim"
	"github.com/san-kum/forque/internal/viz"
)

func referenceFrame(t *testing.T) sim.Frame {
	t.Helper()
	w, err := physics.ReferencePair(config.DefaultConfig().Params())
	if err != nil {
		t.Fatal(err)
	}
	s := sim.New(w, sim.DefaultOptions())
	return s.Advance(time.Now())
}

func wellFormed(t *testing.T, doc string) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("malformed SVG: %v", err)
		}
	}
}

func TestFrameToSVG(t *testing.T) {
	f := referenceFrame(t)
	svg := FrameToSVG(f, viz.NewCamera(), 800, 600)
	wellFormed(t, svg)

	// 12 cube edges, 8 glyphs, 1 spring per body, 4 plane sides.
	want := 2*(12+8+1) + 4
	if got := strings.Count(svg, "<line "); got != want {
		t.Errorf("drew %d lines, want %d", got, want)
	}
	if strings.Count(svg, "<circle ") != 2 {
		t.Error("expected one center marker per body")
	}
	if !strings.Contains(svg, `stroke-width="3.0"`) {
		t.Error("display line width not applied")
	}
	for _, l := range f.Labels {
		if !strings.Contains(svg, l) {
			t.Errorf("label %q missing", l)
		}
	}
}

func TestTraceToSVG(t *testing.T) {
	svg := TraceToSVG([]float64{0, 1, 2}, []float64{5, 5, 5}, 200, 100, "#00ff00")
	wellFormed(t, svg)
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 segments in %q", svg)
	}
	if TraceToSVG([]float64{0}, []float64{1}, 10, 10, "#fff") != "" {
		t.Error("single sample should give no plot")
	}
}
