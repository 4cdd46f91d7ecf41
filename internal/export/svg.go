package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/forque/internal/sim"
	"github.com/san-kum/forque/internal/viz"
)

const (
	background  = "#0a0a0a"
	edgeColor   = "#00ccff"
	glyphColor  = "#ff00ff"
	springColor = "#ffcc00"
	planeColor  = "#444466"
	labelColor  = "#ffffff"
)

// FrameToSVG draws one frame as vector lines seen through cam, with the
// energy labels in the top left corner. Line width and point radius come
// from the frame's display options.
func FrameToSVG(f sim.Frame, cam *viz.Camera, width, height int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	lineWidth := f.Display.LineWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}

	group := func(color string, w float64, draw func()) {
		sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="%.1f" stroke-linecap="round" fill="none">
`, color, w))
		draw()
		sb.WriteString("</g>\n")
	}
	line := func(a, b sim.Point) {
		x0, y0, ok0 := cam.Project(a, width, height)
		x1, y1, ok1 := cam.Project(b, width, height)
		if ok0 && ok1 {
			sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d"/>
`, x0, y0, x1, y1))
		}
	}

	group(planeColor, 1, func() {
		c := f.Plane.Corners
		for i := range c {
			if len(c) == 2 && i == 1 {
				break
			}
			line(c[i], c[(i+1)%len(c)])
		}
	})

	for _, b := range f.Bodies {
		group(edgeColor, lineWidth, func() {
			for _, e := range b.Edges {
				line(b.Vertices[e[0]], b.Vertices[e[1]])
			}
		})
		group(glyphColor, lineWidth/2, func() {
			for _, g := range b.Glyphs {
				line(g[0], g[1])
			}
		})
		group(springColor, 1, func() {
			line(b.Spring[0], b.Spring[1])
		})
		if x, y, ok := cam.Project(b.Center, width, height); ok {
			sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%.1f" fill="%s"/>
`, x, y, f.Display.PointRadius, edgeColor))
		}
	}

	sb.WriteString(fmt.Sprintf(`<g fill="%s" font-family="monospace" font-size="14">
`, labelColor))
	for i, l := range f.Labels {
		sb.WriteString(fmt.Sprintf(`<text x="10" y="%d" xml:space="preserve">%s</text>
`, 20+18*i, html.EscapeString(l)))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TraceToSVG plots a series such as the energy trace against its sample
// times.
func TraceToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := 0; i < n; i++ {
		minX, maxX = min(minX, times[i]), max(maxX, times[i])
		minY, maxY = min(minY, values[i]), max(maxY, values[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
