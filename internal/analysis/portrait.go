package analysis

import (
	"strings"
)

// Portrait is a 2D scatter of two recorded series, for example the heights
// of two bodies. A mirrored pair traces the diagonal.
type Portrait struct {
	Points []struct{ X, Y float64 }
}

// NewPortrait pairs xs and ys sample by sample, truncating to the shorter.
func NewPortrait(xs, ys []float64) *Portrait {
	n := min(len(xs), len(ys))
	p := &Portrait{Points: make([]struct{ X, Y float64 }, n)}
	for i := 0; i < n; i++ {
		p.Points[i].X, p.Points[i].Y = xs[i], ys[i]
	}
	return p
}

// ToASCII rasterizes the portrait into a width×height block of runes.
func (p *Portrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
