package export

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/mctrans/internal/physics"
)

var ErrTooFewPoints = errors.New("need at least two points")

// palette colors secondaries by particle index.
var palette = []string{"#00ffff", "#ff00ff", "#ffff00", "#00ff88", "#ff8800", "#8888ff"}

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// SeriesSVG draws values against their index as a polyline, with 10%
// padding around the data range.
func SeriesSVG(values []float64, width, height int, stroke string) (string, error) {
	if len(values) < 2 {
		return "", ErrTooFewPoints
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rangeY := hi - lo
	if rangeY == 0 {
		rangeY = 1
	}
	lo -= rangeY * 0.1
	rangeY *= 1.2
	rangeX := float64(len(values) - 1)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-lo)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String(), nil
}

// DirectionsSVG projects secondary directions onto the plane normal to the
// beam axis, inside the unit circle, one color per particle type.
func DirectionsSVG(secs []physics.Secondary, size int) string {
	half := float64(size) / 2
	radius := half * 0.95

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, size, size, size, size)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#444466"/>`+"\n", half, half, radius)

	for _, s := range secs {
		d := s.Direction
		if n := r3.Norm(d); n > 0 {
			d = r3.Scale(1/n, d)
		}
		color := "#ffffff"
		if s.Particle.Valid() {
			color = palette[s.Particle.Get()%len(palette)]
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="1.2" fill="%s"/>`+"\n",
			half+d.X*radius, half-d.Y*radius, color)
	}
	sb.WriteString("</svg>")
	return sb.String()
}
