// Package export renders traced runs to standalone artifacts.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/relsim/internal/trace"
	"github.com/san-kum/relsim/internal/viz"
)

var dotMask = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// SpacetimeSVG draws an x-t spacetime diagram of every sampled worldline:
// spatial x across, coordinate time up, with 45-degree light-cone guides
// through the diagram center. Returns the SVG document.
func SpacetimeSVG(result *trace.Result, width, height int, scale float64) string {
	if len(result.Times) < 2 {
		return ""
	}

	canvas := viz.NewCanvas(width, height)
	subW := width * 2
	subH := height * 4

	minX, maxX := result.Samples[result.Names[0]][0].Frame.Position.X(), result.Samples[result.Names[0]][0].Frame.Position.X()
	for _, name := range result.Names {
		for _, e := range result.Samples[name] {
			x := e.Frame.Position.X()
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
		}
	}
	minT, maxT := result.Times[0], result.Times[len(result.Times)-1]

	spanX := maxX - minX
	if spanX == 0 {
		spanX = 1
	}
	spanT := maxT - minT
	if spanT == 0 {
		spanT = 1
	}

	toPx := func(x, t float64) (int, int) {
		px := int((x - minX) / spanX * float64(subW-1))
		py := subH - 1 - int((t-minT)/spanT*float64(subH-1))
		return px, py
	}

	// light-cone guides through the center
	canvas.DrawLine(subW/2-subH/2, subH-1, subW/2+subH/2, 0)
	canvas.DrawLine(subW/2+subH/2, subH-1, subW/2-subH/2, 0)

	for _, name := range result.Names {
		samples := result.Samples[name]
		prevX, prevY := toPx(samples[0].Frame.Position.X(), result.Times[0])
		for i := 1; i < len(samples); i++ {
			x, y := toPx(samples[i].Frame.Position.X(), result.Times[i])
			canvas.DrawLine(prevX, prevY, x, y)
			prevX, prevY = x, y
		}
	}

	return canvasToSVG(canvas, scale)
}

// canvasToSVG emits each lit braille dot as a filled circle.
func canvasToSVG(canvas *viz.Canvas, scale float64) string {
	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff88">
`, width, height, width, height))

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := int(canvas.Grid[row][col] - 0x2800)
			if pattern <= 0 {
				continue
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotMask[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
