package view

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// MeasureText returns the size of s set in the toolkit's fixed face.
// Lines are separated by '\n'; the width is that of the longest line.
func MeasureText(s string) Size {
	if s == "" {
		return Size{}
	}
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()

	var width int
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}
	return Size{
		Width:  float64(width),
		Height: float64(lineHeight * len(lines)),
	}
}
