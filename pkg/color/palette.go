// Package color models terminal foreground colors: the xterm 256-color
// palette, ANSI 16-color values, textual color specifications, and named
// color schemes used to render test reports consistently.
package color

import "fmt"

// xterm 256-color layout: indices 0-15 are the terminal's own colors
// (their RGB values are unknowable), 16-231 form a 6x6x6 color cube,
// and 232-255 form a 24-step grayscale ramp.
const (
	cubeStart = 16
	cubeSize  = 6
	grayStart = cubeStart + cubeSize*cubeSize*cubeSize
	tableEnd  = 256
)

// Channel values copied from xterm's 256colres.h.
var cubeSteps = [cubeSize]uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}

var graySteps = [tableEnd - grayStart]uint8{
	0x08, 0x12, 0x1c, 0x26, 0x30, 0x3a, 0x44, 0x4e,
	0x58, 0x62, 0x6c, 0x76, 0x80, 0x84, 0x94, 0x9e,
	0xa8, 0xb2, 0xbc, 0xc6, 0xd0, 0xda, 0xe4, 0xee,
}

// palette maps index-cubeStart to the RGB components of that palette
// entry. Built once at startup, never mutated.
var palette = buildPalette()

func buildPalette() [tableEnd - cubeStart][3]uint8 {
	var p [tableEnd - cubeStart][3]uint8
	for i := cubeStart; i < tableEnd; i++ {
		r, g, b := rgbFor(i)
		p[i-cubeStart] = [3]uint8{r, g, b}
	}
	return p
}

func rgbFor(index int) (r, g, b uint8) {
	if index < grayStart {
		v := index - cubeStart
		return cubeSteps[v/(cubeSize*cubeSize)], cubeSteps[v/cubeSize%cubeSize], cubeSteps[v%cubeSize]
	}
	gray := graySteps[index-grayStart]
	return gray, gray, gray
}

// RGBFor returns the red, green and blue components of palette entry
// index. The basic 16 colors have no reliable RGB values, so index must
// be at least 16; anything lower is a programming error.
func RGBFor(index int) (r, g, b uint8) {
	if index < cubeStart || index >= tableEnd {
		panic(fmt.Sprintf("color: palette index %d out of range [%d,%d)", index, cubeStart, tableEnd))
	}
	entry := palette[index-cubeStart]
	return entry[0], entry[1], entry[2]
}

// NearestIndex returns the palette index (16-255) whose color minimizes
// the squared RGB distance to the given components. Ties keep the lowest
// index. Exact palette colors are always their own nearest match.
func NearestIndex(r, g, b uint8) int {
	best := 0
	bestDist := int(^uint(0) >> 1)
	for i, entry := range palette {
		dr := int(entry[0]) - int(r)
		dg := int(entry[1]) - int(g)
		db := int(entry[2]) - int(b)
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best + cubeStart
}
