package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBFor_CubeEntries(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		r, g, b uint8
	}{
		{"first cube entry is black", 16, 0x00, 0x00, 0x00},
		{"pure red", 196, 0xff, 0x00, 0x00},
		{"pure green", 46, 0x00, 0xff, 0x00},
		{"pure blue", 21, 0x00, 0x00, 0xff},
		{"last cube entry is white", 231, 0xff, 0xff, 0xff},
		{"first gray", 232, 0x08, 0x08, 0x08},
		{"last gray", 255, 0xee, 0xee, 0xee},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := RGBFor(tt.index)
			assert.Equal(t, [3]uint8{tt.r, tt.g, tt.b}, [3]uint8{r, g, b})
		})
	}
}

func TestRGBFor_PanicsOnBasicColors(t *testing.T) {
	assert.Panics(t, func() { RGBFor(15) })
	assert.Panics(t, func() { RGBFor(0) })
	assert.Panics(t, func() { RGBFor(256) })
}

func TestNearestIndex_ExactPrimaries(t *testing.T) {
	assert.Equal(t, 16, NearestIndex(0, 0, 0))
	assert.Equal(t, 196, NearestIndex(255, 0, 0))
	assert.Equal(t, 46, NearestIndex(0, 255, 0))
	assert.Equal(t, 231, NearestIndex(255, 255, 255))
}

func TestNearestIndex_RoundTripsEveryPaletteEntry(t *testing.T) {
	// Exact palette colors must always be their own nearest match.
	for i := 16; i < 256; i++ {
		r, g, b := RGBFor(i)
		require.Equal(t, i, NearestIndex(r, g, b), "index %d (rgb %d,%d,%d)", i, r, g, b)
	}
}

func TestNearestIndex_OffPaletteColor(t *testing.T) {
	// 254,0,0 is one step off pure red and must still land on it.
	assert.Equal(t, 196, NearestIndex(254, 0, 0))
}
