package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"flexled/driver"
)

func TestGammaEndpoints(t *testing.T) {
	g := NewGamma(2.2)
	require.Equal(t, uint8(0), g.lut[0])
	require.Equal(t, uint8(255), g.lut[255])

	// Midtones must be pushed down by an exponent above one.
	require.Less(t, g.lut[128], uint8(128))
}

func TestGammaIdentity(t *testing.T) {
	g := NewGamma(1.0)
	for i := 0; i < 256; i++ {
		require.Equal(t, uint8(i), g.lut[i])
	}
}

func TestGammaMonotonic(t *testing.T) {
	g := NewGamma(2.2)
	for i := 1; i < 256; i++ {
		require.GreaterOrEqual(t, g.lut[i], g.lut[i-1])
	}
}

func TestGammaLeavesWhiteAlone(t *testing.T) {
	g := NewGamma(2.2)
	c := g.Apply(driver.GRBW(10, 20, 30, 200))
	require.Equal(t, uint8(200), c.W)
}

func TestLayoutStraight(t *testing.T) {
	l := Layout{Width: 8, Height: 4}
	ch, idx, ok := l.Position(5, 3)
	require.True(t, ok)
	require.Equal(t, uint8(3), ch)
	require.Equal(t, uint16(5), idx)
}

func TestLayoutSerpentine(t *testing.T) {
	l := Layout{Width: 8, Height: 4, Serpentine: true}

	// Even rows run forward.
	ch, idx, ok := l.Position(2, 0)
	require.True(t, ok)
	require.Equal(t, uint8(0), ch)
	require.Equal(t, uint16(2), idx)

	// Odd rows run backward.
	ch, idx, ok = l.Position(2, 1)
	require.True(t, ok)
	require.Equal(t, uint8(1), ch)
	require.Equal(t, uint16(5), idx)
}

func TestLayoutBounds(t *testing.T) {
	l := Layout{Width: 8, Height: 4}
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 4}} {
		_, _, ok := l.Position(p[0], p[1])
		require.False(t, ok, "position %v", p)
	}
}

func TestPNGDecoderRows(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(2, 1, color.NRGBA{B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	d, err := DecodePNG(&buf)
	require.NoError(t, err)

	w, h := d.Bounds()
	require.Equal(t, 3, w)
	require.Equal(t, 2, h)

	row := make([]driver.Color, 3)
	require.NoError(t, d.Row(0, row))
	require.Equal(t, driver.RGB(255, 0, 0), row[0])
	require.Equal(t, driver.RGB(0, 255, 0), row[1])

	require.NoError(t, d.Row(1, row))
	require.Equal(t, driver.RGB(0, 0, 255), row[2])

	require.Error(t, d.Row(2, row))
	require.Error(t, d.Row(0, make([]driver.Color, 1)))
}
