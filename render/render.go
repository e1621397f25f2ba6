// Package render holds the application-side helpers the demo sketches
// and the host streamer share: gamma correction, logical to physical
// coordinate mapping, and the image source/decoder boundaries.
package render

import (
	"io"
	"math"

	"flexled/driver"
)

// Gamma is a precomputed 8-bit transfer curve. LED output is close to
// linear in drive current while perception is not, so frames authored in
// sRGB-ish space need the curve applied before transmission.
type Gamma struct {
	lut [256]uint8
}

// NewGamma builds the curve for the given exponent. 2.2 is the usual
// choice; 1.0 yields the identity.
func NewGamma(g float64) *Gamma {
	t := &Gamma{}
	for i := range t.lut {
		v := math.Pow(float64(i)/255.0, g)*255.0 + 0.5
		t.lut[i] = uint8(v)
	}
	return t
}

// Apply corrects the three color components. The white component passes
// through untouched: white emitters are driven in linear space.
func (t *Gamma) Apply(c driver.Color) driver.Color {
	c.R = t.lut[c.R]
	c.G = t.lut[c.G]
	c.B = t.lut[c.B]
	return c
}

// Layout maps a W x H logical image onto the driver's channels. Each row
// of the image is one channel's strip; Serpentine flips the pixel order
// of every odd row for strips wired end-to-swapped-end.
type Layout struct {
	Width      int
	Height     int
	Serpentine bool
}

// Position resolves a logical coordinate to a channel and strip index.
// Out-of-bounds coordinates map to channel -1; the driver's fail-quiet
// bounds policy would absorb them anyway, but callers can skip the work.
func (l Layout) Position(x, y int) (channel uint8, index uint16, ok bool) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return 0, 0, false
	}
	if l.Serpentine && y%2 == 1 {
		x = l.Width - 1 - x
	}
	return uint8(y), uint16(x), true
}

// FileSource abstracts where the slideshow's images come from: an SD
// card filesystem on a sketch, the OS filesystem on the host.
type FileSource interface {
	// Next returns a reader for the next image, cycling through the
	// source's contents. io.EOF means the source is empty.
	Next() (io.ReadCloser, error)
}

// RowDecoder yields one decoded image row at a time so a sketch never
// needs the whole frame in RAM beyond the pixel buffer itself.
type RowDecoder interface {
	// Bounds reports the image dimensions.
	Bounds() (w, h int)

	// Row decodes row y into dst, which must hold at least w colors.
	Row(y int, dst []driver.Color) error
}
