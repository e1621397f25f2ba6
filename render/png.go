package render

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"flexled/driver"
)

// PNGDecoder adapts a decoded PNG to the RowDecoder boundary.
type PNGDecoder struct {
	img image.Image
}

// DecodePNG reads and decodes a whole PNG. Row-at-a-time PNG decoding
// would need a streaming inflater; images sized for a 32x65535 pixel
// ceiling are small enough to hold decoded.
func DecodePNG(r io.Reader) (*PNGDecoder, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return &PNGDecoder{img: img}, nil
}

func (d *PNGDecoder) Bounds() (w, h int) {
	b := d.img.Bounds()
	return b.Dx(), b.Dy()
}

func (d *PNGDecoder) Row(y int, dst []driver.Color) error {
	b := d.img.Bounds()
	if y < 0 || y >= b.Dy() {
		return fmt.Errorf("row %d out of range", y)
	}
	if len(dst) < b.Dx() {
		return fmt.Errorf("row buffer too small: %d < %d", len(dst), b.Dx())
	}
	for x := 0; x < b.Dx(); x++ {
		r, g, bl, _ := d.img.At(b.Min.X+x, b.Min.Y+y).RGBA()
		dst[x] = driver.RGB(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
	}
	return nil
}
