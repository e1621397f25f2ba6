package driver

// MaxChannels is the number of parallel outputs one engine drives: one
// per bit of every transferred word.
const MaxChannels = 32

// PixelBuffer is the bit-packed frame store shared by all 32 channels.
// Word N of a pixel slot is bit-plane N, and bit k of every word belongs
// to channel k. The backing store is allocated once at construction and
// never resized; DoubleBuffer mode allocates two equal halves.
type PixelBuffer struct {
	pixels uint16
	cap    ColorCapability
	mode   BufferMode
	words  []uint32
}

// NewPixelBuffer allocates the frame store for pixels slots per channel.
func NewPixelBuffer(pixels uint16, cc ColorCapability, bm BufferMode) *PixelBuffer {
	n := int(pixels) * planesPerSlot(cc)
	if bm == DoubleBuffer {
		n *= 2
	}
	return &PixelBuffer{
		pixels: pixels,
		cap:    cc,
		mode:   bm,
		words:  make([]uint32, n),
	}
}

// planesPerSlot is the slot stride the buffer is sized for. Individual
// tri-color channels on a Quadcolor buffer still advance 24 words per
// pixel; the extra space merely guarantees room for GRBW channels.
func planesPerSlot(cc ColorCapability) int {
	if cc == Quadcolor {
		return 32
	}
	return 24
}

// Pixels returns the slot count per channel.
func (b *PixelBuffer) Pixels() uint16 { return b.pixels }

// Capability returns the buffer's color capability.
func (b *PixelBuffer) Capability() ColorCapability { return b.cap }

// Mode returns the buffer's update mode.
func (b *PixelBuffer) Mode() BufferMode { return b.mode }

// halfWords is the word count of one transferred frame.
func (b *PixelBuffer) halfWords() int {
	if b.mode == DoubleBuffer {
		return len(b.words) / 2
	}
	return len(b.words)
}

// half returns buffer half i (0 or 1). In single-buffer modes both
// indices alias the whole buffer.
func (b *PixelBuffer) half(i int) []uint32 {
	n := b.halfWords()
	if b.mode != DoubleBuffer || i == 0 {
		return b.words[:n]
	}
	return b.words[n:]
}

// writePixel packs c into the bit-planes of buf belonging to channel.
// Every plane word has exactly the channel's bit set or cleared; all
// other channels' bits are preserved. Out-of-range indices are ignored.
func writePixel(buf []uint32, t ChannelType, channel uint8, index uint16, pixels uint16, c Color) {
	if buf == nil || channel >= MaxChannels || index >= pixels {
		return
	}
	mask := uint32(1) << channel
	planes := t.planes()
	raw := t.raw(c)
	off := uint(index) * planes
	for bit := uint32(1) << (planes - 1); bit != 0; bit >>= 1 {
		if raw&bit != 0 {
			buf[off] |= mask
		} else {
			buf[off] &^= mask
		}
		off++
	}
}

// readPixel is the inverse of writePixel. Out-of-range indices read as
// the zero Color.
func readPixel(buf []uint32, t ChannelType, channel uint8, index uint16, pixels uint16) Color {
	if buf == nil || channel >= MaxChannels || index >= pixels {
		return Color{}
	}
	mask := uint32(1) << channel
	planes := t.planes()
	off := uint(index) * planes
	var raw uint32
	for i := uint(0); i < planes; i++ {
		raw <<= 1
		if buf[off+i]&mask != 0 {
			raw |= 1
		}
	}
	return t.color(raw)
}
