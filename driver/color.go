package driver

// Color is one pixel value. W is only transmitted on GRBW channels.
type Color struct {
	R, G, B, W uint8
}

// RGB builds a Color from red/green/blue components.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// GRB builds a Color with the components named in the order GRB strips
// label them. The stored value is order-independent; ordering is applied
// by the codec per channel.
func GRB(g, r, b uint8) Color { return Color{R: r, G: g, B: b} }

// GRBW builds a Color for quad-color strips with a white channel.
func GRBW(g, r, b, w uint8) Color { return Color{R: r, G: g, B: b, W: w} }

// ChannelType selects the byte order serialized on one output channel.
// The zero value is ChannelRGB; callers are still expected to configure
// every channel they use before writing pixels.
type ChannelType uint8

const (
	ChannelRGB ChannelType = iota
	ChannelGRB
	ChannelGRBW
)

// planes is the slot stride for this channel type in bit-plane words.
// Channels are independent serial streams, so strides may differ between
// channels sharing one buffer.
func (t ChannelType) planes() uint {
	if t == ChannelGRBW {
		return 32
	}
	return 24
}

// raw flattens c into the word serialized for a channel of type t.
// Bit-plane 0 carries the most significant bit; bytes go out MSB-first.
func (t ChannelType) raw(c Color) uint32 {
	switch t {
	case ChannelGRB:
		return uint32(c.G)<<16 | uint32(c.R)<<8 | uint32(c.B)
	case ChannelGRBW:
		return uint32(c.G)<<24 | uint32(c.R)<<16 | uint32(c.B)<<8 | uint32(c.W)
	default:
		return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	}
}

// color is the inverse of raw.
func (t ChannelType) color(raw uint32) Color {
	switch t {
	case ChannelGRB:
		return Color{G: uint8(raw >> 16), R: uint8(raw >> 8), B: uint8(raw)}
	case ChannelGRBW:
		return Color{G: uint8(raw >> 24), R: uint8(raw >> 16), B: uint8(raw >> 8), W: uint8(raw)}
	default:
		return Color{R: uint8(raw >> 16), G: uint8(raw >> 8), B: uint8(raw)}
	}
}

// ColorCapability sizes the frame buffer. Quadcolor reserves a white
// bit-plane per slot and costs a third more RAM.
type ColorCapability uint8

const (
	Tricolor ColorCapability = iota
	Quadcolor
)

// BufferMode selects the update and refresh policy.
type BufferMode uint8

const (
	// SingleBufferBlocking transfers one frame per FlushBuffer call and
	// halts in between; the buffer must not be written while a transfer
	// is outstanding.
	SingleBufferBlocking BufferMode = iota

	// SingleBufferContinuous refreshes the strip continuously from the
	// single buffer. Writes race the hardware and may show transient
	// artifacts; that is the documented trade-off of this mode.
	SingleBufferContinuous

	// DoubleBuffer refreshes continuously from the active half while the
	// application draws into the inactive half; FlipBuffers exchanges the
	// halves tear-free at the next reset gap.
	DoubleBuffer
)
