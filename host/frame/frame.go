// Package frame is the wire protocol between the host streamer and a
// sketch driving strips: a sync-delimited, CRC-checked packet stream
// carrying a geometry announcement, raw frames, and acknowledgements.
package frame

import (
	"errors"
	"fmt"

	"flexled/driver"
)

// Packet layout:
//
//	sync(1) type(1) length(2 LE) payload(length) crc(2 BE)
//
// The CRC covers type, length and payload. A receiver that loses its
// place scans forward for the next sync byte.
const (
	SyncByte   = 0x7E
	headerSize = 4
	crcSize    = 2

	// MaxPayload bounds a packet so a sketch can size its receive buffer:
	// a full 32-channel RGBW frame at the driver's pixel ceiling stays
	// far below the uint16 length field anyway per-row, so frames are
	// sent one row per packet.
	MaxPayload = 0x4000
)

// Packet types.
const (
	TypeInit = 0x01
	TypeRow  = 0x02
	TypeFlip = 0x03
	TypeAck  = 0x04
)

var (
	ErrBadCRC    = errors.New("frame: crc mismatch")
	ErrOversized = errors.New("frame: payload too large")
	ErrShortInit = errors.New("frame: short init payload")
	ErrBadPacket = errors.New("frame: malformed packet")
)

// Init announces the stream geometry. The sketch sizes its layout from
// this before any rows arrive.
type Init struct {
	Width      uint16
	Height     uint8
	Serpentine bool
}

// Row carries one image row of RGB pixels for a given frame sequence
// number. The sketch maps it through its layout into the inactive
// buffer.
type Row struct {
	Seq    uint8
	Y      uint8
	Pixels []driver.Color
}

// Flip tells the sketch the frame identified by Seq is complete and
// should be presented.
type Flip struct {
	Seq uint8
}

// Ack is the sketch's response to a Flip: the frame was presented (or
// not, when OK is false).
type Ack struct {
	Seq uint8
	OK  bool
}

func (i Init) payload() []byte {
	var flags byte
	if i.Serpentine {
		flags |= 1
	}
	return []byte{byte(i.Width), byte(i.Width >> 8), i.Height, flags}
}

func parseInit(p []byte) (Init, error) {
	if len(p) < 4 {
		return Init{}, ErrShortInit
	}
	return Init{
		Width:      uint16(p[0]) | uint16(p[1])<<8,
		Height:     p[2],
		Serpentine: p[3]&1 != 0,
	}, nil
}

func (r Row) payload() []byte {
	p := make([]byte, 2+3*len(r.Pixels))
	p[0] = r.Seq
	p[1] = r.Y
	for i, c := range r.Pixels {
		p[2+3*i] = c.R
		p[3+3*i] = c.G
		p[4+3*i] = c.B
	}
	return p
}

func parseRow(p []byte) (Row, error) {
	if len(p) < 2 || (len(p)-2)%3 != 0 {
		return Row{}, fmt.Errorf("%w: row payload %d bytes", ErrBadPacket, len(p))
	}
	r := Row{Seq: p[0], Y: p[1], Pixels: make([]driver.Color, (len(p)-2)/3)}
	for i := range r.Pixels {
		r.Pixels[i] = driver.RGB(p[2+3*i], p[3+3*i], p[4+3*i])
	}
	return r, nil
}
