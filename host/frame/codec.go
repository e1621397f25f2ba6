package frame

import (
	"bufio"
	"fmt"
	"io"
)

// Encoder writes packets to a stream.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder { return &Encoder{w: w} }

func (e *Encoder) writePacket(typ byte, payload []byte) error {
	if len(payload) > MaxPayload {
		return ErrOversized
	}
	pkt := make([]byte, 0, headerSize+len(payload)+crcSize)
	pkt = append(pkt, SyncByte, typ, byte(len(payload)), byte(len(payload)>>8))
	pkt = append(pkt, payload...)
	crc := crc16(pkt[1:])
	pkt = append(pkt, byte(crc>>8), byte(crc))
	if _, err := e.w.Write(pkt); err != nil {
		return fmt.Errorf("frame: write: %w", err)
	}
	return nil
}

func (e *Encoder) WriteInit(i Init) error { return e.writePacket(TypeInit, i.payload()) }
func (e *Encoder) WriteRow(r Row) error   { return e.writePacket(TypeRow, r.payload()) }
func (e *Encoder) WriteFlip(f Flip) error { return e.writePacket(TypeFlip, []byte{f.Seq}) }

func (e *Encoder) WriteAck(a Ack) error {
	ok := byte(0)
	if a.OK {
		ok = 1
	}
	return e.writePacket(TypeAck, []byte{a.Seq, ok})
}

// Decoder reads packets from a stream, scanning past garbage to the
// next sync byte after any framing or CRC error.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, headerSize+MaxPayload+crcSize)}
}

// Next returns the next valid packet as one of Init, Row, Flip or Ack.
// Corrupt packets are reported once via ErrBadCRC or ErrBadPacket; the
// caller decides whether to keep reading.
func (d *Decoder) Next() (interface{}, error) {
	if err := d.sync(); err != nil {
		return nil, err
	}

	hdr := make([]byte, headerSize-1)
	if _, err := io.ReadFull(d.r, hdr); err != nil {
		return nil, fmt.Errorf("frame: read header: %w", err)
	}
	typ := hdr[0]
	n := int(hdr[1]) | int(hdr[2])<<8
	if n > MaxPayload {
		return nil, ErrOversized
	}

	body := make([]byte, n+crcSize)
	if _, err := io.ReadFull(d.r, body); err != nil {
		return nil, fmt.Errorf("frame: read payload: %w", err)
	}

	want := uint16(body[n])<<8 | uint16(body[n+1])
	sum := make([]byte, 0, headerSize-1+n)
	sum = append(sum, hdr...)
	sum = append(sum, body[:n]...)
	if crc16(sum) != want {
		return nil, ErrBadCRC
	}

	payload := body[:n]
	switch typ {
	case TypeInit:
		return parseInit(payload)
	case TypeRow:
		return parseRow(payload)
	case TypeFlip:
		if n < 1 {
			return nil, ErrBadPacket
		}
		return Flip{Seq: payload[0]}, nil
	case TypeAck:
		if n < 2 {
			return nil, ErrBadPacket
		}
		return Ack{Seq: payload[0], OK: payload[1] != 0}, nil
	}
	return nil, fmt.Errorf("%w: type 0x%02x", ErrBadPacket, typ)
}

// sync discards bytes until a sync byte is consumed.
func (d *Decoder) sync() error {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return fmt.Errorf("frame: sync: %w", err)
		}
		if b == SyncByte {
			return nil
		}
	}
}
