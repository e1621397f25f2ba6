package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"flexled/driver"
)

func TestInitRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.WriteInit(Init{Width: 300, Height: 8, Serpentine: true}))

	pkt, err := NewDecoder(&buf).Next()
	require.NoError(t, err)
	require.Equal(t, Init{Width: 300, Height: 8, Serpentine: true}, pkt)
}

func TestRowRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	row := Row{
		Seq:    7,
		Y:      3,
		Pixels: []driver.Color{driver.RGB(1, 2, 3), driver.RGB(250, 0, 128)},
	}
	require.NoError(t, enc.WriteRow(row))

	pkt, err := NewDecoder(&buf).Next()
	require.NoError(t, err)
	require.Equal(t, row, pkt)
}

func TestFlipAndAck(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.WriteFlip(Flip{Seq: 9}))
	require.NoError(t, enc.WriteAck(Ack{Seq: 9, OK: true}))

	dec := NewDecoder(&buf)
	pkt, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, Flip{Seq: 9}, pkt)

	pkt, err = dec.Next()
	require.NoError(t, err)
	require.Equal(t, Ack{Seq: 9, OK: true}, pkt)
}

func TestDecoderSkipsGarbage(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0xFF, 0x13})
	require.NoError(t, NewEncoder(&buf).WriteFlip(Flip{Seq: 1}))

	pkt, err := NewDecoder(&buf).Next()
	require.NoError(t, err)
	require.Equal(t, Flip{Seq: 1}, pkt)
}

func TestDecoderRejectsCorruptCRC(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).WriteFlip(Flip{Seq: 1}))

	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF

	_, err := NewDecoder(bytes.NewReader(raw)).Next()
	require.ErrorIs(t, err, ErrBadCRC)
}

func TestEncoderRejectsOversizedRow(t *testing.T) {
	row := Row{Pixels: make([]driver.Color, MaxPayload)}
	require.ErrorIs(t, NewEncoder(&bytes.Buffer{}).WriteRow(row), ErrOversized)
}

func TestCRCMatchesKnownVector(t *testing.T) {
	// Two different inputs must disagree; the empty input keeps the seed.
	require.Equal(t, uint16(0xFFFF), crc16(nil))
	require.NotEqual(t, crc16([]byte{1}), crc16([]byte{2}))
}
