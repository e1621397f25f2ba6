package driver

// The descriptor chain reproduces one full transmission pass without CPU
// involvement: a preamble raising the ones lane, the frame payload, a
// trailer dropping the ones lane, and a fixed loop of zero words long
// enough to satisfy the strips' reset interval.

const (
	// maxTransfersPerDescriptor is the hardware ceiling on a single
	// descriptor's iteration count (15-bit field).
	maxTransfersPerDescriptor = 0x7FFF

	// maxPayloadSegments bounds the descriptor arena. Four segments cover
	// any buffer a 16-bit pixel count can describe.
	maxPayloadSegments = 4

	// resetLoopIterations replays the zero word through the payload lane
	// once per bit cell. Some strips need close to 300us of idle-low
	// before latching: 1.25us * 240 = 300us.
	resetLoopIterations = 240
)

// Lane identifies a shifter-lane destination register.
type Lane uint8

const (
	LaneOnes    Lane = iota // constant-high gate for the first third of each cell
	LanePayload             // DMA-fed pixel data
	LaneZeros               // constant-low parking lane
)

// ChainEnd as a Next link makes the chain disable itself on completion.
const ChainEnd = -1

// Descriptor is one hardware transfer record. Descriptor identities are
// fixed when the chain is built; only Source (on buffer swap) and the
// terminal Next link (by mode) vary.
type Descriptor struct {
	// Source holds the words to transfer. When Cycle is set only
	// Source[0] is used, replayed Iterations times without advancing.
	Source     []uint32
	Cycle      bool
	Iterations uint16

	// Dest selects the shifter lane register. BitReverse selects the
	// lane's bit-reversed view so the MSB of each word shifts out first.
	Dest       Lane
	BitReverse bool

	// Next is the arena index of the following descriptor, or ChainEnd.
	Next int
}

// Chain is the descriptor arena for one transmission pass.
type Chain struct {
	// Descriptors in arena order: payload-lane preset, preamble,
	// payload segments, trailer, reset loop.
	Descriptors []Descriptor

	// Trailer indexes the descriptor whose completion marks the start of
	// the reset gap; it is the only safe boundary for a buffer swap, so
	// the completion interrupt is armed there.
	Trailer int

	// OnComplete runs in interrupt context when the armed completion
	// interrupt fires.
	OnComplete func()

	payload []int // arena indices of the payload segments
}

// Shared single-word sources for the constant-pattern descriptors.
var (
	zeroWord = []uint32{0}
	onesWord = []uint32{^uint32(0)}
)

// newChain builds the arena for a frame sourced from active. The linking
// policy follows mode: blocking chains halt after the reset loop, the
// continuous modes re-link the loop back to the start.
func newChain(active []uint32, mode BufferMode) *Chain {
	c := &Chain{}

	// Zero the payload lane before raising the ones gate. Without this a
	// stray leftover word can precede the frame after a blocking re-arm.
	c.add(Descriptor{
		Source:     zeroWord,
		Iterations: 1,
		Dest:       LanePayload,
		BitReverse: true,
	})

	// Preamble: the ones lane opens the high window of every bit cell.
	c.add(Descriptor{
		Source:     onesWord,
		Iterations: 1,
		Dest:       LaneOnes,
	})

	// Payload segments, chained to sidestep the per-descriptor iteration
	// ceiling.
	remaining := active
	for len(remaining) > 0 {
		n := len(remaining)
		if n > maxTransfersPerDescriptor {
			n = maxTransfersPerDescriptor
		}
		c.payload = append(c.payload, len(c.Descriptors))
		c.add(Descriptor{
			Source:     remaining[:n],
			Iterations: uint16(n),
			Dest:       LanePayload,
			BitReverse: true,
		})
		remaining = remaining[n:]
	}

	// Trailer: drop the ones lane so the line idles low through the gap.
	c.Trailer = len(c.Descriptors)
	c.add(Descriptor{
		Source:     zeroWord,
		Iterations: 1,
		Dest:       LaneOnes,
	})

	// Reset-gap loop.
	loop := Descriptor{
		Source:     zeroWord,
		Cycle:      true,
		Iterations: resetLoopIterations,
		Dest:       LanePayload,
	}
	if mode == SingleBufferBlocking {
		loop.Next = ChainEnd
	} else {
		loop.Next = 0
	}
	c.Descriptors = append(c.Descriptors, loop)

	return c
}

// add appends d linked to the descriptor that will follow it.
func (c *Chain) add(d Descriptor) {
	d.Next = len(c.Descriptors) + 1
	c.Descriptors = append(c.Descriptors, d)
}

// PayloadSegments reports how many descriptors carry frame data.
func (c *Chain) PayloadSegments() int { return len(c.payload) }

// setSource repoints the payload segments at a new buffer half. Segment
// sizing is unchanged because both halves are equal by construction.
// Callers must only invoke this at the reset-gap boundary.
func (c *Chain) setSource(active []uint32) {
	off := 0
	for _, i := range c.payload {
		d := &c.Descriptors[i]
		n := int(d.Iterations)
		d.Source = active[off : off+n]
		off += n
	}
}
