package driver

import "testing"

func TestChainTopology(t *testing.T) {
	active := make([]uint32, 240) // small frame, single payload segment
	c := newChain(active, DoubleBuffer)

	if c.PayloadSegments() != 1 {
		t.Fatalf("segments = %d, want 1", c.PayloadSegments())
	}
	// Arena order: payload preset, preamble, payload, trailer, loop.
	if len(c.Descriptors) != 5 {
		t.Fatalf("descriptor count = %d, want 5", len(c.Descriptors))
	}

	preset := c.Descriptors[0]
	if preset.Dest != LanePayload || preset.Iterations != 1 || preset.Source[0] != 0 {
		t.Fatalf("preset descriptor wrong: %+v", preset)
	}
	preamble := c.Descriptors[1]
	if preamble.Dest != LaneOnes || preamble.Source[0] != ^uint32(0) {
		t.Fatalf("preamble descriptor wrong: %+v", preamble)
	}
	payload := c.Descriptors[2]
	if payload.Dest != LanePayload || !payload.BitReverse || int(payload.Iterations) != len(active) {
		t.Fatalf("payload descriptor wrong: %+v", payload)
	}
	trailer := c.Descriptors[c.Trailer]
	if trailer.Dest != LaneOnes || trailer.Source[0] != 0 {
		t.Fatalf("trailer descriptor wrong: %+v", trailer)
	}
	loop := c.Descriptors[len(c.Descriptors)-1]
	if !loop.Cycle || loop.Iterations != resetLoopIterations || loop.Dest != LanePayload {
		t.Fatalf("reset loop descriptor wrong: %+v", loop)
	}

	// Continuous modes re-link the loop to the start.
	if loop.Next != 0 {
		t.Fatalf("continuous loop Next = %d, want 0", loop.Next)
	}
	// The trailer must immediately precede the loop.
	if c.Descriptors[c.Trailer].Next != len(c.Descriptors)-1 {
		t.Fatal("trailer does not link to the reset loop")
	}
}

func TestChainHaltsInBlockingMode(t *testing.T) {
	c := newChain(make([]uint32, 24), SingleBufferBlocking)
	loop := c.Descriptors[len(c.Descriptors)-1]
	if loop.Next != ChainEnd {
		t.Fatalf("blocking loop Next = %d, want ChainEnd", loop.Next)
	}
}

func TestChainSegmentation(t *testing.T) {
	// A frame larger than one descriptor's iteration ceiling must be
	// split, with the segments covering the buffer exactly once.
	words := maxTransfersPerDescriptor + 1000
	active := make([]uint32, words)
	c := newChain(active, SingleBufferContinuous)

	if c.PayloadSegments() != 2 {
		t.Fatalf("segments = %d, want 2", c.PayloadSegments())
	}
	total := 0
	for _, i := range c.payload {
		d := c.Descriptors[i]
		if int(d.Iterations) != len(d.Source) {
			t.Fatalf("segment %d iteration mismatch", i)
		}
		total += int(d.Iterations)
	}
	if total != words {
		t.Fatalf("segments cover %d words, want %d", total, words)
	}
	// Segments chain into each other and end at the trailer.
	first := c.payload[0]
	if c.Descriptors[first].Next != c.payload[1] {
		t.Fatal("first segment does not link to second")
	}
	if c.Descriptors[c.payload[1]].Next != c.Trailer {
		t.Fatal("last segment does not link to trailer")
	}
}

func TestChainSetSource(t *testing.T) {
	a := make([]uint32, 48)
	b := make([]uint32, 48)
	for i := range b {
		b[i] = uint32(i) | 0x100
	}
	c := newChain(a, DoubleBuffer)
	c.setSource(b)

	d := c.Descriptors[c.payload[0]]
	if &d.Source[0] != &b[0] {
		t.Fatal("payload source not repointed")
	}
	if int(d.Iterations) != len(b) {
		t.Fatal("repointing must not change segment sizing")
	}
}
