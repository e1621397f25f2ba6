package driver

import "testing"

func newTestDriver(t *testing.T, pixels uint16, cc ColorCapability, bm BufferMode) (*PixelDriver, *SimulatedEngine) {
	t.Helper()
	d := NewPixelDriver(NewPixelBuffer(pixels, cc, bm))
	e := NewSimulatedEngine(0)
	if err := d.Begin(e, Pins{ShiftClock: 2, LatchClock: 3, Data: 4}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	t.Cleanup(d.Close)
	return d, e
}

func TestBeginValidation(t *testing.T) {
	pins := Pins{ShiftClock: 2, LatchClock: 3, Data: 4}

	if err := NewPixelDriver(nil).Begin(NewSimulatedEngine(0), pins); err != ErrNoBuffer {
		t.Fatalf("nil buffer: %v", err)
	}
	if err := NewPixelDriver(NewPixelBuffer(0, Tricolor, SingleBufferBlocking)).
		Begin(NewSimulatedEngine(0), pins); err != ErrNoBuffer {
		t.Fatalf("zero-length buffer: %v", err)
	}

	e := NewSimulatedEngine(0)
	e.RestrictPins(2, 3)
	if err := NewPixelDriver(NewPixelBuffer(1, Tricolor, SingleBufferBlocking)).
		Begin(e, pins); err != ErrBadPin {
		t.Fatalf("unroutable pin: %v", err)
	}

	bad := NewSimulatedEngine(99)
	if err := NewPixelDriver(NewPixelBuffer(1, Tricolor, SingleBufferBlocking)).
		Begin(bad, pins); err != ErrBadInstance {
		t.Fatalf("bad instance: %v", err)
	}

	denied := NewSimulatedEngine(0)
	denied.DenyClock(true)
	if err := NewPixelDriver(NewPixelBuffer(1, Tricolor, SingleBufferBlocking)).
		Begin(denied, pins); err != ErrClockUnavailable {
		t.Fatalf("denied clock: %v", err)
	}
	// A failed Begin must release its claim: a later Begin on the same
	// instance succeeds.
	ok := NewSimulatedEngine(0)
	retry := NewPixelDriver(NewPixelBuffer(1, Tricolor, SingleBufferBlocking))
	if err := retry.Begin(ok, pins); err != nil {
		t.Fatalf("instance leaked after failed Begin: %v", err)
	}
	retry.Close()
}

func TestInstanceClaimAndClockRefcount(t *testing.T) {
	pins := Pins{ShiftClock: 2, LatchClock: 3, Data: 4}
	e0 := NewSimulatedEngine(0)
	e1 := NewSimulatedEngine(1)

	d0 := NewPixelDriver(NewPixelBuffer(1, Tricolor, SingleBufferBlocking))
	if err := d0.Begin(e0, pins); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	if !e0.ClockEnabled() {
		t.Fatal("first driver must power the clock")
	}

	// Same instance cannot be claimed twice.
	dup := NewPixelDriver(NewPixelBuffer(1, Tricolor, SingleBufferBlocking))
	if err := dup.Begin(NewSimulatedEngine(0), pins); err != ErrInstanceClaimed {
		t.Fatalf("duplicate claim: %v", err)
	}

	d1 := NewPixelDriver(NewPixelBuffer(1, Tricolor, SingleBufferBlocking))
	if err := d1.Begin(e1, pins); err != nil {
		t.Fatalf("second instance Begin: %v", err)
	}
	// The second driver joins an already-powered clock.
	if e1.ClockEnabled() {
		t.Fatal("second driver must not reprogram the clock")
	}

	d0.Close()
	if e0.PinsEnabled() {
		t.Fatal("close must release pins")
	}
	// Clock stays up while d1 lives.
	d1.Close()
	if e1.ClockEnabled() {
		t.Fatal("last close must power the clock down")
	}

	// After release the instance can be claimed again.
	d2 := NewPixelDriver(NewPixelBuffer(1, Tricolor, SingleBufferBlocking))
	if err := d2.Begin(NewSimulatedEngine(0), pins); err != nil {
		t.Fatalf("reclaim after close: %v", err)
	}
	d2.Close()
}

func TestDoubleBegin(t *testing.T) {
	d, _ := newTestDriver(t, 1, Tricolor, SingleBufferBlocking)
	if err := d.Begin(NewSimulatedEngine(1), Pins{ShiftClock: 2, LatchClock: 3, Data: 4}); err != ErrAlreadyBegun {
		t.Fatalf("second Begin: %v", err)
	}
}

func TestChannelTypeRejection(t *testing.T) {
	d, _ := newTestDriver(t, 1, Tricolor, SingleBufferBlocking)

	d.SetChannelType(3, ChannelGRB)
	d.SetChannelType(3, ChannelGRBW) // quad on a tri-color buffer: no-op
	if d.types[3] != ChannelGRB {
		t.Fatalf("GRBW request mutated channel state: %d", d.types[3])
	}
	d.SetChannelType(32, ChannelGRB) // out of range: no-op
	d.SetChannelType(31, ChannelGRB)
	if d.types[31] != ChannelGRB {
		t.Fatal("channel 31 must be configurable")
	}
}

func TestBlockingCycle(t *testing.T) {
	d, e := newTestDriver(t, 2, Tricolor, SingleBufferBlocking)

	// Nothing armed until the first flush.
	if e.Armed() {
		t.Fatal("blocking chain must not arm at Begin")
	}
	if !d.BufferReady() {
		t.Fatal("buffer must be ready before the first flush")
	}

	d.SetChannelType(0, ChannelGRB)
	d.SetPixel(0, 0, Color{R: 10, G: 20, B: 30})
	flushesBefore := e.Flushes
	d.FlushBuffer()
	if e.Flushes <= flushesBefore {
		t.Fatal("flush must write the cache back before re-arming")
	}
	if d.BufferReady() {
		t.Fatal("buffer must not be ready while the transfer is in flight")
	}

	e.CompleteFrame()
	if !d.BufferReady() {
		t.Fatal("buffer must become ready when the chain halts")
	}

	// The payload lane received exactly one frame of buffer words plus
	// the reset loop's zeros and the single preset word.
	want := 2*24 + resetLoopIterations + 1
	if len(e.Wire) != want {
		t.Fatalf("wire captured %d words, want %d", len(e.Wire), want)
	}
}

func TestDoubleBufferSwap(t *testing.T) {
	d, e := newTestDriver(t, 1, Tricolor, DoubleBuffer)

	if !e.Armed() {
		t.Fatal("double-buffer chain must arm at Begin")
	}
	if !d.BufferReady() {
		t.Fatal("no swap pending after Begin")
	}

	front, back := d.active, d.inactive
	if &front[0] == &back[0] {
		t.Fatal("halves must be disjoint")
	}

	d.SetInactivePixel(0, 0, Color{R: 1})
	d.FlipBuffers()

	// Roles exchanged exactly once, repointing deferred to the gap.
	if &d.active[0] != &back[0] || &d.inactive[0] != &front[0] {
		t.Fatal("flip must exchange the halves")
	}
	if d.BufferReady() {
		t.Fatal("swap must be pending until the reset gap")
	}
	if !e.InterruptArmed() {
		t.Fatal("flip must arm the completion interrupt")
	}
	reloads := e.SourceReloads

	e.CompleteFrame()
	if !d.BufferReady() {
		t.Fatal("swap must complete at the reset gap")
	}
	if e.InterruptArmed() {
		t.Fatal("handler must disarm its own trigger")
	}
	if e.SourceReloads != reloads+1 {
		t.Fatal("handler must reload the payload sources once")
	}
	// The chain now sources from the new active half.
	if &d.chain.Descriptors[d.chain.payload[0]].Source[0] != &d.active[0] {
		t.Fatal("payload not repointed to the new active half")
	}

	// A frame run with no flip pending must not swap again.
	e.CompleteFrame()
	if e.SourceReloads != reloads+1 {
		t.Fatal("at most one swap per flip")
	}
}

func TestContinuousModeHasNoGate(t *testing.T) {
	d, e := newTestDriver(t, 1, Tricolor, SingleBufferContinuous)
	if !e.Armed() {
		t.Fatal("continuous chain must arm at Begin")
	}
	if !d.BufferReady() {
		t.Fatal("continuous mode has no readiness gate")
	}
	d.FlushBuffer() // only a cache flush
	if !d.BufferReady() {
		t.Fatal("continuous mode stays ready")
	}
}

func TestEndToEndScenario(t *testing.T) {
	// Two channels, two positions, tri-color: channel 0 GRB, channel 1
	// RGB, same raw tuple. The bit-planes must differ only in ordering,
	// and a full blocking cycle must gate BufferReady false -> true.
	d, e := newTestDriver(t, 2, Tricolor, SingleBufferBlocking)
	d.SetChannelType(0, ChannelGRB)
	d.SetChannelType(1, ChannelRGB)

	c := Color{R: 10, G: 20, B: 30}
	d.SetPixel(0, 0, c)
	d.SetPixel(1, 0, c)

	byteFromPlanes := func(ch uint8, plane int) uint8 {
		var v uint8
		for i := 0; i < 8; i++ {
			v <<= 1
			if d.active[plane+i]&(1<<ch) != 0 {
				v |= 1
			}
		}
		return v
	}
	// GRB channel leads with 20, RGB channel with 10.
	if byteFromPlanes(0, 0) != 20 || byteFromPlanes(1, 0) != 10 {
		t.Fatalf("first-plane bytes: ch0=%d ch1=%d", byteFromPlanes(0, 0), byteFromPlanes(1, 0))
	}
	if byteFromPlanes(0, 8) != 10 || byteFromPlanes(1, 8) != 20 {
		t.Fatalf("second-plane bytes: ch0=%d ch1=%d", byteFromPlanes(0, 8), byteFromPlanes(1, 8))
	}
	// Both read back unchanged.
	if d.GetPixel(0, 0) != c || d.GetPixel(1, 0) != c {
		t.Fatal("round trip failed")
	}

	d.FlushBuffer()
	if d.BufferReady() {
		t.Fatal("ready during transfer")
	}
	e.CompleteFrame()
	if !d.BufferReady() {
		t.Fatal("not ready after transfer")
	}
}

func TestOperationsBeforeBegin(t *testing.T) {
	d := NewPixelDriver(NewPixelBuffer(2, Tricolor, SingleBufferBlocking))
	// All of these must be safe no-ops before Begin.
	d.SetPixel(0, 0, Color{R: 1})
	if d.GetPixel(0, 0) != (Color{}) {
		t.Fatal("read before Begin must be zero")
	}
	d.FlipBuffers()
	d.Close()
	if d.BufferReady() {
		t.Fatal("not ready before Begin")
	}
}
