// Package driver drives large arrays of WS28xx LED strips, up to 32 in
// parallel, from one timer/shifter/DMA engine. The engine shifts three
// interleaved 32-bit lanes out to external shift registers, turning every
// word of a bit-packed frame buffer into one protocol bit on all 32
// outputs at once; a chained DMA descriptor ring reproduces whole frames,
// including the inter-frame reset gap, without per-bit CPU involvement.
package driver

import "errors"

// Errors reported by Begin. Configuration failures are values the caller
// checks; the driver never panics on them.
var (
	ErrNoBuffer         = errors.New("flexled: driver has no pixel buffer")
	ErrAlreadyBegun     = errors.New("flexled: driver already started")
	ErrBadInstance      = errors.New("flexled: invalid engine instance")
	ErrInstanceClaimed  = errors.New("flexled: engine instance already claimed")
	ErrBadPin           = errors.New("flexled: pin not routable to this engine")
	ErrClockUnavailable = errors.New("flexled: reference clock unavailable")
	ErrBufferTooLarge   = errors.New("flexled: buffer exceeds descriptor arena")
)

// PixelDriver owns one PixelBuffer and one claimed engine instance.
// A single application thread plus the engine's completion interrupt are
// the only contexts that touch it.
type PixelDriver struct {
	buf   *PixelBuffer
	eng   Engine
	pins  Pins
	chain *Chain
	types [MaxChannels]ChannelType

	active   []uint32
	inactive []uint32

	// swapPending is set by FlipBuffers and cleared by the completion
	// handler; while set, the hardware still transmits the old frame.
	swapPending bool
}

// NewPixelDriver binds a driver to its pre-sized buffer. The driving
// hardware is attached later by Begin.
func NewPixelDriver(buf *PixelBuffer) *PixelDriver {
	return &PixelDriver{buf: buf}
}

// Begin claims eng, validates pins, and brings up the clock tree, the
// waveform timers and the descriptor chain. In the continuous modes the
// chain is armed immediately; a blocking driver stays idle until the
// first FlushBuffer. Begin does not retry: on error the caller decides
// whether to halt or try a different instance or pin set.
func (d *PixelDriver) Begin(eng Engine, pins Pins) error {
	if d.buf == nil || d.buf.pixels == 0 {
		return ErrNoBuffer
	}
	if d.eng != nil {
		return ErrAlreadyBegun
	}
	if (d.buf.halfWords()+maxTransfersPerDescriptor-1)/maxTransfersPerDescriptor > maxPayloadSegments {
		return ErrBufferTooLarge
	}
	for _, p := range [...]Pin{pins.ShiftClock, pins.LatchClock, pins.Data} {
		if !eng.ValidPin(p) {
			return ErrBadPin
		}
	}

	first, err := claimInstance(eng.InstanceID(), d)
	if err != nil {
		return err
	}
	if first && !eng.ConfigureClock(true) {
		releaseInstance(eng.InstanceID(), d)
		return ErrClockUnavailable
	}

	d.active = d.buf.half(0)
	d.inactive = d.active
	if d.buf.mode == DoubleBuffer {
		d.inactive = d.buf.half(1)
	}
	for i := range d.buf.words {
		d.buf.words[i] = 0
	}
	eng.FlushCache(d.buf.words)

	d.eng = eng
	d.pins = pins
	eng.ConfigurePins(pins, true)
	eng.ConfigureWaveform(newWaveformConfig(), true)

	d.chain = newChain(d.active, d.buf.mode)
	d.chain.OnComplete = d.chainCompleted
	eng.ConfigureChain(d.chain, true)
	if d.buf.mode != SingleBufferBlocking {
		eng.ArmChain()
	}
	return nil
}

// Close tears the driver down in the reverse of bring-up order: chain,
// waveform, pins, then the claimed instance, powering the shared clock
// down with the last driver out. The driver may Begin again afterwards.
func (d *PixelDriver) Close() {
	if d.eng == nil {
		return
	}
	d.eng.SetCompletionInterrupt(false)
	d.eng.DisarmChain()
	d.eng.ConfigureChain(d.chain, false)
	d.eng.ConfigureWaveform(WaveformConfig{}, false)
	d.eng.ConfigurePins(d.pins, false)
	if releaseInstance(d.eng.InstanceID(), d) {
		d.eng.ConfigureClock(false)
	}
	d.eng = nil
	d.chain = nil
	d.active = nil
	d.inactive = nil
	d.swapPending = false
}

// SetChannelType sets the color order serialized on channel. Invalid
// channels and GRBW requests on a Tricolor buffer are ignored without
// touching existing state.
func (d *PixelDriver) SetChannelType(channel uint8, t ChannelType) {
	if d.buf == nil || channel >= MaxChannels {
		return
	}
	if t == ChannelGRBW && d.buf.cap != Quadcolor {
		return
	}
	d.types[channel] = t
}

// SetPixel writes into the active buffer; in double-buffer use,
// SetInactivePixel is the one that stages the next frame.
func (d *PixelDriver) SetPixel(channel uint8, index uint16, c Color) {
	d.SetActivePixel(channel, index, c)
}

// SetActivePixel writes a pixel into the active (transmitting) half.
func (d *PixelDriver) SetActivePixel(channel uint8, index uint16, c Color) {
	d.write(d.active, channel, index, c)
}

// SetInactivePixel writes a pixel into the half the application owns.
func (d *PixelDriver) SetInactivePixel(channel uint8, index uint16, c Color) {
	d.write(d.inactive, channel, index, c)
}

// GetPixel reads back from the active half.
func (d *PixelDriver) GetPixel(channel uint8, index uint16) Color {
	return d.GetActivePixel(channel, index)
}

// GetActivePixel reads a pixel from the active half.
func (d *PixelDriver) GetActivePixel(channel uint8, index uint16) Color {
	return d.read(d.active, channel, index)
}

// GetInactivePixel reads a pixel from the inactive half.
func (d *PixelDriver) GetInactivePixel(channel uint8, index uint16) Color {
	return d.read(d.inactive, channel, index)
}

func (d *PixelDriver) write(buf []uint32, channel uint8, index uint16, c Color) {
	if d.buf == nil || channel >= MaxChannels {
		return
	}
	writePixel(buf, d.types[channel], channel, index, d.buf.pixels, c)
}

func (d *PixelDriver) read(buf []uint32, channel uint8, index uint16) Color {
	if d.buf == nil || channel >= MaxChannels {
		return Color{}
	}
	return readPixel(buf, d.types[channel], channel, index, d.buf.pixels)
}

// FlipBuffers hands the application's writes to the hardware.
//
// Blocking single-buffer: waits out any in-flight pass (bounded by one
// frame plus the reset gap), flushes the cache and re-arms the chain.
// Double-buffer: exchanges the halves and defers the descriptor
// repointing to the completion interrupt, so the swap takes effect only
// at the next reset gap and never mid-frame. Continuous single-buffer:
// just flushes the cache; writes race the hardware by design.
func (d *PixelDriver) FlipBuffers() {
	if d.eng == nil {
		return
	}
	switch d.buf.mode {
	case SingleBufferBlocking:
		for d.eng.ChainBusy() {
		}
		d.eng.FlushCache(d.active)
		d.eng.ArmChain()

	case DoubleBuffer:
		state := disableInterrupts()
		d.active, d.inactive = d.inactive, d.active
		d.swapPending = true
		restoreInterrupts(state)
		d.eng.FlushCache(d.active)
		d.eng.SetCompletionInterrupt(true)

	case SingleBufferContinuous:
		d.eng.FlushCache(d.active)
	}
}

// FlushBuffer is the single-buffer-mode name for FlipBuffers.
func (d *PixelDriver) FlushBuffer() {
	d.FlipBuffers()
}

// BufferReady reports, without blocking, whether the buffer may be
// written: in blocking mode, whether the chain has halted; in
// double-buffer mode, whether the last flip has completed so another
// FlipBuffers will not have to wait. Continuous single-buffer mode has
// no gate and always reports true once begun.
func (d *PixelDriver) BufferReady() bool {
	if d.eng == nil {
		return false
	}
	switch d.buf.mode {
	case SingleBufferBlocking:
		return !d.eng.ChainBusy()
	case DoubleBuffer:
		state := disableInterrupts()
		pending := d.swapPending
		restoreInterrupts(state)
		return !pending
	default:
		return true
	}
}

// chainCompleted runs in the completion-interrupt context at the start
// of the reset gap, the only boundary where repointing the payload
// sources cannot tear a frame. It disarms its own trigger first so at
// most one swap is processed per gap.
func (d *PixelDriver) chainCompleted() {
	d.eng.SetCompletionInterrupt(false)
	d.chain.setSource(d.active)
	d.eng.ReloadSources(d.chain)
	d.swapPending = false
}
