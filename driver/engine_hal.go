package driver

// Pin is a board pin number, in whatever numbering the engine target
// uses for the part it drives.
type Pin uint8

// Pins assigns the three lines between the engine and the external
// shift registers fanning one serial stream out to 32 channels.
type Pins struct {
	ShiftClock Pin // SRCLK: shift clock to the external registers
	LatchClock Pin // RCLK: output latch strobe
	Data       Pin // SER: serial data
}

// Engine is the narrow hardware surface the driver programs: one
// timer/shifter peripheral instance plus the DMA engine feeding it.
// Implementations are the hardware targets and the simulated engine.
//
// All methods are called from the application thread except
// ReloadSources, which the completion handler calls in interrupt
// context, and SetCompletionInterrupt, which both contexts call.
type Engine interface {
	// InstanceID identifies the physical peripheral instance for the
	// claim registry. IDs are small and dense, starting at zero.
	InstanceID() int

	// ValidPin reports whether p can be routed to this instance.
	ValidPin(p Pin) bool

	// ConfigureClock powers the shared high-frequency reference up or
	// down. It reports false when the clock is already owned by an
	// incompatible configuration and cannot be reprogrammed.
	ConfigureClock(enable bool) bool

	// ConfigurePins routes the pins to the engine, or back to benign
	// inputs on disable.
	ConfigurePins(p Pins, enable bool)

	// ConfigureWaveform programs the timers and shifter lanes from the
	// register image, or resets the block on disable.
	ConfigureWaveform(w WaveformConfig, enable bool)

	// ConfigureChain loads the descriptor arena into the DMA hardware,
	// binding c.OnComplete as the completion handler, or tears the
	// channel down on disable. Loading does not arm the chain.
	ConfigureChain(c *Chain, enable bool)

	// ArmChain reloads the chain's first descriptor and enables the
	// transfer request, starting a pass on the next shifter trigger.
	// Also used to re-arm a blocking chain that disabled itself.
	ArmChain()

	// DisarmChain disables the transfer request.
	DisarmChain()

	// ChainBusy reports whether a transfer pass is still outstanding.
	ChainBusy() bool

	// ReloadSources rewrites the payload descriptors' source addresses
	// from the chain arena. Interrupt-context safe.
	ReloadSources(c *Chain)

	// SetCompletionInterrupt arms or clears the completion interrupt on
	// the chain's trailer descriptor.
	SetCompletionInterrupt(enable bool)

	// FlushCache makes CPU writes to words visible to the DMA engine.
	FlushCache(words []uint32)
}
