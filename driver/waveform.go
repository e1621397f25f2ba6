package driver

// WS28xx bit timing. Each bit cell is nominally 1.25us and is built from
// three latch periods: the ones lane drives the first third high, the
// payload lane carries the data bit through the middle third, and the
// zeros lane keeps the final third low. That yields T0H = 1/3 and
// T1H = 2/3 of the cell, inside every WS28xx variant's tolerance.
const (
	// BitRateHz is the protocol bit rate (1.25us per bit cell).
	BitRateHz = 800_000

	// ReferenceHz is the high-frequency reference the engine's clock tree
	// divides down from (a 768MHz PLL on the real part).
	ReferenceHz = 768_000_000

	// engineClockHz feeds the two timers: reference / 5.
	engineClockHz = 153_600_000

	// shiftClockHz shifts one 32-bit word to the external registers per
	// latch period: 96 shift clocks per bit cell.
	shiftClockHz = 76_800_000

	// latchClockHz strobes the external registers' outputs three times
	// per bit cell.
	latchClockHz = 2_400_000
)

// WaveformConfig is the register image an Engine programs verbatim. All
// timing decisions are made here so the hardware targets stay mechanical.
type WaveformConfig struct {
	// Clock tree settings taking the reference down to the engine clock.
	ClockSelect  uint8 // reference source selector
	ClockPreDiv  uint8 // pre-divider minus one (4 -> divide by 5)
	ClockPostDiv uint8 // post-divider minus one

	// ShiftTimerCmp is the dual 8-bit compare word for the bit-cell timer:
	// low byte is the baud divider (div/2-1), high byte the shift count
	// (shifts*2-1).
	ShiftTimerCmp uint32

	// LatchTimerCmp is the 16-bit compare word for the latch timer
	// (div/2-1).
	LatchTimerCmp uint32

	// Lane parking values. PayloadPreload is a recognizable pattern left
	// in the payload lane so a stalled descriptor chain shows up on a
	// scope instead of transmitting stale pixels.
	OnesPattern    uint32
	ZerosPattern   uint32
	PayloadPreload uint32
}

// newWaveformConfig derives the timer compare images from the fixed
// clock plan. The arithmetic is kept live rather than hard-coding the
// two magic words so the relationship to the protocol timing is checked
// by tests.
func newWaveformConfig() WaveformConfig {
	const shiftsPerCell = shiftClockHz / BitRateHz // 96
	return WaveformConfig{
		ClockSelect:  clockSelectReference,
		ClockPreDiv:  ReferenceHz/engineClockHz - 1,
		ClockPostDiv: 0,

		ShiftTimerCmp: uint32(shiftsPerCell*2-1)<<8 |
			uint32(engineClockHz/shiftClockHz/2-1),
		LatchTimerCmp: uint32(engineClockHz/latchClockHz/2 - 1),

		OnesPattern:    ^uint32(0),
		ZerosPattern:   0,
		PayloadPreload: 0xAAAAAAAA,
	}
}

// clockSelectReference picks the PLL-derived reference in the engine's
// clock mux.
const clockSelectReference = 2
