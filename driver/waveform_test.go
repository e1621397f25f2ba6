package driver

import "testing"

func TestWaveformTimerImages(t *testing.T) {
	w := newWaveformConfig()

	// 96 shift clocks per 1.25us bit cell at a divide-by-2 baud counter:
	// high byte 96*2-1 = 0xBF, low byte 2/2-1 = 0.
	if w.ShiftTimerCmp != 0x0000BF00 {
		t.Fatalf("shift timer compare = %#x, want 0xBF00", w.ShiftTimerCmp)
	}
	// Latch at 2.4MHz from 153.6MHz: divider 64, compare 64/2-1 = 0x1F.
	if w.LatchTimerCmp != 0x0000001F {
		t.Fatalf("latch timer compare = %#x, want 0x1F", w.LatchTimerCmp)
	}
	// Reference divides cleanly to the engine clock.
	if w.ClockPreDiv != 4 {
		t.Fatalf("clock pre-divider = %d, want 4 (divide by 5)", w.ClockPreDiv)
	}
	if w.OnesPattern != ^uint32(0) || w.ZerosPattern != 0 {
		t.Fatal("lane parking patterns wrong")
	}
}

func TestTimingDerivation(t *testing.T) {
	// The clock plan must reproduce the protocol bit rate exactly.
	if shiftClockHz/96 != BitRateHz {
		t.Fatalf("shift clock does not divide to the bit rate: %d", shiftClockHz/96)
	}
	// Three latch periods per bit cell.
	if latchClockHz != 3*BitRateHz {
		t.Fatalf("latch clock = %d, want %d", latchClockHz, 3*BitRateHz)
	}
	// The reset loop must span at least 300us: iterations / bit rate.
	gapNs := resetLoopIterations * (1_000_000_000 / BitRateHz)
	if gapNs < 300_000 {
		t.Fatalf("reset gap %dns is below the 300us minimum", gapNs)
	}
}
