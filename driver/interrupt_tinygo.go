//go:build tinygo

package driver

import "runtime/interrupt"

// disableInterrupts masks interrupts and returns the previous state.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores a state saved by disableInterrupts.
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
