//go:build !tinygo

package driver

// State stands in for the saved interrupt mask on regular Go.
type State uintptr

// disableInterrupts is a no-op on regular Go; tests run single-threaded
// and drive interrupt-context code synchronously.
func disableInterrupts() State {
	return 0
}

// restoreInterrupts is a no-op on regular Go.
func restoreInterrupts(state State) {
}
