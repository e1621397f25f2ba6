//go:build mimxrt1062

package mimxrt1062

import (
	"runtime/volatile"
	"unsafe"

	"device/arm"
)

// The Cortex-M7 data cache must be cleaned before DMA reads a buffer,
// otherwise the controller sees stale memory.

const (
	scbDCCMVAC    = 0xE000EF68 // clean data cache by address
	dcacheLineLen = 32
)

var dccmvac = (*volatile.Register32)(unsafe.Pointer(uintptr(scbDCCMVAC)))

// cleanDCache writes back every cache line covering the word slice.
func cleanDCache(words []uint32) {
	if len(words) == 0 {
		return
	}
	addr := uintptr(unsafe.Pointer(&words[0]))
	end := addr + uintptr(len(words))*4
	addr &^= dcacheLineLen - 1

	arm.Asm("dsb")
	for ; addr < end; addr += dcacheLineLen {
		dccmvac.Set(uint32(addr))
	}
	arm.Asm("dsb")
	arm.Asm("isb")
}
