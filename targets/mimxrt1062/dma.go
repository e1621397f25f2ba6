//go:build mimxrt1062

package mimxrt1062

import (
	"runtime/volatile"
	"unsafe"

	"flexled/driver"
)

// eDMA engine. The descriptor chain is realized as an arena of in-memory
// TCDs linked by scatter/gather: when a TCD's major loop completes, the
// hardware loads the next arena TCD into the channel registers. One DMA
// channel is statically assigned per FlexIO instance; with two instances
// at most, static assignment is good enough.

const (
	dmaBase    = 0x400E8000
	dmaTCDBase = dmaBase + 0x1000
	dmamuxBase = 0x400EC000
)

// tcd is one eDMA transfer control descriptor. Hardware requires
// 32-byte alignment for scatter/gather loads.
type tcd struct {
	SADDR    volatile.Register32
	SOFF     volatile.Register16
	ATTR     volatile.Register16
	NBYTES   volatile.Register32
	SLAST    volatile.Register32
	DADDR    volatile.Register32
	DOFF     volatile.Register16
	CITER    volatile.Register16
	DLASTSGA volatile.Register32
	CSR      volatile.Register16
	BITER    volatile.Register16
}

const tcdSize = 32

// TCD CSR bits.
const (
	tcdCSRStart    = 1 << 0
	tcdCSRIntMajor = 1 << 1
	tcdCSRDReq     = 1 << 3 // clear ERQ when the major loop completes
	tcdCSRESG      = 1 << 4 // scatter/gather
)

// 32-bit source and destination transfers.
const tcdAttr32 = 0x0202

type dmaHW struct {
	CR   volatile.Register32 // 0x00
	ES   volatile.Register32 // 0x04
	_    [1]uint32
	ERQ  volatile.Register32 // 0x0C
	_    [2]uint32
	EEI  volatile.Register32 // 0x14
	CEEI volatile.Register8  // 0x18
	SEEI volatile.Register8  // 0x19
	CERQ volatile.Register8  // 0x1A
	SERQ volatile.Register8  // 0x1B
	CDNE volatile.Register8  // 0x1C
	SSRT volatile.Register8  // 0x1D
	CERR volatile.Register8  // 0x1E
	CINT volatile.Register8  // 0x1F
	_    [1]uint32
	INT  volatile.Register32 // 0x24
}

var dmaRegs = (*dmaHW)(unsafe.Pointer(uintptr(dmaBase)))

var dmamuxChCfg = (*[32]volatile.Register32)(unsafe.Pointer(uintptr(dmamuxBase)))

const dmamuxEnable = 1 << 31

// channelTCD returns the live TCD registers of a DMA channel.
func channelTCD(ch uint8) *tcd {
	return (*tcd)(unsafe.Pointer(uintptr(dmaTCDBase) + uintptr(ch)*tcdSize))
}

// newTCDArena allocates n TCDs on a 32-byte boundary.
func newTCDArena(n int) []tcd {
	raw := make([]byte, (n+1)*tcdSize)
	off := (tcdSize - int(uintptr(unsafe.Pointer(&raw[0]))&(tcdSize-1))) & (tcdSize - 1)
	return unsafe.Slice((*tcd)(unsafe.Pointer(&raw[off])), n)
}

// laneAddr resolves a descriptor destination to a shifter buffer
// register. The payload lane is written through its bit-reversed view so
// the most significant bit of every word shifts out first.
func (e *FlexEngine) laneAddr(lane driver.Lane, bitReverse bool) uint32 {
	var r *volatile.Register32
	switch lane {
	case driver.LaneOnes:
		r = &e.hw.SHIFTBUF[shifterOnes]
	case driver.LaneZeros:
		r = &e.hw.SHIFTBUF[shifterZeros]
	default:
		if bitReverse {
			r = &e.hw.SHIFTBUFBIS[shifterPayload]
		} else {
			r = &e.hw.SHIFTBUF[shifterPayload]
		}
	}
	return uint32(uintptr(unsafe.Pointer(r)))
}

// loadTCD fills an arena TCD from a chain descriptor. Linking is filled
// in afterwards, once every arena entry has an address.
func (e *FlexEngine) loadTCD(t *tcd, d *driver.Descriptor) {
	t.SADDR.Set(uint32(uintptr(unsafe.Pointer(&d.Source[0]))))
	if d.Cycle {
		t.SOFF.Set(0)
		t.SLAST.Set(0)
	} else {
		t.SOFF.Set(4)
		t.SLAST.Set(uint32(-(int32(d.Iterations) * 4)))
	}
	t.ATTR.Set(tcdAttr32)
	t.NBYTES.Set(4)
	t.DADDR.Set(e.laneAddr(d.Dest, d.BitReverse))
	t.DOFF.Set(0)
	t.CITER.Set(d.Iterations)
	t.BITER.Set(d.Iterations)
	t.DLASTSGA.Set(0)
	t.CSR.Set(0)
}

// linkTCDs wires the arena's scatter/gather links per the chain's Next
// topology. A ChainEnd link becomes a disable-on-completion request.
func (e *FlexEngine) linkTCDs(c *driver.Chain) {
	for i := range c.Descriptors {
		t := &e.tcds[i]
		next := c.Descriptors[i].Next
		if next == driver.ChainEnd {
			t.CSR.SetBits(tcdCSRDReq)
			continue
		}
		t.DLASTSGA.Set(uint32(uintptr(unsafe.Pointer(&e.tcds[next]))))
		t.CSR.SetBits(tcdCSRESG)
	}
}

// armChannel loads the chain's first TCD into the live channel registers
// and enables the hardware request.
func (e *FlexEngine) armChannel() {
	live := channelTCD(e.dmaChannel)
	first := &e.tcds[0]

	live.SADDR.Set(first.SADDR.Get())
	live.SOFF.Set(first.SOFF.Get())
	live.ATTR.Set(first.ATTR.Get())
	live.NBYTES.Set(first.NBYTES.Get())
	live.SLAST.Set(first.SLAST.Get())
	live.DADDR.Set(first.DADDR.Get())
	live.DOFF.Set(first.DOFF.Get())
	live.CITER.Set(first.CITER.Get())
	live.DLASTSGA.Set(first.DLASTSGA.Get())
	live.BITER.Set(first.BITER.Get())
	live.CSR.Set(first.CSR.Get())

	dmaRegs.SERQ.Set(e.dmaChannel)
}

func (e *FlexEngine) channelEnabled() bool {
	return dmaRegs.ERQ.Get()&(1<<e.dmaChannel) != 0
}
