//go:build mimxrt1062

package mimxrt1062

import (
	"runtime/volatile"
	"unsafe"
)

// Register overlays for the i.MX RT1062 peripherals the engine touches.
// Laid out from the RT1060 reference manual; only the registers this
// driver programs are named, the rest are padding.

// FlexIO control block. Eight shifters and eight timers per instance.
type flexioHW struct {
	VERID       volatile.Register32 // 0x00
	PARAM       volatile.Register32 // 0x04
	CTRL        volatile.Register32 // 0x08
	PIN         volatile.Register32 // 0x0C
	SHIFTSTAT   volatile.Register32 // 0x10
	SHIFTERR    volatile.Register32 // 0x14
	TIMSTAT     volatile.Register32 // 0x18
	_           [1]uint32
	SHIFTSIEN   volatile.Register32 // 0x20
	SHIFTEIEN   volatile.Register32 // 0x24
	TIMIEN      volatile.Register32 // 0x28
	_           [1]uint32
	SHIFTSDEN   volatile.Register32 // 0x30
	_           [3]uint32
	SHIFTSTATE  volatile.Register32 // 0x40
	_           [15]uint32
	SHIFTCTL    [8]volatile.Register32 // 0x80
	_           [24]uint32
	SHIFTCFG    [8]volatile.Register32 // 0x100
	_           [56]uint32
	SHIFTBUF    [8]volatile.Register32 // 0x200
	_           [24]uint32
	SHIFTBUFBIS [8]volatile.Register32 // 0x280 bit-reversed view
	_           [24]uint32
	SHIFTBUFBYS [8]volatile.Register32 // 0x300
	_           [24]uint32
	SHIFTBUFBBS [8]volatile.Register32 // 0x380
	_           [24]uint32
	TIMCTL      [8]volatile.Register32 // 0x400
	_           [24]uint32
	TIMCFG      [8]volatile.Register32 // 0x480
	_           [24]uint32
	TIMCMP      [8]volatile.Register32 // 0x500
}

const (
	flexio1Base = 0x401AC000
	flexio2Base = 0x401B0000
)

// FlexIO register bit fields.
const (
	flexioCtrlFlexEn = 1 << 0
	flexioCtrlSwRst  = 1 << 1

	shiftctlSMOD2  = 2 << 0 // transmit
	shiftctlTimPol = 1 << 23
	shiftcfgInSrc  = 1 << 8 // cascade from the next shifter
	timcfgTimEna2  = 2 << 8 // enabled on trigger high
	timctlTimod1   = 1 << 0 // dual 8-bit baud counter
	timctlTimod3   = 3 << 0 // single 16-bit counter
	timctlTrgSrc   = 1 << 22
	timctlTrgPol   = 1 << 23
)

func shiftctlTimSel(n uint32) uint32 { return (n & 7) << 24 }
func shiftctlPinCfg(n uint32) uint32 { return (n & 3) << 16 }
func shiftctlPinSel(n uint32) uint32 { return (n & 0x1F) << 8 }
func timctlTrgSel(n uint32) uint32   { return (n & 0x3F) << 24 }
func timctlPinCfg(n uint32) uint32   { return (n & 3) << 16 }
func timctlPinSel(n uint32) uint32   { return (n & 0x1F) << 8 }

// CCM analog (PLL) block.
type ccmAnalogHW struct {
	_               [40]uint32
	PLL_VIDEO       volatile.Register32 // 0xA0
	PLL_VIDEO_SET   volatile.Register32 // 0xA4
	PLL_VIDEO_CLR   volatile.Register32 // 0xA8
	PLL_VIDEO_TOG   volatile.Register32 // 0xAC
	PLL_VIDEO_NUM   volatile.Register32 // 0xB0
	_               [3]uint32
	PLL_VIDEO_DENOM volatile.Register32 // 0xC0
	_               [43]uint32
	MISC2           volatile.Register32 // 0x170
}

const ccmAnalogBase = 0x400D8000

const (
	pllVideoPowerDown = 1 << 12
	pllVideoEnable    = 1 << 13
	pllVideoBypass    = 1 << 16
	pllVideoLock      = 1 << 31

	pllVideoDivSelectMask = 0x7F
	pllVideoDivSelect32   = 32

	pllVideoPostDivMask = 3 << 19
	pllVideoPostDiv1    = 2 << 19 // encoding for divide-by-1

	pllVideoBypassSrcMask = 3 << 14

	misc2VideoDivMask = 3 << 30
)

// CCM clock tree registers reaching the FlexIO root muxes and gates.
// The registers are spread out enough that addressing them individually
// is clearer than one big overlay.
const (
	ccmBase       = 0x400FC000
	ccmCDCDRAddr  = ccmBase + 0x30 // FLEXIO1 clk sel/pred/podf
	ccmCSCMR2Addr = ccmBase + 0x20 // FLEXIO2 clk sel
	ccmCS1CDRAddr = ccmBase + 0x28 // FLEXIO2 pred/podf
	ccmCCGR3Addr  = ccmBase + 0x74 // FLEXIO2 gate
	ccmCCGR5Addr  = ccmBase + 0x7C // FLEXIO1 gate
)

// Field encodings inside the clock tree registers above.
const (
	cdcdrFlexio1SelMask  = 3 << 7
	cdcdrFlexio1PodfMask = 7 << 9
	cdcdrFlexio1PredMask = 7 << 12

	cscmr2Flexio2SelMask  = 3 << 19
	cs1cdrFlexio2PredMask = 7 << 9
	cs1cdrFlexio2PodfMask = 7 << 25

	ccgrOn          = 3
	ccgr5Flexio1Pos = 2
	ccgr5DMAPos     = 6
	ccgr3Flexio2Pos = 0
)

func cdcdrFlexio1Sel(n uint32) uint32   { return (n & 3) << 7 }
func cdcdrFlexio1Podf(n uint32) uint32  { return (n & 7) << 9 }
func cdcdrFlexio1Pred(n uint32) uint32  { return (n & 7) << 12 }
func cscmr2Flexio2Sel(n uint32) uint32  { return (n & 3) << 19 }
func cs1cdrFlexio2Pred(n uint32) uint32 { return (n & 7) << 9 }
func cs1cdrFlexio2Podf(n uint32) uint32 { return (n & 7) << 25 }

func reg32(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

// IOMUXC pad routing. The pad-control register sits at a fixed offset
// from the mux register on this part.
const (
	iomuxcPadCtlDelta = 0x1F0

	padDSE      = 7 << 3 // maximum drive strength
	padSpeedMax = 3 << 6
	padIdle     = 1<<12 | 2<<6 | 6<<3 // keeper, medium speed/drive
)
