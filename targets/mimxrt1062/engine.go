//go:build mimxrt1062

// Package mimxrt1062 implements the pixel engine on the i.MX RT1062
// (Teensy 4.x) using FlexIO and eDMA. A FlexIO instance clocks three
// daisy-chained external 74HC595 shift registers; eDMA feeds the payload
// shifter from the frame buffer without CPU involvement.
package mimxrt1062

import (
	"runtime/interrupt"
	"unsafe"

	"device/arm"
	"device/nxp"

	"flexled/driver"
)

// FlexEngine is one FlexIO instance with its statically assigned DMA
// channel. Use the FlexIO1 and FlexIO2 package variables.
type FlexEngine struct {
	hw         *flexioHW
	instance   int
	dmaChannel uint8
	muxSource  uint32 // DMAMUX slot for this instance's shifter request

	irq   interrupt.Interrupt
	pins  driver.Pins
	chain *driver.Chain
	tcds  []tcd
}

var (
	FlexIO1 = &FlexEngine{
		hw:         (*flexioHW)(unsafe.Pointer(uintptr(flexio1Base))),
		instance:   0,
		dmaChannel: 0,
		muxSource:  0,
	}
	FlexIO2 = &FlexEngine{
		hw:         (*flexioHW)(unsafe.Pointer(uintptr(flexio2Base))),
		instance:   1,
		dmaChannel: 1,
		muxSource:  1,
	}
)

// Shifter lane assignment. The three shifters cascade so a single data
// pin carries ones gate, payload, and zeros parking in sequence.
const (
	shifterOnes    = 0
	shifterPayload = 1
	shifterZeros   = 2
)

var ccmAnalog = (*ccmAnalogHW)(unsafe.Pointer(uintptr(ccmAnalogBase)))

func init() {
	FlexIO1.irq = interrupt.New(nxp.IRQ_DMA0_DMA16, dma0ISR)
	FlexIO2.irq = interrupt.New(nxp.IRQ_DMA1_DMA17, dma1ISR)
}

func dma0ISR(interrupt.Interrupt) { FlexIO1.serviceInterrupt() }
func dma1ISR(interrupt.Interrupt) { FlexIO2.serviceInterrupt() }

func (e *FlexEngine) InstanceID() int { return e.instance }

func (e *FlexEngine) ValidPin(p driver.Pin) bool {
	_, ok := flexRoutes[e.instance][p]
	return ok
}

// ConfigureClock programs the video PLL to 24MHz * 32 = 768MHz with the
// post dividers at 1. The PLL is bypassed to the oscillator and powered
// down around reprogramming. If another subsystem already runs the PLL
// at a different multiple, the engine refuses rather than retune it.
func (e *FlexEngine) ConfigureClock(enable bool) bool {
	a := ccmAnalog

	if enable {
		v := a.PLL_VIDEO.Get()
		if v&pllVideoPowerDown == 0 && v&pllVideoDivSelectMask != pllVideoDivSelect32 {
			return false
		}
	}

	a.PLL_VIDEO_CLR.Set(pllVideoBypassSrcMask)
	a.PLL_VIDEO_SET.Set(pllVideoBypass)
	a.PLL_VIDEO_SET.Set(pllVideoPowerDown)

	if !enable {
		return true
	}

	a.PLL_VIDEO_CLR.Set(pllVideoDivSelectMask)
	a.PLL_VIDEO_SET.Set(pllVideoDivSelect32)
	a.PLL_VIDEO_NUM.Set(0)
	a.PLL_VIDEO_DENOM.Set(1)
	a.PLL_VIDEO_CLR.Set(pllVideoPostDivMask)
	a.PLL_VIDEO_SET.Set(pllVideoPostDiv1)
	a.MISC2.ClearBits(misc2VideoDivMask)

	a.PLL_VIDEO_SET.Set(pllVideoEnable)
	a.PLL_VIDEO_CLR.Set(pllVideoPowerDown)
	for a.PLL_VIDEO.Get()&pllVideoLock == 0 {
	}
	a.PLL_VIDEO_CLR.Set(pllVideoBypass)
	return true
}

func (e *FlexEngine) ConfigurePins(p driver.Pins, enable bool) {
	e.pins = p
	routes := flexRoutes[e.instance]
	routePin(routes[p.ShiftClock], enable)
	routePin(routes[p.LatchClock], enable)
	routePin(routes[p.Data], enable)
}

// ConfigureWaveform resets the FlexIO block and, on enable, programs the
// clock root, the three cascaded shifters and the two timers from the
// register image, then turns the block on.
func (e *FlexEngine) ConfigureWaveform(w driver.WaveformConfig, enable bool) {
	if enable {
		e.setRootClock(w, true)
	}

	p := e.hw
	p.CTRL.Set(flexioCtrlSwRst)
	p.CTRL.Set(0)

	if !enable {
		e.setRootClock(w, false)
		return
	}

	routes := flexRoutes[e.instance]
	dataPin := routes[e.pins.Data].flexPin
	shiftPin := routes[e.pins.ShiftClock].flexPin
	latchPin := routes[e.pins.LatchClock].flexPin

	// Shifter 0 owns the data pin; 1 and 2 cascade into it.
	p.SHIFTCTL[shifterOnes].Set(shiftctlTimSel(0) | shiftctlTimPol |
		shiftctlPinCfg(3) | shiftctlPinSel(dataPin) | shiftctlSMOD2)
	p.SHIFTCTL[shifterPayload].Set(shiftctlTimSel(0) | shiftctlTimPol | shiftctlSMOD2)
	p.SHIFTCTL[shifterZeros].Set(shiftctlTimSel(0) | shiftctlTimPol | shiftctlSMOD2)

	p.SHIFTCFG[shifterOnes].Set(shiftcfgInSrc)
	p.SHIFTCFG[shifterPayload].Set(shiftcfgInSrc)
	p.SHIFTCFG[shifterZeros].Set(shiftcfgInSrc)

	// Timer 0 generates the shift clock in dual 8-bit baud mode, timer 1
	// the latch strobe in 16-bit counter mode. Both free-run from an
	// always-true trigger.
	p.TIMCFG[0].Set(timcfgTimEna2)
	p.TIMCFG[1].Set(timcfgTimEna2)

	p.TIMCTL[0].Set(timctlTrgSel(1) | timctlTrgPol | timctlTrgSrc |
		timctlPinCfg(3) | timctlPinSel(shiftPin) | timctlTimod1)
	p.TIMCTL[1].Set(timctlTrgSel(1) | timctlTrgPol | timctlTrgSrc |
		timctlPinCfg(3) | timctlPinSel(latchPin) | timctlTimod3)

	p.TIMCMP[0].Set(w.ShiftTimerCmp)
	p.TIMCMP[1].Set(w.LatchTimerCmp)

	// Park the lanes. The payload preload shows on a scope if DMA never
	// writes the shifter.
	p.SHIFTBUF[shifterOnes].Set(w.OnesPattern)
	p.SHIFTBUFBIS[shifterPayload].Set(w.PayloadPreload)
	p.SHIFTBUF[shifterZeros].Set(w.ZerosPattern)

	// DMA request on the payload shifter's status flag.
	p.SHIFTSDEN.SetBits(1 << shifterPayload)

	p.CTRL.Set(flexioCtrlFlexEn)
}

// setRootClock gates the instance off, points its clock root at the
// selected reference with the image's dividers, and gates it back on.
func (e *FlexEngine) setRootClock(w driver.WaveformConfig, enable bool) {
	if e.instance == 0 {
		g := reg32(ccmCCGR5Addr)
		g.ClearBits(ccgrOn << ccgr5Flexio1Pos)
		if !enable {
			return
		}
		r := reg32(ccmCDCDRAddr)
		v := r.Get() &^ uint32(cdcdrFlexio1SelMask|cdcdrFlexio1PredMask|cdcdrFlexio1PodfMask)
		r.Set(v | cdcdrFlexio1Sel(uint32(w.ClockSelect)) |
			cdcdrFlexio1Pred(uint32(w.ClockPreDiv)) |
			cdcdrFlexio1Podf(uint32(w.ClockPostDiv)))
		g.SetBits(ccgrOn << ccgr5Flexio1Pos)
		return
	}

	g := reg32(ccmCCGR3Addr)
	g.ClearBits(ccgrOn << ccgr3Flexio2Pos)
	if !enable {
		return
	}
	sel := reg32(ccmCSCMR2Addr)
	sel.Set(sel.Get()&^uint32(cscmr2Flexio2SelMask) | cscmr2Flexio2Sel(uint32(w.ClockSelect)))
	div := reg32(ccmCS1CDRAddr)
	v := div.Get() &^ uint32(cs1cdrFlexio2PredMask|cs1cdrFlexio2PodfMask)
	div.Set(v | cs1cdrFlexio2Pred(uint32(w.ClockPreDiv)) |
		cs1cdrFlexio2Podf(uint32(w.ClockPostDiv)))
	g.SetBits(ccgrOn << ccgr3Flexio2Pos)
}

// ConfigureChain translates the descriptor arena into eDMA TCDs, routes
// the payload shifter's request to the channel through DMAMUX, and
// enables the channel's interrupt vector. Arming is separate.
func (e *FlexEngine) ConfigureChain(c *driver.Chain, enable bool) {
	dmaRegs.CERQ.Set(e.dmaChannel)

	if !enable {
		e.irq.Disable()
		dmamuxChCfg[e.dmaChannel].Set(0)
		e.chain = nil
		e.tcds = nil
		return
	}

	reg32(ccmCCGR5Addr).SetBits(ccgrOn << ccgr5DMAPos)

	e.chain = c
	e.tcds = newTCDArena(len(c.Descriptors))
	for i := range c.Descriptors {
		e.loadTCD(&e.tcds[i], &c.Descriptors[i])
	}
	e.linkTCDs(c)

	dmamuxChCfg[e.dmaChannel].Set(dmamuxEnable | e.muxSource)
	e.irq.Enable()
}

func (e *FlexEngine) ArmChain() { e.armChannel() }

func (e *FlexEngine) DisarmChain() { dmaRegs.CERQ.Set(e.dmaChannel) }

func (e *FlexEngine) ChainBusy() bool { return e.channelEnabled() }

// ReloadSources rewrites every arena TCD's source address from its
// descriptor. Only the payload descriptors ever move, but rewriting all
// of them keeps this free of chain-layout knowledge.
func (e *FlexEngine) ReloadSources(c *driver.Chain) {
	for i := range c.Descriptors {
		e.tcds[i].SADDR.Set(uint32(uintptr(unsafe.Pointer(&c.Descriptors[i].Source[0]))))
	}
}

func (e *FlexEngine) SetCompletionInterrupt(enable bool) {
	if e.chain == nil {
		return
	}
	t := &e.tcds[e.chain.Trailer]
	if enable {
		t.CSR.SetBits(tcdCSRIntMajor)
	} else {
		t.CSR.ClearBits(tcdCSRIntMajor)
	}
}

func (e *FlexEngine) FlushCache(words []uint32) { cleanDCache(words) }

// serviceInterrupt runs on the channel's completion vector. The driver's
// handler disarms the trailer interrupt and repoints the payload before
// the reset gap ends.
func (e *FlexEngine) serviceInterrupt() {
	dmaRegs.CINT.Set(e.dmaChannel)
	if c := e.chain; c != nil && c.OnComplete != nil {
		c.OnComplete()
	}
	arm.Asm("dsb")
	arm.Asm("isb")
}
