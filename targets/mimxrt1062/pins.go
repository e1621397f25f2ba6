//go:build mimxrt1062

package mimxrt1062

import "flexled/driver"

// padRoute ties a Teensy board pin to its IOMUXC mux register, the ALT
// function selecting FlexIO, and the FlexIO pin index it lands on.
type padRoute struct {
	mux     uintptr
	alt     uint32
	flexPin uint32
}

const iomuxcBase = 0x401F8000

// EMC pad mux registers start at +0x14, the B0/B1 banks follow the AD
// banks.
const (
	muxEMC04 = iomuxcBase + 0x24
	muxEMC05 = iomuxcBase + 0x28
	muxEMC06 = iomuxcBase + 0x2C
	muxEMC07 = iomuxcBase + 0x30
	muxEMC08 = iomuxcBase + 0x34
	muxB000  = iomuxcBase + 0x13C
	muxB001  = iomuxcBase + 0x140
	muxB002  = iomuxcBase + 0x144
	muxB003  = iomuxcBase + 0x148
	muxB010  = iomuxcBase + 0x164
	muxB011  = iomuxcBase + 0x168
	muxB012  = iomuxcBase + 0x16C
	muxB100  = iomuxcBase + 0x17C
	muxB101  = iomuxcBase + 0x180
)

// flexRoutes maps the Teensy 4.x pins each FlexIO instance can reach.
// FlexIO pads all use ALT4 on this part.
var flexRoutes = [2]map[driver.Pin]padRoute{
	{ // FlexIO1
		2:  {muxEMC04, 4, 4},
		3:  {muxEMC05, 4, 5},
		4:  {muxEMC06, 4, 6},
		33: {muxEMC07, 4, 7},
		5:  {muxEMC08, 4, 8},
	},
	{ // FlexIO2
		10: {muxB000, 4, 0},
		12: {muxB001, 4, 1},
		11: {muxB002, 4, 2},
		13: {muxB003, 4, 3},
		6:  {muxB010, 4, 10},
		9:  {muxB011, 4, 11},
		32: {muxB012, 4, 12},
		8:  {muxB100, 4, 16},
		7:  {muxB101, 4, 17},
	},
}

// routePin muxes the pad to FlexIO with fast drive, or parks it as a
// keeper input on disable.
func routePin(r padRoute, enable bool) {
	padCtl := reg32(r.mux + iomuxcPadCtlDelta)
	if enable {
		reg32(r.mux).Set(r.alt)
		padCtl.Set(padDSE | padSpeedMax)
	} else {
		reg32(r.mux).Set(5) // ALT5 = GPIO
		padCtl.Set(padIdle)
	}
}
