package driver

// Process-wide ownership of engine instances and the shared reference
// clock: at most one driver per instance, and the clock stays powered
// until the last driver releases it.

// maxInstances is the number of DMA-capable engine instances a part can
// expose.
const maxInstances = 2

var (
	instanceOwners [maxInstances]*PixelDriver
	clockHolders   int
)

// claimInstance registers d as the owner of instance id and reports
// whether d is the first holder of the shared clock, making it
// responsible for powering the reference up.
func claimInstance(id int, d *PixelDriver) (first bool, err error) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if id < 0 || id >= maxInstances {
		return false, ErrBadInstance
	}
	if instanceOwners[id] != nil {
		return false, ErrInstanceClaimed
	}
	instanceOwners[id] = d
	clockHolders++
	return clockHolders == 1, nil
}

// releaseInstance drops d's claim and reports whether d was the last
// clock holder, making it responsible for powering the reference down.
func releaseInstance(id int, d *PixelDriver) (last bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if id < 0 || id >= maxInstances || instanceOwners[id] != d {
		return false
	}
	instanceOwners[id] = nil
	clockHolders--
	return clockHolders == 0
}
