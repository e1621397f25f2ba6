package driver

// SimulatedEngine is a software stand-in for an engine instance. It
// records the register images it is handed and can step the descriptor
// chain one frame at a time, so tests and host demos observe the same
// completion boundaries the hardware produces. Lane views are not
// modeled below word granularity; what the payload lane receives per
// frame is captured in Wire in transfer order.
type SimulatedEngine struct {
	id        int
	validPins map[Pin]bool

	clockOn   bool
	denyClock bool

	pinsOn   bool
	pins     Pins
	waveOn   bool
	waveform WaveformConfig

	chain    *Chain
	chainOn  bool
	armed    bool
	busy     bool
	irqArmed bool

	// Wire is every word the payload lane received during the last
	// CompleteFrame pass.
	Wire []uint32

	// Counters for assertions.
	Flushes       int
	SourceReloads int
	FramesRun     int
}

// NewSimulatedEngine creates instance id accepting any pin below 32.
func NewSimulatedEngine(id int) *SimulatedEngine {
	return &SimulatedEngine{id: id}
}

// RestrictPins limits the routable pin set, mimicking a part where only
// some board pins reach the engine.
func (e *SimulatedEngine) RestrictPins(pins ...Pin) {
	e.validPins = make(map[Pin]bool, len(pins))
	for _, p := range pins {
		e.validPins[p] = true
	}
}

// DenyClock makes ConfigureClock fail, mimicking a reference already
// owned by an incompatible configuration.
func (e *SimulatedEngine) DenyClock(deny bool) { e.denyClock = deny }

// Waveform returns the last programmed register image.
func (e *SimulatedEngine) Waveform() WaveformConfig { return e.waveform }

// ClockEnabled reports whether the simulated reference is powered.
func (e *SimulatedEngine) ClockEnabled() bool { return e.clockOn }

// PinsEnabled reports whether the pins are routed to the engine.
func (e *SimulatedEngine) PinsEnabled() bool { return e.pinsOn }

// Armed reports whether the transfer request is enabled.
func (e *SimulatedEngine) Armed() bool { return e.armed }

// InterruptArmed reports whether the trailer completion interrupt is
// armed.
func (e *SimulatedEngine) InterruptArmed() bool { return e.irqArmed }

func (e *SimulatedEngine) InstanceID() int { return e.id }

func (e *SimulatedEngine) ValidPin(p Pin) bool {
	if e.validPins == nil {
		return p < 32
	}
	return e.validPins[p]
}

func (e *SimulatedEngine) ConfigureClock(enable bool) bool {
	if enable && e.denyClock {
		return false
	}
	e.clockOn = enable
	return true
}

func (e *SimulatedEngine) ConfigurePins(p Pins, enable bool) {
	e.pins = p
	e.pinsOn = enable
}

func (e *SimulatedEngine) ConfigureWaveform(w WaveformConfig, enable bool) {
	e.waveform = w
	e.waveOn = enable
}

func (e *SimulatedEngine) ConfigureChain(c *Chain, enable bool) {
	if !enable {
		e.chain = nil
		e.chainOn = false
		e.armed = false
		e.busy = false
		return
	}
	e.chain = c
	e.chainOn = true
}

func (e *SimulatedEngine) ArmChain() {
	if !e.chainOn {
		return
	}
	e.armed = true
	e.busy = true
}

func (e *SimulatedEngine) DisarmChain() {
	e.armed = false
	e.busy = false
}

func (e *SimulatedEngine) ChainBusy() bool { return e.busy }

func (e *SimulatedEngine) ReloadSources(c *Chain) { e.SourceReloads++ }

func (e *SimulatedEngine) SetCompletionInterrupt(enable bool) { e.irqArmed = enable }

func (e *SimulatedEngine) FlushCache(words []uint32) { e.Flushes++ }

// CompleteFrame steps the chain through exactly one transmission pass:
// payload-lane words are captured to Wire, the completion handler fires
// at the trailer boundary when armed, and a blocking chain disables
// itself after the reset loop. Continuous chains remain armed for the
// next call.
func (e *SimulatedEngine) CompleteFrame() {
	if !e.armed || e.chain == nil {
		return
	}
	e.Wire = e.Wire[:0]
	e.FramesRun++
	i := 0
	for {
		d := &e.chain.Descriptors[i]
		if d.Dest == LanePayload {
			if d.Cycle {
				for n := uint16(0); n < d.Iterations; n++ {
					e.Wire = append(e.Wire, d.Source[0])
				}
			} else {
				e.Wire = append(e.Wire, d.Source...)
			}
		}
		if i == e.chain.Trailer && e.irqArmed && e.chain.OnComplete != nil {
			e.chain.OnComplete()
		}
		if d.Next == ChainEnd {
			e.armed = false
			e.busy = false
			return
		}
		i = d.Next
		if i == 0 {
			return
		}
	}
}
