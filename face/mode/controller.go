package mode

// Listener receives the signals emitted on a visible mode change.
type Listener interface {
	RedrawRequested()
	ScheduleChanged()
}

// Controller recomputes the display mode from capability and ambient reports.
//
// It owns no timers. A report that changes the visible mode emits exactly one
// redraw request and one schedule re-evaluation; a report that leaves the mode
// unchanged emits nothing.
type Controller struct {
	l Listener

	ambient  bool
	lowBit   bool
	reported bool
	mode     Mode
}

func NewController(l Listener) *Controller {
	return &Controller{l: l, mode: Interactive}
}

// OnCapabilityReport records whether the display only supports reduced colour
// depth in ambient mode. Hosts report it once before the first mode
// computation; repeating the same value is a no-op.
func (c *Controller) OnCapabilityReport(lowBitAmbient bool) bool {
	if c.reported && c.lowBit == lowBitAmbient {
		return false
	}
	c.reported = true
	c.lowBit = lowBitAmbient
	return c.update()
}

// OnAmbientChanged records the host's ambient state and reports whether the
// visible mode changed.
func (c *Controller) OnAmbientChanged(ambient bool) bool {
	c.ambient = ambient
	return c.update()
}

func (c *Controller) update() bool {
	next := Of(c.ambient, c.lowBit)
	if next == c.mode {
		return false
	}
	c.mode = next
	if c.l != nil {
		c.l.RedrawRequested()
		c.l.ScheduleChanged()
	}
	return true
}

// Mode returns the current display mode.
func (c *Controller) Mode() Mode { return c.mode }

// Ambient reports the last ambient state received from the host.
func (c *Controller) Ambient() bool { return c.ambient }

// LowBitAmbient reports the last capability received from the host.
func (c *Controller) LowBitAmbient() bool { return c.lowBit }
