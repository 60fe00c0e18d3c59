package chart

// Container is the box a chart is drawn into. Observers hear about width
// changes; height is fixed.
type Container struct {
	width     int
	nextID    int
	observers []observer
}

type observer struct {
	id int
	fn func(width int)
}

// NewContainer returns a container of the given width.
func NewContainer(width int) *Container {
	return &Container{width: width}
}

// Width returns the current content width.
func (c *Container) Width() int { return c.width }

// Observers returns the number of attached observers.
func (c *Container) Observers() int { return len(c.observers) }

// Observe registers fn for width changes and returns its detach function.
func (c *Container) Observe(fn func(width int)) (detach func()) {
	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range c.observers {
			if o.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// SetWidth updates the width and notifies observers when it changed.
func (c *Container) SetWidth(width int) {
	if width == c.width {
		return
	}
	c.width = width
	for _, o := range append([]observer(nil), c.observers...) {
		o.fn(width)
	}
}

// Host keeps exactly one active session per container.
type Host struct {
	container *Container
	surface   Surface
	active    *Session
}

// NewHost returns a host drawing onto surface inside container.
func NewHost(container *Container, surface Surface) *Host {
	return &Host{container: container, surface: surface}
}

// Container returns the host's container.
func (h *Host) Container() *Container { return h.container }

// Active returns the current session, or nil.
func (h *Host) Active() *Session { return h.active }

// Show replaces the active session with a new one for in, renders it at the
// container width and subscribes it to width changes. The previous
// session's observer is detached first.
func (h *Host) Show(in Input, opts Options) *Session {
	if h.active != nil {
		h.active.Close()
	}
	s := NewSession(in, opts, h.surface)
	s.Render(h.container.Width())
	s.detach = h.container.Observe(s.Render)
	h.active = s
	return s
}

// Dispatch forwards ev to the active session.
func (h *Host) Dispatch(ev Event) []Command {
	if h.active == nil {
		return nil
	}
	return h.active.Dispatch(ev)
}

// Close detaches the active session.
func (h *Host) Close() {
	if h.active != nil {
		h.active.Close()
		h.active = nil
	}
}
