package session

// Clock tracks logical exchange time. It advances by a fixed step once per
// market-data tick, keyed on a change in the exchange sequence number, and is
// never derived from wall-clock time.
type Clock struct {
	now  float64
	step float64
}

// NewClock creates a clock that advances by step per tick.
func NewClock(step float64) *Clock {
	return &Clock{step: step}
}

// Now returns the current logical time.
func (c *Clock) Now() float64 {
	return c.now
}

// Advance moves the clock forward by one tick and returns the new time.
func (c *Clock) Advance() float64 {
	c.now += c.step
	return c.now
}

// IDAllocator hands out client order ids. Ids are monotonic and never reused.
type IDAllocator struct {
	last uint64
}

// NewIDAllocator creates an allocator starting at zero.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next allocates and returns a new id.
func (a *IDAllocator) Next() uint64 {
	a.last++
	return a.last
}

// Current returns the most recently allocated id.
func (a *IDAllocator) Current() uint64 {
	return a.last
}

// Session bundles the per-session context shared by every component. One
// Session is constructed at startup and passed by reference; its lifecycle is
// one trading session.
type Session struct {
	Clock *Clock
	IDs   *IDAllocator
}

// New creates a session context with the given clock step.
func New(clockStep float64) *Session {
	return &Session{
		Clock: NewClock(clockStep),
		IDs:   NewIDAllocator(),
	}
}
