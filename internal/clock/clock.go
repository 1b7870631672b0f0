package clock

import "time"

// Clock allows injecting time into services and workers.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of time.Ticker the workers need.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemClock struct{}

// NewSystem returns a clock backed by the time package.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time {
	return s.t.C
}

func (s systemTicker) Stop() {
	s.t.Stop()
}

// Manual is a clock whose tickers fire only when Tick is called. Useful for
// testing staged work without real delays.
type Manual struct {
	now   time.Time
	ticks chan time.Time
}

// NewManual returns a manual clock fixed at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t.UTC(), ticks: make(chan time.Time)}
}

func (m *Manual) Now() time.Time {
	return m.now
}

// NewTicker returns a ticker driven by Tick. The duration is ignored.
func (m *Manual) NewTicker(time.Duration) Ticker {
	return manualTicker{ticks: m.ticks}
}

// Tick advances the clock by d and fires every ticker once. It blocks until
// a ticker consumer receives the tick.
func (m *Manual) Tick(d time.Duration) {
	m.now = m.now.Add(d)
	m.ticks <- m.now
}

type manualTicker struct {
	ticks chan time.Time
}

func (t manualTicker) C() <-chan time.Time {
	return t.ticks
}

func (t manualTicker) Stop() {}
