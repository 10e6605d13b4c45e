package banyan

import "time"

// FrameFunc is one frame callback. dt is the elapsed time in seconds since
// the previous frame.
type FrameFunc func(dt float64)

// Driver schedules a frame callback repeatedly. A renderer instance owns
// exactly one driver; Stop is the only way to end the loop and must be
// idempotent. Implementations decide the pacing: a ticker for real use, a
// manual step driver for deterministic tests.
type Driver interface {
	Start(fn FrameFunc)
	Stop()
}

// --- TickerDriver ---

// TickerDriver invokes the frame callback at a fixed rate on its own
// goroutine. Frame callbacks from one driver never overlap; state shared
// between multiple drivers must be serialized by the caller.
type TickerDriver struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewTickerDriver creates a driver ticking fps times per second.
func NewTickerDriver(fps int) *TickerDriver {
	if fps <= 0 {
		fps = 60
	}
	return &TickerDriver{interval: time.Second / time.Duration(fps)}
}

// Start begins the frame loop. Calling Start on a running driver is a no-op.
func (d *TickerDriver) Start(fn FrameFunc) {
	if d.stop != nil {
		return
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.run(fn)
}

func (d *TickerDriver) run(fn FrameFunc) {
	defer close(d.done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-d.stop:
			return
		case now := <-ticker.C:
			fn(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Stop ends the frame loop and waits for the in-flight frame to finish.
// Idempotent.
func (d *TickerDriver) Stop() {
	if d.stop == nil {
		return
	}
	select {
	case <-d.stop:
	default:
		close(d.stop)
	}
	<-d.done
}

// --- ManualDriver ---

// ManualDriver runs the frame callback only when Step is called. Used in
// tests to drive frames deterministically with an injected clock.
type ManualDriver struct {
	fn      FrameFunc
	stopped bool
	// Frames counts how many times Step has invoked the callback.
	Frames int
}

// Start records the callback; no frames run until Step.
func (d *ManualDriver) Start(fn FrameFunc) {
	d.fn = fn
	d.stopped = false
}

// Step runs one frame with the given dt in seconds. No-op when the driver is
// stopped or was never started.
func (d *ManualDriver) Step(dt float64) {
	if d.stopped || d.fn == nil {
		return
	}
	d.Frames++
	d.fn(dt)
}

// Stop prevents further frames. Idempotent.
func (d *ManualDriver) Stop() {
	d.stopped = true
}
