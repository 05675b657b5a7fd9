package typewriter

import (
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/clock"
)

// Frame is one rendered snapshot.
type Frame struct {
	Text  string
	State State
	At    time.Time
}

// RenderFunc receives every change of the visible text. It runs with
// the handle locked and must not call back into the Handle.
type RenderFunc func(Frame)

// Handle owns one animation chain. At most one timer is pending per
// handle; every callback carries the generation it was scheduled under
// and does nothing once the handle has moved on.
type Handle struct {
	clock  clock.Clock
	render RenderFunc

	mu       sync.Mutex
	cfg      Config
	phrases  [][]rune
	state    State
	text     string
	gen      uint64
	timer    *clock.Timer
	stopped  bool
	done     chan struct{}
	doneOnce *sync.Once
}

// Start renders the empty string and begins the animation. An empty
// phrase list keeps the empty string on screen and schedules nothing.
func Start(clk clock.Clock, cfg Config, render RenderFunc) *Handle {
	if render == nil {
		render = func(Frame) {}
	}
	h := &Handle{clock: clk, render: render}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLocked(cfg)
	return h
}

// Stop cancels the pending timer. It is safe to call more than once and
// when nothing is pending. Nothing is rendered after Stop returns.
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	h.cancelLocked()
	h.finishLocked()
}

// Restart cancels the running chain and starts over with cfg. A
// stopped handle comes back to life.
func (h *Handle) Restart(cfg Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelLocked()
	h.stopped = false
	h.resetLocked(cfg)
}

// Text returns the currently rendered text.
func (h *Handle) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text
}

// State returns the current position.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Done is closed when the animation reaches its terminal state or is
// stopped. Restart replaces the channel.
func (h *Handle) Done() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

func (h *Handle) resetLocked(cfg Config) {
	h.cfg = cfg
	h.phrases = Split(cfg.Phrases)
	h.state = State{}
	h.done = make(chan struct{})
	h.doneOnce = new(sync.Once)
	h.gen++

	h.emitLocked(true)
	h.advanceLocked(h.gen)
}

func (h *Handle) cancelLocked() {
	h.gen++
	h.timer.Stop()
	h.timer = nil
}

func (h *Handle) finishLocked() {
	done, once := h.done, h.doneOnce
	once.Do(func() { close(done) })
}

// advanceLocked applies zero-wait transitions immediately and schedules
// the first one that needs a delay.
func (h *Handle) advanceLocked(gen uint64) {
	for {
		next, wait, ok := Step(h.cfg, h.phrases, h.state)
		if !ok {
			h.state = next
			h.finishLocked()
			return
		}
		if wait > 0 {
			h.timer = h.clock.AfterFunc(wait, func() { h.fire(gen, next) })
			return
		}
		h.state = next
		h.emitLocked(false)
	}
}

func (h *Handle) fire(gen uint64, next State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped || gen != h.gen {
		return
	}
	h.timer = nil
	h.state = next
	h.emitLocked(false)
	h.advanceLocked(gen)
}

func (h *Handle) emitLocked(force bool) {
	text := h.state.Text(h.phrases)
	if !force && text == h.text {
		return
	}
	h.text = text
	h.render(Frame{Text: text, State: h.state, At: h.clock.Now()})
}
