package sidebar

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
)

// DragState is the Controller's pointer state.
type DragState int

const (
	DragIdle DragState = iota
	DragArmed
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragArmed:
		return "armed"
	case DragDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Outcome reports what a pointer release (or keyboard step) did.
type Outcome int

const (
	// OutcomeNone: nothing was armed.
	OutcomeNone Outcome = iota
	// OutcomeClick: the pointer never moved; the caller should treat it as a click.
	OutcomeClick
	// OutcomeUnchanged: the drag resolved to the current order.
	OutcomeUnchanged
	// OutcomeCommitted: a new order was written to the Store.
	OutcomeCommitted
)

// Sink receives placements. Set snaps an entry to p; Start animates toward p,
// honouring p.Immediate per channel.
type Sink interface {
	Set(key string, p Placement)
	Start(key string, p Placement)
}

// Controller turns pointer events into live placements and, on release, into a
// committed order. Intermediate moves never touch the Store.
type Controller struct {
	store    *Store
	layout   Layout
	measurer Measurer
	sink     Sink
	logger   *log.Logger

	state     DragState
	activeKey string
	startY    float64
}

func NewController(store *Store, layout Layout, measurer Measurer, sink Sink, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{store: store, layout: layout, measurer: measurer, sink: sink, logger: logger}
}

func (c *Controller) State() DragState { return c.state }

// ActiveKey is the armed entry's key, or "" when idle.
func (c *Controller) ActiveKey() string { return c.activeKey }

// snapshot reads entries and fresh measurements.
func (c *Controller) snapshot() ([]Entry, Items, []string) {
	entries := c.store.Entries()
	items, order := Measure(entries, c.measurer)
	return entries, items, order
}

// PointerDown arms a drag on key. Only a primary-button press on a Path or
// Group arms; it returns whether the controller is now armed.
func (c *Controller) PointerDown(key string, primary bool, y float64) bool {
	if !primary {
		return false
	}
	_, items, _ := c.snapshot()
	it, ok := items[key]
	if !ok || !it.Entry.Draggable() {
		return false
	}
	c.state = DragArmed
	c.activeKey = key
	c.startY = y
	return true
}

// PointerMove animates the candidate order for the current pointer position.
func (c *Controller) PointerMove(y float64) {
	if c.state == DragIdle {
		return
	}
	delta := y - c.startY
	if delta == 0 && c.state == DragArmed {
		return
	}
	c.state = DragDragging
	_, items, order := c.snapshot()
	next := c.layout.ResolveDrop(c.activeKey, items, order, delta)
	placements := c.layout.ComputePlacements(items, order, next, c.activeKey, delta)
	c.apply(order, placements, true)
}

// PointerUp ends the gesture. A release where the pointer never moved is a
// click; otherwise a changed order is committed. Every entry snaps to rest.
func (c *Controller) PointerUp(y float64) Outcome {
	if c.state == DragIdle {
		return OutcomeNone
	}
	key, delta := c.activeKey, y-c.startY
	c.reset()
	if delta == 0 {
		c.Relayout()
		return OutcomeClick
	}
	return c.commit(key, delta)
}

// Cancel abandons an armed or active drag without touching the Store.
func (c *Controller) Cancel() {
	if c.state == DragIdle {
		return
	}
	c.reset()
	c.Relayout()
}

// Step moves key one slot up (dir < 0) or down (dir > 0) using the same
// resolver as a pointer drag.
func (c *Controller) Step(key string, dir int) Outcome {
	if c.state != DragIdle {
		return OutcomeNone
	}
	_, items, order := c.snapshot()
	delta, ok := c.layout.StepDelta(key, items, order, dir)
	if !ok {
		return OutcomeUnchanged
	}
	return c.commit(key, delta)
}

// Relayout snaps every entry to its resting placement in the current order.
// Call it after Store changes and resizes.
func (c *Controller) Relayout() {
	_, items, order := c.snapshot()
	c.apply(order, c.layout.ComputePlacements(items, order, order, "", 0), false)
}

func (c *Controller) commit(key string, delta float64) Outcome {
	_, items, order := c.snapshot()
	next := c.layout.ResolveDrop(key, items, order, delta)
	c.apply(order, c.layout.ComputePlacements(items, order, next, "", 0), false)
	if slices.Equal(order, next) {
		return OutcomeUnchanged
	}
	entries := make([]Entry, 0, len(next))
	for _, k := range next {
		entries = append(entries, items[k].Entry)
	}
	c.logger.Debug("committing reorder", "key", key, "delta", delta)
	c.store.SetEntries(entries)
	return OutcomeCommitted
}

func (c *Controller) apply(order []string, placements map[string]Placement, animate bool) {
	if c.sink == nil {
		return
	}
	for _, k := range order {
		p, ok := placements[k]
		if !ok {
			continue
		}
		if animate {
			c.sink.Start(k, p)
		} else {
			c.sink.Set(k, p)
		}
	}
}

func (c *Controller) reset() {
	c.state = DragIdle
	c.activeKey = ""
	c.startY = 0
}
