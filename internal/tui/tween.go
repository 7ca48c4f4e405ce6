package tui

import (
	"math"
	"time"

	"fieldbar/internal/sidebar"

	tea "github.com/charmbracelet/bubbletea"
)

const tweenFrame = 16 * time.Millisecond

// tweenTickMsg advances the animations of one sidebar context.
type tweenTickMsg struct {
	context int
}

type tweenState struct {
	from    float64
	current sidebar.Placement
	target  sidebar.Placement
	start   time.Time
	moving  bool
}

// tween is the rendering-side placement sink. Only top glides; left, z-index
// and cursor are discrete in a terminal and always land on the target at once.
type tween struct {
	duration time.Duration
	now      func() time.Time
	states   map[string]*tweenState
}

func newTween(duration time.Duration) *tween {
	return &tween{duration: duration, now: time.Now, states: map[string]*tweenState{}}
}

func (t *tween) state(key string) (*tweenState, bool) {
	st, ok := t.states[key]
	if !ok {
		st = &tweenState{}
		t.states[key] = st
	}
	return st, ok
}

// Set snaps key to p.
func (t *tween) Set(key string, p sidebar.Placement) {
	st, _ := t.state(key)
	st.current, st.target = p, p
	st.moving = false
}

// Start animates key toward p. Entries seen for the first time, or hidden on
// either end, snap.
func (t *tween) Start(key string, p sidebar.Placement) {
	st, known := t.state(key)
	snap := !known || t.duration <= 0 || p.IsImmediate(sidebar.ChannelTop) ||
		p.Hidden() || st.current.Hidden()
	if snap {
		t.Set(key, p)
		return
	}
	if st.target.Top == p.Top && (st.moving || st.current.Top == p.Top) {
		st.target = p
		st.current.Left, st.current.ZIndex, st.current.Cursor = p.Left, p.ZIndex, p.Cursor
		return
	}
	st.from = st.current.Top
	st.target = p
	st.start = t.now()
	st.moving = true
	st.current.Left, st.current.ZIndex, st.current.Cursor = p.Left, p.ZIndex, p.Cursor
}

// Advance moves every animation to the current time and reports whether any is still running.
func (t *tween) Advance() bool {
	now := t.now()
	running := false
	for _, st := range t.states {
		if !st.moving {
			continue
		}
		progress := float64(now.Sub(st.start)) / float64(t.duration)
		if progress >= 1 {
			st.current.Top = st.target.Top
			st.moving = false
			continue
		}
		st.current.Top = st.from + (st.target.Top-st.from)*easeOutCubic(progress)
		running = true
	}
	return running
}

func (t *tween) Animating() bool {
	for _, st := range t.states {
		if st.moving {
			return true
		}
	}
	return false
}

// Placement is the current (possibly mid-animation) placement of key.
func (t *tween) Placement(key string) (sidebar.Placement, bool) {
	st, ok := t.states[key]
	if !ok {
		return sidebar.Placement{}, false
	}
	return st.current, true
}

// Row is the terminal row key is painted at.
func (t *tween) Row(key string) (int, bool) {
	p, ok := t.Placement(key)
	if !ok || p.Hidden() {
		return 0, false
	}
	return int(math.Round(p.Top)), true
}

// easeOutCubic decelerates smoothly toward 1.
func easeOutCubic(x float64) float64 {
	x--
	return x*x*x + 1
}

func tweenCmd(context int) tea.Cmd {
	return tea.Tick(tweenFrame, func(time.Time) tea.Msg {
		return tweenTickMsg{context: context}
	})
}
