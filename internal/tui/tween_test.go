package tui

import (
	"math"
	"testing"
	"time"

	"fieldbar/internal/sidebar"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeTween(d time.Duration) (*tween, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	tw := newTween(d)
	tw.now = clock.now
	return tw, clock
}

func TestEaseOutCubic_Endpoints(t *testing.T) {
	if easeOutCubic(0) != 0 || easeOutCubic(1) != 1 {
		t.Fatalf("expected easeOutCubic to map 0->0 and 1->1")
	}
	if got := easeOutCubic(0.5); got != 0.875 {
		t.Fatalf("expected 0.875 at the midpoint; got %v", got)
	}
}

func TestTween_FirstPlacementSnaps(t *testing.T) {
	tw, _ := newFakeTween(100 * time.Millisecond)
	tw.Start("a", sidebar.Placement{Top: 10})
	if tw.Animating() {
		t.Fatalf("expected an unknown entry to snap")
	}
	if row, ok := tw.Row("a"); !ok || row != 10 {
		t.Fatalf("expected row 10; got %d (ok=%v)", row, ok)
	}
}

func TestTween_GlidesTopWithEaseOut(t *testing.T) {
	tw, clock := newFakeTween(100 * time.Millisecond)
	tw.Set("a", sidebar.Placement{Top: 0})
	tw.Start("a", sidebar.Placement{Top: 10, ZIndex: 1})

	p, _ := tw.Placement("a")
	if p.Top != 0 || p.ZIndex != 1 {
		t.Fatalf("expected top to start in place and z-index to apply at once; got %+v", p)
	}

	clock.advance(50 * time.Millisecond)
	if !tw.Advance() {
		t.Fatalf("expected animation to still be running")
	}
	p, _ = tw.Placement("a")
	if math.Abs(p.Top-8.75) > 1e-9 {
		t.Fatalf("expected top 8.75 halfway through; got %v", p.Top)
	}
	if row, _ := tw.Row("a"); row != 9 {
		t.Fatalf("expected row to round to 9; got %d", row)
	}

	clock.advance(60 * time.Millisecond)
	if tw.Advance() {
		t.Fatalf("expected animation to finish")
	}
	if p, _ = tw.Placement("a"); p.Top != 10 {
		t.Fatalf("expected final top 10; got %v", p.Top)
	}
}

func TestTween_RetargetKeepsCurrentTop(t *testing.T) {
	tw, clock := newFakeTween(100 * time.Millisecond)
	tw.Set("a", sidebar.Placement{Top: 0})
	tw.Start("a", sidebar.Placement{Top: 10})
	clock.advance(50 * time.Millisecond)
	tw.Advance()

	tw.Start("a", sidebar.Placement{Top: 0})
	p, _ := tw.Placement("a")
	if math.Abs(p.Top-8.75) > 1e-9 {
		t.Fatalf("expected retarget to continue from 8.75; got %v", p.Top)
	}
	if !tw.Animating() {
		t.Fatalf("expected the new animation to be running")
	}
}

func TestTween_ImmediateAndHiddenSnap(t *testing.T) {
	tw, _ := newFakeTween(100 * time.Millisecond)
	tw.Set("a", sidebar.Placement{Top: 0})
	tw.Start("a", sidebar.Placement{Top: 6, Immediate: sidebar.ChannelTop})
	if row, _ := tw.Row("a"); row != 6 || tw.Animating() {
		t.Fatalf("expected immediate top to snap; got row %d", row)
	}

	tw.Start("a", sidebar.Placement{Top: 2, Left: sidebar.OffscreenLeft})
	if _, ok := tw.Row("a"); ok || tw.Animating() {
		t.Fatalf("expected hidden entry to snap off-screen")
	}

	tw.Start("a", sidebar.Placement{Top: 4})
	if row, ok := tw.Row("a"); !ok || row != 4 || tw.Animating() {
		t.Fatalf("expected entry returning from hidden to snap; got row %d", row)
	}
}

func TestTween_ZeroDurationSnaps(t *testing.T) {
	tw, _ := newFakeTween(0)
	tw.Set("a", sidebar.Placement{Top: 0})
	tw.Start("a", sidebar.Placement{Top: 3})
	if row, _ := tw.Row("a"); row != 3 || tw.Animating() {
		t.Fatalf("expected zero duration to snap; got row %d", row)
	}
}
