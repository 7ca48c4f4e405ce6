package sidebar

import (
	"math"
	"slices"
)

// dropSlot is one candidate landing position. An empty key is the virtual
// "before everything" slot offered to group drags.
type dropSlot struct {
	key    string
	top    float64
	height float64
}

func (s dropSlot) mid() float64 { return s.top + s.height/2 }

// ResolveDrop turns a vertical pointer displacement of the entry activeKey into a
// candidate order. Positions are list-relative, so the list's screen offset cancels out.
//
// A dragged Group carries its whole section (header, paths and Empty marker) and
// lands immediately before the group (or Tail) nearest to its header. Its own
// header is a candidate, so a drift that stays nearest to it leaves the order
// unchanged. A dragged
// Path moves alone; it never lands ahead of the first Group and never after an
// Empty marker. The result always keeps the [Group, Path*, Empty]..., Tail shape.
// A zero delta, an unknown or non-draggable key, or an empty candidate pool yield
// an unchanged copy of order.
func (l Layout) ResolveDrop(activeKey string, items Items, order []string, deltaY float64) []string {
	next := slices.Clone(order)
	if deltaY == 0 {
		return next
	}
	active, ok := items[activeKey]
	if !ok || !active.Entry.Draggable() {
		return next
	}
	from := slices.Index(order, activeKey)
	if from < 0 {
		return next
	}
	target, ok := l.nearestSlot(activeKey, items, order, deltaY)
	if !ok {
		return next
	}
	if target == activeKey {
		return next
	}
	if active.Entry.Kind == KindGroup {
		return moveSection(items, order, from, target)
	}
	return movePath(items, order, from, target)
}

// nearestSlot picks the candidate whose midpoint is closest to the dragged
// entry's displaced midpoint. Ties go to the earlier candidate.
func (l Layout) nearestSlot(activeKey string, items Items, order []string, deltaY float64) (string, bool) {
	tops := l.restingTops(items, order)
	active := items[activeKey]
	y := tops[activeKey] + active.Height/2 + deltaY
	pool := l.candidates(activeKey, items, order, tops)
	if len(pool) == 0 {
		return "", false
	}
	best := pool[0]
	bestDist := math.Abs(best.mid() - y)
	for _, s := range pool[1:] {
		if d := math.Abs(s.mid() - y); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best.key, true
}

func (l Layout) candidates(activeKey string, items Items, order []string, tops map[string]float64) []dropSlot {
	isGroup := items[activeKey].Entry.Kind == KindGroup
	var pool []dropSlot
	if isGroup {
		pool = append(pool, dropSlot{})
	}
	for _, k := range order {
		it := items[k]
		e := it.Entry
		if isGroup {
			if e.Kind != KindGroup && e.Kind != KindTail {
				continue
			}
		} else if e.Kind == KindEmpty || e.Kind == KindTail || !e.Visible() {
			continue
		}
		pool = append(pool, dropSlot{key: k, top: tops[k], height: it.Height})
	}
	return pool
}

// sectionEnd returns the index just past the section starting at from.
func sectionEnd(items Items, order []string, from int) int {
	end := from + 1
	for end < len(order) {
		k := items[order[end]].Entry.Kind
		if k == KindGroup || k == KindTail {
			break
		}
		end++
	}
	return end
}

func moveSection(items Items, order []string, from int, target string) []string {
	end := sectionEnd(items, order, from)
	section := slices.Clone(order[from:end])
	rest := make([]string, 0, len(order)-len(section))
	rest = append(rest, order[:from]...)
	rest = append(rest, order[end:]...)

	at := 0
	if target != "" {
		if i := slices.Index(rest, target); i > 0 {
			at = i
		}
	}
	return slices.Insert(rest, at, section...)
}

func movePath(items Items, order []string, from int, target string) []string {
	to := slices.Index(order, target)
	if to < 0 {
		return slices.Clone(order)
	}
	if to == 0 {
		to = 1
	}
	next := move(order, from, to)
	// Landing just past an Empty marker means "end of the previous group".
	for to > 0 && items[next[to-1]].Entry.Kind == KindEmpty {
		next[to-1], next[to] = next[to], next[to-1]
		to--
	}
	return next
}

// move relocates order[from] so that it ends up at index to.
func move(order []string, from, to int) []string {
	out := make([]string, 0, len(order))
	out = append(out, order[:from]...)
	out = append(out, order[from+1:]...)
	if to > len(out) {
		to = len(out)
	}
	return slices.Insert(out, to, order[from])
}

// StepDelta returns the displacement that ResolveDrop needs to move activeKey by
// one slot in direction dir (-1 up, +1 down). ok is false when there is no slot
// in that direction.
func (l Layout) StepDelta(activeKey string, items Items, order []string, dir int) (float64, bool) {
	active, ok := items[activeKey]
	if !ok || !active.Entry.Draggable() || dir == 0 {
		return 0, false
	}
	tops := l.restingTops(items, order)
	pool := l.candidates(activeKey, items, order, tops)
	self := dropSlot{key: activeKey, top: tops[activeKey], height: active.Height}

	var target *dropSlot
	if active.Entry.Kind == KindPath {
		idx := slices.IndexFunc(pool, func(s dropSlot) bool { return s.key == activeKey })
		if idx < 0 {
			return 0, false
		}
		if j := idx + dir; j >= 0 && j < len(pool) {
			target = &pool[j]
		}
	} else {
		// Group slots past the virtual one, split around the dragged header.
		var above, below []dropSlot
		for _, s := range pool[1:] {
			if s.key == activeKey {
				continue
			}
			if s.top < self.top {
				above = append(above, s)
			} else {
				below = append(below, s)
			}
		}
		switch {
		case dir < 0 && len(above) > 0:
			target = &above[len(above)-1]
		case dir > 0 && len(below) > 1:
			// Landing before the slot after next moves the section below its neighbor.
			target = &below[1]
		}
	}
	if target == nil {
		return 0, false
	}
	d := target.mid() - self.mid()
	if d == 0 {
		return 0, false
	}
	return d, true
}
