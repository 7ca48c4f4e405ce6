package sidebar

// OffscreenLeft is the horizontal offset given to hidden entries. They are moved
// aside instead of collapsed so they reappear from their slot.
const OffscreenLeft = -3000

type Cursor string

const (
	CursorPointer  Cursor = "pointer"
	CursorGrabbing Cursor = "grabbing"
)

// Channel names one animated property of a Placement.
type Channel uint8

const (
	ChannelTop Channel = 1 << iota
	ChannelLeft
	ChannelZIndex
	ChannelCursor

	AllChannels = ChannelTop | ChannelLeft | ChannelZIndex | ChannelCursor
)

// Placement is the target position of one entry for the current frame.
type Placement struct {
	Top    float64
	Left   float64
	ZIndex int
	Cursor Cursor
	// Immediate lists the channels that must snap to the target rather than tween.
	Immediate Channel
}

// Hidden reports whether the placement parks the entry off-screen.
func (p Placement) Hidden() bool { return p.Left <= OffscreenLeft }

// Dragging reports whether the entry follows the pointer.
func (p Placement) Dragging() bool { return p.Cursor == CursorGrabbing }

func (p Placement) IsImmediate(c Channel) bool { return p.Immediate&c != 0 }

// Layout computes resting and drag-time positions. Margin is the fixed gap
// added after every visible entry.
type Layout struct {
	Margin float64
}

// ComputePlacements returns the target placement of every key in next.
//
// current is the order before the candidate move, next the order after it.
// When activeKey is set, that entry (and, for a group, its whole section) keeps
// its pre-move position shifted by delta; everything else takes its slot in next.
func (l Layout) ComputePlacements(items Items, current, next []string, activeKey string, delta float64) map[string]Placement {
	currentY := l.restingTops(items, current)

	out := make(map[string]Placement, len(next))
	y := 0.0
	inSection := false
	paths := 0
	for _, k := range next {
		it, ok := items[k]
		if !ok {
			continue
		}
		e := it.Entry
		if e.Kind == KindGroup {
			inSection = activeKey != "" && k == activeKey
			paths = 0
		}
		dragging := activeKey != "" && (k == activeKey || inSection) && e.Kind != KindTail

		shown := true
		switch e.Kind {
		case KindPath:
			shown = e.Shown
			paths++
		case KindEmpty:
			shown = paths == 0 && e.Shown
		}

		p := Placement{Top: y, Cursor: CursorPointer}
		if dragging {
			p.Top = currentY[k] + delta
			p.ZIndex = 1
			p.Cursor = CursorGrabbing
		}
		if !shown {
			p.Left = OffscreenLeft
		}
		if activeKey != "" {
			if dragging {
				p.Immediate = AllChannels
			} else {
				p.Immediate = ChannelLeft | ChannelZIndex | ChannelCursor
			}
		}
		out[k] = p

		if shown {
			y += it.Height + l.Margin
		}
	}
	return out
}

// restingTops returns each key's resting top (relative to the list) in order,
// using the same visibility rule as ComputePlacements.
func (l Layout) restingTops(items Items, order []string) map[string]float64 {
	tops := make(map[string]float64, len(order))
	y := 0.0
	for _, k := range order {
		it := items[k]
		tops[k] = y
		if it.Entry.Visible() {
			y += it.Height + l.Margin
		}
	}
	return tops
}
