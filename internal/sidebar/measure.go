package sidebar

// Measurer is supplied by the rendering layer. Measurements must be current:
// expand/collapse and filtering change heights between frames. Layout and drop
// resolution work in list-relative coordinates, so the renderer converts
// pointer positions itself.
type Measurer interface {
	// Height returns the rendered height of the entry with the given key.
	// ok is false when the entry is not mounted yet.
	Height(key string) (h float64, ok bool)
}

// Item pairs an entry with its current measured height.
type Item struct {
	Entry  Entry
	Height float64
}

// Items maps identity keys to items.
type Items map[string]Item

// Measure snapshots entries and their heights. Unmounted entries measure 0.
func Measure(entries []Entry, m Measurer) (Items, []string) {
	items := make(Items, len(entries))
	order := make([]string, len(entries))
	for i, e := range entries {
		k := KeyOf(e)
		order[i] = k
		var h float64
		if m != nil {
			if v, ok := m.Height(k); ok && v > 0 {
				h = v
			}
		}
		items[k] = Item{Entry: e, Height: h}
	}
	return items, order
}

// MeasurerFunc adapts a height function to Measurer.
type MeasurerFunc struct {
	HeightFunc func(key string) (float64, bool)
}

func (m MeasurerFunc) Height(key string) (float64, bool) {
	if m.HeightFunc == nil {
		return 0, false
	}
	return m.HeightFunc(key)
}
