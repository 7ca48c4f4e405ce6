package sidebar

// Kind tags the variants of Entry.
type Kind int

const (
	KindGroup Kind = iota
	KindPath
	KindEmpty
	KindTail
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindPath:
		return "path"
	case KindEmpty:
		return "empty"
	case KindTail:
		return "tail"
	default:
		return "unknown"
	}
}

// Entry is one row of the sidebar list.
//
//   - KindGroup: Name is the group name.
//   - KindPath: Path is the field path; Shown mirrors the owning group's expansion.
//   - KindEmpty: Name is the owning group; Shown is set when the group is expanded and has no paths.
//   - KindTail: the trailing add-group control.
type Entry struct {
	Kind  Kind
	Name  string
	Path  string
	Shown bool
}

func GroupEntry(name string) Entry { return Entry{Kind: KindGroup, Name: name} }

func PathEntry(path string, shown bool) Entry { return Entry{Kind: KindPath, Path: path, Shown: shown} }

func EmptyEntry(group string, shown bool) Entry {
	return Entry{Kind: KindEmpty, Name: group, Shown: shown}
}

func TailEntry() Entry { return Entry{Kind: KindTail} }

// Visible reports whether the entry occupies space in the list.
func (e Entry) Visible() bool {
	switch e.Kind {
	case KindPath, KindEmpty:
		return e.Shown
	default:
		return true
	}
}

// Draggable reports whether a pointer-down on the entry may start a drag.
func (e Entry) Draggable() bool {
	return e.Kind == KindGroup || e.Kind == KindPath
}

// Group is one named section of the canonical order.
type Group struct {
	Name  string   `json:"name"`
	Paths []string `json:"paths"`
}

// Groups is the canonical grouped structure. Its order is the sidebar order.
type Groups []Group

// Clone returns a deep copy.
func (g Groups) Clone() Groups {
	if g == nil {
		return nil
	}
	out := make(Groups, len(g))
	for i, grp := range g {
		out[i] = Group{Name: grp.Name, Paths: append([]string{}, grp.Paths...)}
	}
	return out
}

// Names lists group names in order.
func (g Groups) Names() []string {
	out := make([]string, len(g))
	for i, grp := range g {
		out[i] = grp.Name
	}
	return out
}

// Index returns the position of the named group or -1.
func (g Groups) Index(name string) int {
	for i, grp := range g {
		if grp.Name == name {
			return i
		}
	}
	return -1
}

// Flatten renders groups as the entry sequence
// [Group, Path*, Empty, Group, Path*, Empty, ..., Tail].
// expanded reports whether a group is expanded; nil means every group is.
func Flatten(groups Groups, expanded func(name string) bool) []Entry {
	n := 1
	for _, g := range groups {
		n += len(g.Paths) + 2
	}
	out := make([]Entry, 0, n)
	for _, g := range groups {
		shown := expanded == nil || expanded(g.Name)
		out = append(out, GroupEntry(g.Name))
		for _, p := range g.Paths {
			out = append(out, PathEntry(p, shown))
		}
		out = append(out, EmptyEntry(g.Name, len(g.Paths) == 0 && shown))
	}
	return append(out, TailEntry())
}

// Unflatten folds an entry sequence back into groups. A Group opens a section,
// a Path joins the most recently opened one, Empty and Tail are ignored.
// Paths seen before any Group cannot be placed; they are dropped and counted.
func Unflatten(entries []Entry) (Groups, int) {
	out := Groups{}
	dropped := 0
	for _, e := range entries {
		switch e.Kind {
		case KindGroup:
			out = append(out, Group{Name: e.Name, Paths: []string{}})
		case KindPath:
			if len(out) == 0 {
				dropped++
				continue
			}
			last := &out[len(out)-1]
			last.Paths = append(last.Paths, e.Path)
		}
	}
	return out, dropped
}
