package sidebar

import (
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// Name length limits enforced at the CRUD boundary.
const (
	MaxRenameLength = 40
	MaxAddLength    = 140
)

// Change describes one store mutation delivered to subscribers.
type Change struct {
	Version uint64
	Op      string
}

// Store owns the canonical grouped order of one sidebar context and the
// expanded state of its groups. Each view context (grid, sample modal) has its
// own Store. A Store is not safe for concurrent use; the UI event loop
// serializes access.
type Store struct {
	defaults func() Groups
	logger   *log.Logger

	loaded   bool
	groups   Groups
	expanded map[string]bool

	version uint64
	nextSub int
	subs    map[int]func(Change)
}

// NewStore creates a store whose groups are derived lazily from defaults the
// first time they are read. A nil logger discards output.
func NewStore(defaults func() Groups, logger *log.Logger) *Store {
	if defaults == nil {
		defaults = func() Groups { return Groups{} }
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		defaults: defaults,
		logger:   logger,
		expanded: map[string]bool{},
		subs:     map[int]func(Change){},
	}
}

func (s *Store) ensure() {
	if s.loaded {
		return
	}
	s.groups = s.defaults().Clone()
	s.loaded = true
}

// Version increases by one on every mutation.
func (s *Store) Version() uint64 { return s.version }

// Subscribe registers fn to run synchronously after each mutation.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) changed(op string) {
	s.version++
	c := Change{Version: s.version, Op: op}
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn(c)
		}
	}
}

// Groups returns a copy of the canonical order.
func (s *Store) Groups() Groups {
	s.ensure()
	return s.groups.Clone()
}

// Group returns a copy of the named group's paths.
func (s *Store) Group(name string) ([]string, bool) {
	s.ensure()
	i := s.groups.Index(name)
	if i < 0 {
		return nil, false
	}
	return slices.Clone(s.groups[i].Paths), true
}

// Entries flattens the current groups with their expanded state.
func (s *Store) Entries() []Entry {
	s.ensure()
	return Flatten(s.groups, s.Expanded)
}

// SetEntries commits a flattened order back into groups.
func (s *Store) SetEntries(entries []Entry) {
	groups, dropped := Unflatten(entries)
	if dropped > 0 {
		s.logger.Warn("dropped paths preceding the first group", "count", dropped)
	}
	s.ensure()
	s.groups = groups
	s.changed("commit")
}

// Reset discards renames, reorders, additions and deletions.
func (s *Store) Reset() {
	s.groups = s.defaults().Clone()
	s.loaded = true
	s.logger.Info("sidebar groups reset to defaults", "groups", len(s.groups))
	s.changed("reset")
}

// Expanded reports whether a group is expanded. Groups start expanded.
func (s *Store) Expanded(name string) bool {
	v, ok := s.expanded[name]
	return !ok || v
}

// ToggleExpanded flips the named group's expanded state and returns the new state.
func (s *Store) ToggleExpanded(name string) (bool, error) {
	s.ensure()
	if s.groups.Index(name) < 0 {
		return false, ErrGroupNotFound
	}
	next := !s.Expanded(name)
	s.expanded[name] = next
	s.changed("toggle")
	return next, nil
}

// RenameGroup renames oldName in place. Unknown names are ignored.
func (s *Store) RenameGroup(oldName, newName string) error {
	s.ensure()
	i := s.groups.Index(oldName)
	if i < 0 {
		return nil
	}
	name, err := s.validateName(newName, MaxRenameLength, oldName)
	if err != nil {
		s.logger.Debug("rename rejected", "group", oldName, "name", newName, "err", err)
		return err
	}
	if name == oldName {
		return nil
	}
	s.groups[i].Name = name
	if v, ok := s.expanded[oldName]; ok {
		s.expanded[name] = v
		delete(s.expanded, oldName)
	}
	s.changed("rename")
	return nil
}

// AddGroup appends an empty, expanded group just before Tail.
func (s *Store) AddGroup(name string) error {
	s.ensure()
	valid, err := s.validateName(name, MaxAddLength, "")
	if err != nil {
		s.logger.Debug("add rejected", "name", name, "err", err)
		return err
	}
	name = valid
	s.groups = append(s.groups, Group{Name: name, Paths: []string{}})
	delete(s.expanded, name)
	s.changed("add")
	return nil
}

// DeleteGroup removes a group header. Its paths fold into the preceding group,
// or into the following one when the first group is deleted. Deleting the only
// group drops its paths until Reset.
func (s *Store) DeleteGroup(name string) error {
	s.ensure()
	i := s.groups.Index(name)
	if i < 0 {
		return ErrGroupNotFound
	}
	paths := s.groups[i].Paths
	s.groups = slices.Delete(s.groups, i, i+1)
	switch {
	case len(s.groups) == 0:
		if len(paths) > 0 {
			s.logger.Info("deleted last group; paths hidden until reset", "group", name, "paths", len(paths))
		}
	case i > 0:
		s.groups[i-1].Paths = append(s.groups[i-1].Paths, paths...)
	default:
		s.groups[0].Paths = append(slices.Clone(paths), s.groups[0].Paths...)
	}
	delete(s.expanded, name)
	s.changed("delete")
	return nil
}

// FilteredCount counts the group's paths for which isFiltered holds.
func (s *Store) FilteredCount(group string, isFiltered func(path string) bool) int {
	paths, _ := s.Group(group)
	n := 0
	for _, p := range paths {
		if isFiltered != nil && isFiltered(p) {
			n++
		}
	}
	return n
}

// ActiveCount counts the group's paths present in active.
func (s *Store) ActiveCount(group string, active []string) int {
	set := make(map[string]bool, len(active))
	for _, p := range active {
		set[p] = true
	}
	paths, _ := s.Group(group)
	n := 0
	for _, p := range paths {
		if set[p] {
			n++
		}
	}
	return n
}

// validateName trims name and checks length and case-insensitive uniqueness,
// ignoring the group named self.
func (s *Store) validateName(name string, maxLen int, self string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", InvalidGroupNameError{Name: name, Reason: "empty"}
	}
	if utf8.RuneCountInString(name) > maxLen {
		return "", InvalidGroupNameError{Name: name, Reason: "too long"}
	}
	for _, g := range s.groups {
		if g.Name == self {
			continue
		}
		if strings.EqualFold(g.Name, name) {
			return "", DuplicateGroupError{Name: name}
		}
	}
	return name, nil
}
