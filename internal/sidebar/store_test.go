package sidebar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(groups Groups) *Store {
	return NewStore(func() Groups { return groups.Clone() }, nil)
}

func TestStore_DefaultsAreLazy(t *testing.T) {
	calls := 0
	s := NewStore(func() Groups {
		calls++
		return Groups{{Name: "labels", Paths: []string{"ground_truth"}}}
	}, nil)
	require.Zero(t, calls)

	require.Equal(t, []string{"labels"}, s.Groups().Names())
	_ = s.Entries()
	require.Equal(t, 1, calls, "defaults are derived once")
}

func TestStore_AddGroup_RejectsDuplicateCaseInsensitive(t *testing.T) {
	s := newTestStore(Groups{{Name: "metadata", Paths: []string{}}, {Name: "labels", Paths: []string{}}})
	before := s.Version()

	err := s.AddGroup("labels")
	var dup DuplicateGroupError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "LABELS is already a group name", err.Error())

	err = s.AddGroup("  Labels ")
	require.ErrorAs(t, err, &dup)

	require.Equal(t, []string{"metadata", "labels"}, s.Groups().Names())
	require.Equal(t, before, s.Version(), "rejected adds do not mutate")
}

func TestStore_AddGroup_AppendsBeforeTail(t *testing.T) {
	s := newTestStore(Groups{{Name: "labels", Paths: []string{"a"}}})
	require.NoError(t, s.AddGroup("mine"))

	entries := s.Entries()
	requireShape(t, entries)
	n := len(entries)
	require.Equal(t, GroupEntry("mine"), entries[n-3])
	require.Equal(t, EmptyEntry("mine", true), entries[n-2])
	require.True(t, s.Expanded("mine"))
}

func TestStore_AddGroup_RejectsInvalidNames(t *testing.T) {
	s := newTestStore(Groups{})
	var invalid InvalidGroupNameError
	require.ErrorAs(t, s.AddGroup("   "), &invalid)

	long := make([]byte, MaxAddLength+1)
	for i := range long {
		long[i] = 'x'
	}
	require.ErrorAs(t, s.AddGroup(string(long)), &invalid)
	require.Empty(t, s.Groups())
}

func TestStore_RenameGroup(t *testing.T) {
	s := newTestStore(Groups{{Name: "labels", Paths: []string{"a"}}, {Name: "other", Paths: []string{}}})
	_, err := s.ToggleExpanded("labels")
	require.NoError(t, err)

	require.NoError(t, s.RenameGroup("labels", "annotations"))
	require.Equal(t, []string{"annotations", "other"}, s.Groups().Names())
	require.False(t, s.Expanded("annotations"), "expanded state follows the rename")

	var dup DuplicateGroupError
	require.ErrorAs(t, s.RenameGroup("annotations", "OTHER"), &dup)

	require.NoError(t, s.RenameGroup("annotations", "Annotations"), "case-only rename of itself is allowed")
	require.Equal(t, []string{"Annotations", "other"}, s.Groups().Names())
}

func TestStore_RenameMissingIsSilentNoop(t *testing.T) {
	s := newTestStore(Groups{{Name: "labels", Paths: []string{}}})
	v := s.Version()
	require.NoError(t, s.RenameGroup("nope", "labels2"))
	require.Equal(t, v, s.Version())
}

func TestStore_DeleteGroup_FoldsPaths(t *testing.T) {
	s := newTestStore(Groups{
		{Name: "a", Paths: []string{"x"}},
		{Name: "b", Paths: []string{"y"}},
		{Name: "c", Paths: []string{"z"}},
	})

	require.NoError(t, s.DeleteGroup("b"))
	require.Equal(t, Groups{{Name: "a", Paths: []string{"x", "y"}}, {Name: "c", Paths: []string{"z"}}}, s.Groups())

	require.NoError(t, s.DeleteGroup("a"))
	require.Equal(t, Groups{{Name: "c", Paths: []string{"x", "y", "z"}}}, s.Groups())

	require.NoError(t, s.DeleteGroup("c"))
	require.Empty(t, s.Groups())
	require.Equal(t, []Entry{TailEntry()}, s.Entries())

	require.True(t, errors.Is(s.DeleteGroup("c"), ErrGroupNotFound))
}

func TestStore_ToggleExpanded(t *testing.T) {
	s := newTestStore(Groups{{Name: "labels", Paths: []string{"a"}}, {Name: "empty", Paths: []string{}}})

	shown, err := s.ToggleExpanded("empty")
	require.NoError(t, err)
	require.False(t, shown)
	for _, e := range s.Entries() {
		if e.Kind == KindEmpty && e.Name == "empty" {
			require.False(t, e.Shown, "collapsed groups hide their placeholder")
		}
	}

	_, err = s.ToggleExpanded("missing")
	require.ErrorIs(t, err, ErrGroupNotFound)
}

func TestStore_ResetRestoresDefaults(t *testing.T) {
	defaults := Groups{{Name: "labels", Paths: []string{"a"}}, {Name: "primitives", Paths: []string{"b"}}}
	s := newTestStore(defaults)

	require.NoError(t, s.RenameGroup("labels", "mine"))
	require.NoError(t, s.AddGroup("extra"))
	require.NoError(t, s.DeleteGroup("primitives"))

	s.Reset()
	require.Equal(t, defaults, s.Groups())
}

func TestStore_SetEntriesCommitsOrder(t *testing.T) {
	s := newTestStore(labelsAndMeta())
	entries := s.Entries()
	// Move the meta section to the top.
	reordered := append([]Entry{entries[4], entries[5]}, entries[:4]...)
	reordered = append(reordered, entries[6])

	s.SetEntries(reordered)
	require.Equal(t, Groups{{Name: "meta", Paths: []string{}}, {Name: "labels", Paths: []string{"a", "b"}}}, s.Groups())
}

func TestStore_CommittedDropsKeepPathsUnique(t *testing.T) {
	s := newTestStore(sampleGroups())
	items, order := Measure(s.Entries(), unitHeights())
	for _, k := range order {
		if !items[k].Entry.Draggable() {
			continue
		}
		for _, d := range []float64{-7, -2, 1, 4} {
			s.Reset()
			next := Layout{}.ResolveDrop(k, items, order, d)
			s.SetEntries(entriesFor(items, next))

			seen := map[string]bool{}
			for _, g := range s.Groups() {
				for _, p := range g.Paths {
					require.False(t, seen[p], "path %s repeated after dropping %s by %v", p, k, d)
					seen[p] = true
				}
			}
			require.Len(t, s.Groups(), len(sampleGroups()))
		}
	}
}

func TestStore_Counts(t *testing.T) {
	s := newTestStore(Groups{{Name: "labels", Paths: []string{"gt", "pred", "eval"}}})
	filtered := map[string]bool{"gt": true, "eval": true}

	require.Equal(t, 2, s.FilteredCount("labels", func(p string) bool { return filtered[p] }))
	require.Equal(t, 1, s.ActiveCount("labels", []string{"pred", "filepath"}))
	require.Zero(t, s.ActiveCount("missing", []string{"pred"}))
	require.Zero(t, s.FilteredCount("labels", nil))
}

func TestStore_SubscribersSeeEveryMutation(t *testing.T) {
	s := newTestStore(Groups{{Name: "labels", Paths: []string{}}})
	var ops []string
	unsubscribe := s.Subscribe(func(c Change) {
		ops = append(ops, c.Op)
		require.Equal(t, s.Version(), c.Version)
	})

	require.NoError(t, s.AddGroup("a"))
	require.NoError(t, s.RenameGroup("a", "b"))
	_, _ = s.ToggleExpanded("b")
	require.NoError(t, s.DeleteGroup("b"))
	s.Reset()
	require.Error(t, s.AddGroup("labels"))

	require.Equal(t, []string{"add", "rename", "toggle", "delete", "reset"}, ops)

	unsubscribe()
	require.NoError(t, s.AddGroup("c"))
	require.Len(t, ops, 5)
}

func TestStores_AreIndependentPerContext(t *testing.T) {
	defaults := ForSchema(nil)
	grid := NewStore(defaults, nil)
	modal := NewStore(defaults, nil)

	require.NoError(t, grid.AddGroup("grid only"))
	require.Equal(t, []string{"grid only"}, grid.Groups().Names())
	require.Empty(t, modal.Groups())
}
