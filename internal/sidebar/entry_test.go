package sidebar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// requireShape checks the [Group, Path*, Empty]..., Tail sequence invariant.
func requireShape(t *testing.T, entries []Entry) {
	t.Helper()
	require.NotEmpty(t, entries)
	require.Equal(t, KindTail, entries[len(entries)-1].Kind, "tail must be last")
	const (
		wantGroup = iota
		wantPathOrEmpty
	)
	state := wantGroup
	for i, e := range entries[:len(entries)-1] {
		switch state {
		case wantGroup:
			require.Equal(t, KindGroup, e.Kind, "entry %d: expected group, got %s", i, e.Kind)
			state = wantPathOrEmpty
		case wantPathOrEmpty:
			switch e.Kind {
			case KindPath:
			case KindEmpty:
				state = wantGroup
			default:
				require.Failf(t, "bad shape", "entry %d: expected path or empty, got %s", i, e.Kind)
			}
		}
	}
	require.Equal(t, wantGroup, state, "last section is missing its empty marker")
}

func sampleGroups() Groups {
	return Groups{
		{Name: "metadata", Paths: []string{"metadata.size_bytes", "metadata.mime_type"}},
		{Name: "labels", Paths: []string{"ground_truth", "predictions"}},
		{Name: "empty", Paths: []string{}},
		{Name: "primitives", Paths: []string{"filepath", "tags", "uniqueness"}},
	}
}

func TestFlatten_ShapeAndVisibility(t *testing.T) {
	groups := sampleGroups()
	expanded := func(name string) bool { return name != "labels" }

	entries := Flatten(groups, expanded)
	requireShape(t, entries)
	require.Len(t, entries, 1+2*len(groups)+7)

	for _, e := range entries {
		if e.Kind == KindPath && (e.Path == "ground_truth" || e.Path == "predictions") {
			require.False(t, e.Shown, "paths of a collapsed group are hidden")
		}
	}
	// Empty markers are shown only for expanded groups without paths.
	for _, e := range entries {
		if e.Kind != KindEmpty {
			continue
		}
		require.Equal(t, e.Name == "empty", e.Shown, "empty marker of %q", e.Name)
	}
}

func TestFlatten_NoGroupsIsJustTail(t *testing.T) {
	entries := Flatten(nil, nil)
	require.Equal(t, []Entry{TailEntry()}, entries)
}

func TestUnflatten_RoundTrip(t *testing.T) {
	cases := []Groups{
		{},
		{{Name: "only", Paths: []string{}}},
		{{Name: "a", Paths: []string{"x"}}, {Name: "b", Paths: []string{}}, {Name: "c", Paths: []string{"y", "z"}}},
		sampleGroups(),
	}
	for _, g := range cases {
		for _, expanded := range []func(string) bool{nil, func(string) bool { return false }} {
			got, dropped := Unflatten(Flatten(g, expanded))
			require.Zero(t, dropped)
			require.Equal(t, g, got)
		}
	}
}

func TestUnflatten_DropsOrphanPaths(t *testing.T) {
	entries := []Entry{
		PathEntry("orphan", true),
		GroupEntry("a"),
		PathEntry("x", true),
		EmptyEntry("a", false),
		TailEntry(),
	}
	got, dropped := Unflatten(entries)
	require.Equal(t, 1, dropped)
	require.Equal(t, Groups{{Name: "a", Paths: []string{"x"}}}, got)
}

func TestKeyOf_DistinctAcrossKinds(t *testing.T) {
	entries := Flatten(Groups{
		{Name: "labels", Paths: []string{"labels"}},
		{Name: "", Paths: []string{}},
	}, nil)
	seen := map[string]Entry{}
	for _, e := range entries {
		k := KeyOf(e)
		prev, dup := seen[k]
		require.False(t, dup, "key %s shared by %+v and %+v", k, prev, e)
		seen[k] = e
	}
}

func TestKeyOf_PathKeyIgnoresOwningGroup(t *testing.T) {
	a := Flatten(Groups{{Name: "a", Paths: []string{"filepath"}}}, nil)
	b := Flatten(Groups{{Name: "b", Paths: []string{"filepath"}}}, func(string) bool { return false })
	require.Equal(t, KeyOf(a[1]), KeyOf(b[1]))
	require.Equal(t, TailKey, KeyOf(TailEntry()))
	require.Equal(t, `["labels"]`, KeyOf(GroupEntry("labels")))
	require.Equal(t, `["","filepath"]`, KeyOf(PathEntry("filepath", true)))
	require.Equal(t, `["labels",""]`, KeyOf(EmptyEntry("labels", true)))
}
