package sidebar

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func entriesFor(items Items, order []string) []Entry {
	out := make([]Entry, len(order))
	for i, k := range order {
		out[i] = items[k].Entry
	}
	return out
}

func TestResolveDrop_GroupMovedAboveFirstGroup(t *testing.T) {
	items, order := measureGroups(labelsAndMeta(), nil)
	require.Equal(t, []string{gLabels, pA, pB, eLabels, gMeta, eMeta, TailKey}, order)

	// meta's header sits at 3; pull it up past labels' midpoint.
	got := Layout{}.ResolveDrop(gMeta, items, order, -3)
	require.Equal(t, []string{gMeta, eMeta, gLabels, pA, pB, eLabels, TailKey}, got)
	requireShape(t, entriesFor(items, got))
}

func TestResolveDrop_GroupMovedToEnd(t *testing.T) {
	items, order := measureGroups(labelsAndMeta(), nil)
	got := Layout{}.ResolveDrop(gLabels, items, order, 5)
	require.Equal(t, []string{gMeta, eMeta, gLabels, pA, pB, eLabels, TailKey}, got)
}

func TestResolveDrop_GroupNearNextGroupIsNoop(t *testing.T) {
	items, order := measureGroups(labelsAndMeta(), nil)
	// Nearest slot is meta: labels already precedes it.
	got := Layout{}.ResolveDrop(gLabels, items, order, 3)
	require.Equal(t, order, got)
}

func TestResolveDrop_SmallGroupDriftStaysPut(t *testing.T) {
	paths := func(prefix string, n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("%s%d", prefix, i)
		}
		return out
	}
	groups := Groups{
		{Name: "g1", Paths: paths("a", 10)},
		{Name: "g2", Paths: paths("b", 10)},
		{Name: "g3", Paths: paths("c", 1)},
	}
	items, order := measureGroups(groups, nil)
	g2 := KeyOf(GroupEntry("g2"))

	// One row either way keeps g2's header the nearest group slot.
	for _, d := range []float64{-1, -0.5, 0.5, 1} {
		require.Equal(t, order, Layout{}.ResolveDrop(g2, items, order, d), "delta %v", d)
	}

	// Past the midpoint between g1's header and its own, g2 moves above g1.
	got := Layout{}.ResolveDrop(g2, items, order, -6)
	require.Equal(t, []string{"g2", "g1", "g3"}, namesOf(items, got))
}

func TestResolveDrop_HalfRowDriftOverPrecedingGroupIsNoop(t *testing.T) {
	items, order := measureGroups(labelsAndMeta(), nil)
	require.Equal(t, order, Layout{}.ResolveDrop(gMeta, items, order, -0.5))
	require.Equal(t, order, Layout{}.ResolveDrop(gMeta, items, order, 0.5))
}

func namesOf(items Items, order []string) []string {
	var out []string
	for _, k := range order {
		if e := items[k].Entry; e.Kind == KindGroup {
			out = append(out, e.Name)
		}
	}
	return out
}

func TestResolveDrop_SingleGroupIsNoop(t *testing.T) {
	items, order := measureGroups(Groups{{Name: "only", Paths: []string{"x"}}}, nil)
	for _, d := range []float64{-5, -1, 1, 5} {
		require.Equal(t, order, Layout{}.ResolveDrop(KeyOf(GroupEntry("only")), items, order, d))
	}
}

func TestResolveDrop_ZeroDeltaIsIdentity(t *testing.T) {
	items, order := measureGroups(sampleGroups(), nil)
	for _, k := range order {
		require.Equal(t, order, Layout{Margin: 1}.ResolveDrop(k, items, order, 0), "key %s", k)
	}
}

func TestResolveDrop_NonDraggableIsNoop(t *testing.T) {
	items, order := measureGroups(labelsAndMeta(), nil)
	require.Equal(t, order, Layout{}.ResolveDrop(eMeta, items, order, -3))
	require.Equal(t, order, Layout{}.ResolveDrop(TailKey, items, order, -3))
	require.Equal(t, order, Layout{}.ResolveDrop("missing", items, order, -3))
}

func TestResolveDrop_PathNeverLandsFirst(t *testing.T) {
	items, order := measureGroups(labelsAndMeta(), nil)

	got := Layout{}.ResolveDrop(pB, items, order, -10)
	require.Equal(t, []string{gLabels, pB, pA, eLabels, gMeta, eMeta, TailKey}, got)

	got = Layout{}.ResolveDrop(pA, items, order, -10)
	require.Equal(t, order, got)
}

func TestResolveDrop_PathIntoFollowingGroup(t *testing.T) {
	items, order := measureGroups(labelsAndMeta(), nil)
	// a's midpoint is 1.5; meta's header midpoint is 3.5.
	got := Layout{}.ResolveDrop(pA, items, order, 2)
	require.Equal(t, []string{gLabels, pB, eLabels, gMeta, pA, eMeta, TailKey}, got)
	requireShape(t, entriesFor(items, got))
}

func TestResolveDrop_PathIntoPrecedingGroupSkipsEmptyMarker(t *testing.T) {
	groups := Groups{
		{Name: "labels", Paths: []string{"a"}},
		{Name: "meta", Paths: []string{"x"}},
	}
	items, order := measureGroups(groups, nil)
	pX := KeyOf(PathEntry("x", true))

	// Dropping x onto meta's header from below lands it at the end of labels.
	got := Layout{}.ResolveDrop(pX, items, order, -1)
	require.Equal(t, []string{gLabels, pA, pX, eLabels, gMeta, eMeta, TailKey}, got)
	requireShape(t, entriesFor(items, got))
}

func TestResolveDrop_TieGoesToEarlierCandidate(t *testing.T) {
	items, order := measureGroups(labelsAndMeta(), nil)
	// a's midpoint moves to 2.0: equidistant from a (1.5) and b (2.5). a wins.
	got := Layout{}.ResolveDrop(pA, items, order, 0.5)
	require.Equal(t, order, got)

	key, ok := Layout{}.nearestSlot(pA, items, order, 0.5)
	require.True(t, ok)
	require.Equal(t, pA, key)
}

func TestResolveDrop_HiddenPathsAreNotCandidates(t *testing.T) {
	groups := Groups{
		{Name: "labels", Paths: []string{"a"}},
		{Name: "meta", Paths: []string{"x", "y"}},
	}
	collapsed := func(name string) bool { return name != "meta" }
	items, order := measureGroups(groups, collapsed)
	pool := Layout{}.candidates(pA, items, order, Layout{}.restingTops(items, order))
	for _, s := range pool {
		require.True(t, items[s.key].Entry.Visible(), "candidate %s", s.key)
	}
}

func TestResolveDrop_SectionsStayIntact(t *testing.T) {
	groups := sampleGroups()
	items, order := measureGroups(groups, func(name string) bool { return name != "labels" })
	layout := Layout{Margin: 1}

	for _, g := range groups {
		key := KeyOf(GroupEntry(g.Name))
		from := slices.Index(order, key)
		section := order[from:sectionEnd(items, order, from)]
		for d := -30.0; d <= 30; d += 0.5 {
			got := layout.ResolveDrop(key, items, order, d)
			requireShape(t, entriesFor(items, got))
			require.ElementsMatch(t, order, got)
			at := slices.Index(got, key)
			require.Equal(t, section, got[at:at+len(section)], "group %s delta %v", g.Name, d)
		}
	}
}

func TestResolveDrop_PathDragsKeepShape(t *testing.T) {
	items, order := measureGroups(sampleGroups(), nil)
	layout := Layout{Margin: 1}
	for _, k := range order {
		if items[k].Entry.Kind != KindPath {
			continue
		}
		for d := -40.0; d <= 40; d += 0.5 {
			got := layout.ResolveDrop(k, items, order, d)
			requireShape(t, entriesFor(items, got))
			require.NotZero(t, slices.Index(got, k))
		}
	}
}

func TestStepDelta_MovesOneSlot(t *testing.T) {
	groups := Groups{
		{Name: "labels", Paths: []string{"a", "b"}},
		{Name: "meta", Paths: []string{}},
		{Name: "other", Paths: []string{"z"}},
	}
	items, order := measureGroups(groups, nil)
	layout := Layout{}
	gOther := KeyOf(GroupEntry("other"))
	pZ := KeyOf(PathEntry("z", true))
	eOther := KeyOf(EmptyEntry("other", false))

	d, ok := layout.StepDelta(pA, items, order, +1)
	require.True(t, ok)
	require.Equal(t, []string{gLabels, pB, pA, eLabels, gMeta, eMeta, gOther, pZ, eOther, TailKey},
		layout.ResolveDrop(pA, items, order, d))

	d, ok = layout.StepDelta(gLabels, items, order, +1)
	require.True(t, ok)
	require.Equal(t, []string{gMeta, eMeta, gLabels, pA, pB, eLabels, gOther, pZ, eOther, TailKey},
		layout.ResolveDrop(gLabels, items, order, d))

	d, ok = layout.StepDelta(gOther, items, order, -1)
	require.True(t, ok)
	require.Equal(t, []string{gLabels, pA, pB, eLabels, gOther, pZ, eOther, gMeta, eMeta, TailKey},
		layout.ResolveDrop(gOther, items, order, d))

	_, ok = layout.StepDelta(gLabels, items, order, -1)
	require.False(t, ok, "first group cannot move up")
	_, ok = layout.StepDelta(gOther, items, order, +1)
	require.False(t, ok, "last group cannot move down")
}
