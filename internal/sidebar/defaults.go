package sidebar

import (
	"slices"
	"sort"

	"fieldbar/internal/model"
	"fieldbar/internal/schema"
)

// Names of the groups derived from the schema.
const (
	GroupMetadata    = "metadata"
	GroupLabels      = "labels"
	GroupFrameLabels = "frame labels"
	GroupPrimitives  = "primitives"
)

// GroupPriority is the fixed order of well-known groups. Other groups follow
// in the order they were derived.
var GroupPriority = []string{GroupMetadata, GroupLabels, GroupFrameLabels, GroupPrimitives}

// SchemaSource is the read-only slice of the schema the default grouping needs.
type SchemaSource interface {
	LabelFields(space model.Space) []string
	FieldPaths(q schema.Query) []string
}

// DefaultGrouping derives the initial groups from the schema:
//
//   - "labels": sample-space label fields
//   - "primitives": sample-space primitive fields
//   - one group per other sample-space embedded document, holding its primitive sub-paths
//   - "frame labels": frame-space label fields, when there are any
//
// sorted by GroupPriority.
func DefaultGrouping(s SchemaSource) Groups {
	if s == nil {
		return Groups{}
	}
	frameLabels := s.LabelFields(model.SpaceFrame)
	sampleLabels := s.LabelFields(model.SpaceSample)
	labels := append(slices.Clone(frameLabels), sampleLabels...)

	var groups Groups
	put := func(name string, paths []string) {
		paths = append([]string{}, paths...)
		if i := groups.Index(name); i >= 0 {
			groups[i].Paths = paths
			return
		}
		groups = append(groups, Group{Name: name, Paths: paths})
	}

	put(GroupLabels, sampleLabels)
	put(GroupPrimitives, s.FieldPaths(schema.Query{Space: model.SpaceSample, FTypes: schema.PrimitiveTypes}))
	for _, p := range s.FieldPaths(schema.Query{Space: model.SpaceSample, FTypes: []string{model.EmbeddedDocumentField}}) {
		if slices.Contains(labels, p) {
			continue
		}
		put(p, s.FieldPaths(schema.Query{Path: p, FTypes: schema.PrimitiveTypes}))
	}
	if len(frameLabels) > 0 {
		put(GroupFrameLabels, frameLabels)
	}
	return prioritySort(groups, GroupPriority)
}

// ForSchema returns a defaults thunk for NewStore.
func ForSchema(s SchemaSource) func() Groups {
	return func() Groups { return DefaultGrouping(s) }
}

func prioritySort(groups Groups, priorities []string) Groups {
	rank := func(name string) int {
		if i := slices.Index(priorities, name); i >= 0 {
			return i
		}
		return len(priorities)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return rank(groups[i].Name) < rank(groups[j].Name)
	})
	return groups
}
