package sidebar

import (
	"strings"
	"testing"

	"fieldbar/internal/schema"

	"github.com/stretchr/testify/require"
)

func loadSchema(t *testing.T, doc string) *schema.Index {
	t.Helper()
	idx, err := schema.Load(strings.NewReader(doc))
	require.NoError(t, err)
	return idx
}

func TestDefaultGrouping_LabelsFramesPrimitives(t *testing.T) {
	idx := loadSchema(t, `{
  "sample": [
    {"name": "filepath", "ftype": "StringField"},
    {"name": "tags", "ftype": "ListField", "subfield": "StringField"},
    {"name": "ground_truth", "ftype": "EmbeddedDocumentField", "embeddedDocType": "Detections"}
  ],
  "frame": [
    {"name": "detections", "ftype": "EmbeddedDocumentField", "embeddedDocType": "Detections"}
  ]
}`)

	got := DefaultGrouping(idx)
	require.Equal(t, Groups{
		{Name: GroupLabels, Paths: []string{"ground_truth"}},
		{Name: GroupFrameLabels, Paths: []string{"frames.detections"}},
		{Name: GroupPrimitives, Paths: []string{"filepath", "tags"}},
	}, got)
}

func TestDefaultGrouping_EmbeddedDocumentsGetTheirOwnGroup(t *testing.T) {
	idx := loadSchema(t, `{
  "sample": [
    {"name": "id", "ftype": "ObjectIdField"},
    {"name": "info", "ftype": "EmbeddedDocumentField", "embeddedDocType": "Info", "fields": [
      {"name": "author", "ftype": "StringField"},
      {"name": "extra", "ftype": "DictField"}
    ]},
    {"name": "metadata", "ftype": "EmbeddedDocumentField", "embeddedDocType": "ImageMetadata", "fields": [
      {"name": "width", "ftype": "IntField"},
      {"name": "height", "ftype": "IntField"}
    ]},
    {"name": "predictions", "ftype": "EmbeddedDocumentField", "embeddedDocType": "Classification", "fields": [
      {"name": "label", "ftype": "StringField"}
    ]}
  ]
}`)

	got := DefaultGrouping(idx)
	require.Equal(t, Groups{
		{Name: GroupMetadata, Paths: []string{"metadata.width", "metadata.height"}},
		{Name: GroupLabels, Paths: []string{"predictions"}},
		{Name: GroupPrimitives, Paths: []string{"id"}},
		{Name: "info", Paths: []string{"info.author"}},
	}, got, "label documents are not split out and frame labels are absent")
}

func TestDefaultGrouping_NilSchema(t *testing.T) {
	require.Empty(t, DefaultGrouping(nil))
}

func TestPrioritySort_IsStableForUnknownNames(t *testing.T) {
	groups := Groups{
		{Name: "zeta", Paths: []string{}},
		{Name: GroupPrimitives, Paths: []string{}},
		{Name: "alpha", Paths: []string{}},
		{Name: GroupMetadata, Paths: []string{}},
	}
	got := prioritySort(groups, GroupPriority)
	require.Equal(t, []string{GroupMetadata, GroupPrimitives, "zeta", "alpha"}, got.Names())
}

func TestStore_UsesSchemaDefaults(t *testing.T) {
	idx := loadSchema(t, `{"sample": [{"name": "filepath", "ftype": "StringField"}]}`)
	s := NewStore(ForSchema(idx), nil)
	require.Equal(t, Groups{
		{Name: GroupLabels, Paths: []string{}},
		{Name: GroupPrimitives, Paths: []string{"filepath"}},
	}, s.Groups())
}
