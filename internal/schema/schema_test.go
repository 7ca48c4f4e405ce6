package schema

import (
	"strings"
	"testing"

	"fieldbar/internal/model"

	"github.com/stretchr/testify/require"
)

const quickstartJSON = `{
  "name": "quickstart-video",
  "sample": [
    {"name": "id", "ftype": "ObjectIdField"},
    {"name": "filepath", "ftype": "StringField"},
    {"name": "tags", "ftype": "ListField", "subfield": "StringField"},
    {"name": "metadata", "ftype": "EmbeddedDocumentField", "embeddedDocType": "VideoMetadata", "fields": [
      {"name": "size_bytes", "ftype": "IntField"},
      {"name": "mime_type", "ftype": "StringField"},
      {"name": "encoding", "ftype": "DictField"}
    ]},
    {"name": "ground_truth", "ftype": "EmbeddedDocumentField", "embeddedDocType": "Detections", "fields": [
      {"name": "detections", "ftype": "ListField", "subfield": "EmbeddedDocumentField", "embeddedDocType": "Detection", "fields": [
        {"name": "label", "ftype": "StringField"},
        {"name": "confidence", "ftype": "FloatField"},
        {"name": "bounding_box", "ftype": "ListField", "subfield": "FloatField"}
      ]}
    ]}
  ],
  "frame": [
    {"name": "frame_number", "ftype": "FrameNumberField"},
    {"name": "detections", "ftype": "EmbeddedDocumentField", "embeddedDocType": "Detections"}
  ]
}`

func loadQuickstart(t *testing.T) *Index {
	t.Helper()
	idx, err := Load(strings.NewReader(quickstartJSON))
	require.NoError(t, err)
	return idx
}

func TestLabelFields_PerSpace(t *testing.T) {
	idx := loadQuickstart(t)
	require.Equal(t, []string{"ground_truth"}, idx.LabelFields(model.SpaceSample))
	require.Equal(t, []string{"frames.detections"}, idx.LabelFields(model.SpaceFrame))
}

func TestFieldPaths_PrimitivesIncludeListsOfPrimitives(t *testing.T) {
	idx := loadQuickstart(t)
	got := idx.FieldPaths(Query{Space: model.SpaceSample, FTypes: PrimitiveTypes})
	require.Equal(t, []string{"id", "filepath", "tags"}, got)
}

func TestFieldPaths_UnderPath(t *testing.T) {
	idx := loadQuickstart(t)
	got := idx.FieldPaths(Query{Path: "metadata", FTypes: PrimitiveTypes})
	require.Equal(t, []string{"metadata.size_bytes", "metadata.mime_type"}, got)
	require.Nil(t, idx.FieldPaths(Query{Path: "missing", FTypes: PrimitiveTypes}))
}

func TestExpandPath_ListLabels(t *testing.T) {
	idx := loadQuickstart(t)
	require.Equal(t, "ground_truth.detections", idx.ExpandPath("ground_truth"))
	require.Equal(t, "filepath", idx.ExpandPath("filepath"))
	require.Equal(t, "metadata", idx.ExpandPath("metadata"))
}

func TestFilterTargets(t *testing.T) {
	idx := loadQuickstart(t)

	require.Equal(t, []FilterTarget{{Path: "tags", FType: model.StringField}}, idx.FilterTargets("tags"))

	got := idx.FilterTargets("ground_truth.detections")
	require.Equal(t, []FilterTarget{
		{Path: "ground_truth.detections.label", FType: model.StringField, Named: true},
		{Path: "ground_truth.detections.confidence", FType: model.FloatField, Named: true},
		{Path: "ground_truth.detections.bounding_box", FType: model.FloatField, Named: true},
	}, got)
}

func TestLoad_RejectsDuplicateFields(t *testing.T) {
	_, err := Load(strings.NewReader(`{"sample":[{"name":"a","ftype":"IntField"},{"name":"a","ftype":"IntField"}]}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate field")
}

func TestLoad_RejectsDottedNames(t *testing.T) {
	_, err := Load(strings.NewReader(`{"sample":[{"name":"a.b","ftype":"IntField"}]}`))
	require.Error(t, err)
}
