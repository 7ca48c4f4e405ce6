package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"fieldbar/internal/model"
)

// PrimitiveTypes are the field types a sidebar entry can filter on directly.
// A ListField matches when its subfield is one of these.
var PrimitiveTypes = []string{
	model.BooleanField,
	model.DateField,
	model.DateTimeField,
	model.FloatField,
	model.FrameNumberField,
	model.FrameSupportField,
	model.IntField,
	model.ObjectIDField,
	model.StringField,
}

var labelDocTypes = map[string]bool{
	model.Classification:     true,
	model.Classifications:    true,
	model.Detection:          true,
	model.Detections:         true,
	model.Polyline:           true,
	model.Polylines:          true,
	model.Keypoint:           true,
	model.Keypoints:          true,
	model.Segmentation:       true,
	model.Heatmap:            true,
	model.TemporalDetection:  true,
	model.TemporalDetections: true,
	model.GeoLocation:        true,
	model.GeoLocations:       true,
}

// listLabelKeys maps list-label document types to the attribute holding the list.
var listLabelKeys = map[string]string{
	model.Classifications:    "classifications",
	model.Detections:         "detections",
	model.Polylines:          "polylines",
	model.Keypoints:          "keypoints",
	model.TemporalDetections: "detections",
}

// Query selects direct child paths of a space root (Path == "") or of the field at Path.
type Query struct {
	Space  model.Space
	Path   string
	FTypes []string
}

// FilterTarget is one filterable (primitive) path offered by an expanded sidebar entry.
type FilterTarget struct {
	Path  string `json:"path"`
	FType string `json:"ftype"`
	// Named is true when the target is a sub-field of the entry rather than the entry itself.
	Named bool `json:"named"`
}

// Index answers read-only lookups over a dataset schema.
type Index struct {
	schema model.Schema
	byPath map[string]model.Field
}

func New(s model.Schema) *Index {
	idx := &Index{schema: s, byPath: map[string]model.Field{}}
	var walk func(prefix string, fields []model.Field)
	walk = func(prefix string, fields []model.Field) {
		for _, f := range fields {
			p := joinPath(prefix, f.Name)
			idx.byPath[p] = f
			walk(p, f.Fields)
		}
	}
	walk("", s.SampleFields)
	walk(model.FramesPrefix, s.FrameFields)
	return idx
}

// Load decodes a JSON schema document.
func Load(r io.Reader) (*Index, error) {
	var s model.Schema
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if err := validate(s); err != nil {
		return nil, err
	}
	return New(s), nil
}

func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func validate(s model.Schema) error {
	var walk func(prefix string, fields []model.Field) error
	walk = func(prefix string, fields []model.Field) error {
		seen := map[string]bool{}
		for _, f := range fields {
			name := strings.TrimSpace(f.Name)
			if name == "" || strings.Contains(name, ".") {
				return fmt.Errorf("invalid field name %q under %q", f.Name, prefix)
			}
			if seen[name] {
				return fmt.Errorf("duplicate field %q", joinPath(prefix, name))
			}
			seen[name] = true
			if strings.TrimSpace(f.FType) == "" {
				return fmt.Errorf("field %q: missing ftype", joinPath(prefix, name))
			}
			if err := walk(joinPath(prefix, name), f.Fields); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk("", s.SampleFields); err != nil {
		return err
	}
	return walk(model.FramesPrefix, s.FrameFields)
}

// Schema returns the underlying schema document.
func (x *Index) Schema() model.Schema { return x.schema }

func (x *Index) Field(path string) (model.Field, bool) {
	f, ok := x.byPath[strings.TrimSpace(path)]
	return f, ok
}

// LabelFields lists the label field paths of a space, in schema order.
func (x *Index) LabelFields(space model.Space) []string {
	prefix, fields := x.root(space)
	var out []string
	for _, f := range fields {
		if IsLabel(f) {
			out = append(out, joinPath(prefix, f.Name))
		}
	}
	return out
}

// FieldPaths lists the direct child paths selected by q, in schema order.
func (x *Index) FieldPaths(q Query) []string {
	prefix, fields := x.root(q.Space)
	if p := strings.TrimSpace(q.Path); p != "" {
		f, ok := x.byPath[p]
		if !ok {
			return nil
		}
		prefix, fields = p, f.Fields
	}
	var out []string
	for _, f := range fields {
		if MeetsType(f, q.FTypes) {
			out = append(out, joinPath(prefix, f.Name))
		}
	}
	return out
}

// ExpandPath resolves a list-label field to the path of its list attribute
// (e.g. a Detections field "ground_truth" becomes "ground_truth.detections").
func (x *Index) ExpandPath(path string) string {
	f, ok := x.byPath[path]
	if !ok || f.FType != model.EmbeddedDocumentField {
		return path
	}
	if k, ok := listLabelKeys[f.EmbeddedDocType]; ok {
		return joinPath(path, k)
	}
	return path
}

// FilterTargets lists what an expanded entry for path offers to filter on: the field
// itself when it is primitive, otherwise its primitive sub-fields.
func (x *Index) FilterTargets(path string) []FilterTarget {
	f, ok := x.byPath[path]
	if !ok {
		return nil
	}
	if MeetsType(f, PrimitiveTypes) {
		return []FilterTarget{{Path: path, FType: elementType(f)}}
	}
	var out []FilterTarget
	for _, sub := range f.Fields {
		if !MeetsType(sub, PrimitiveTypes) {
			continue
		}
		out = append(out, FilterTarget{Path: joinPath(path, sub.Name), FType: elementType(sub), Named: true})
	}
	return out
}

func (x *Index) root(space model.Space) (string, []model.Field) {
	if space == model.SpaceFrame {
		return model.FramesPrefix, x.schema.FrameFields
	}
	return "", x.schema.SampleFields
}

// IsLabel reports whether f holds a label document.
func IsLabel(f model.Field) bool {
	return f.FType == model.EmbeddedDocumentField && labelDocTypes[f.EmbeddedDocType]
}

// MeetsType reports whether f's type (or, for lists, its element type) is one of ftypes.
func MeetsType(f model.Field, ftypes []string) bool {
	for _, t := range ftypes {
		if f.FType == t {
			return true
		}
		if f.FType == model.ListField && f.Subfield == t {
			return true
		}
	}
	return false
}

func elementType(f model.Field) string {
	if f.FType == model.ListField && f.Subfield != "" {
		return f.Subfield
	}
	return f.FType
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
