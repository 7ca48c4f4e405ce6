package model

// Space selects which part of a dataset schema a field lives in.
type Space string

const (
	SpaceSample Space = "sample"
	SpaceFrame  Space = "frame"
)

// FramesPrefix is prepended to every frame-space field path.
const FramesPrefix = "frames"

// Field types, named after the dataset document classes they describe.
const (
	BooleanField          = "BooleanField"
	DateField             = "DateField"
	DateTimeField         = "DateTimeField"
	FloatField            = "FloatField"
	FrameNumberField      = "FrameNumberField"
	FrameSupportField     = "FrameSupportField"
	IntField              = "IntField"
	ListField             = "ListField"
	ObjectIDField         = "ObjectIdField"
	StringField           = "StringField"
	EmbeddedDocumentField = "EmbeddedDocumentField"
	DictField             = "DictField"
	VectorField           = "VectorField"
)

// Label document types. A sample/frame field holding one of these is a label field.
const (
	Classification     = "Classification"
	Classifications    = "Classifications"
	Detection          = "Detection"
	Detections         = "Detections"
	Polyline           = "Polyline"
	Polylines          = "Polylines"
	Keypoint           = "Keypoint"
	Keypoints          = "Keypoints"
	Segmentation       = "Segmentation"
	Heatmap            = "Heatmap"
	TemporalDetection  = "TemporalDetection"
	TemporalDetections = "TemporalDetections"
	GeoLocation        = "GeoLocation"
	GeoLocations       = "GeoLocations"
)

type Field struct {
	Name            string  `json:"name"`
	FType           string  `json:"ftype"`
	Subfield        string  `json:"subfield,omitempty"`
	EmbeddedDocType string  `json:"embeddedDocType,omitempty"`
	Description     string  `json:"description,omitempty"`
	Fields          []Field `json:"fields,omitempty"`
}

// Schema is a dataset's field tree. Frame fields are stored without the
// "frames." prefix; readers add it when addressing them by path.
type Schema struct {
	Name         string  `json:"name,omitempty"`
	SampleFields []Field `json:"sample"`
	FrameFields  []Field `json:"frame,omitempty"`
}
