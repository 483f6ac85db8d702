package domain

import "github.com/google/uuid"

// SampleScope labels the cross-experiment analysis, where every sample is
// compared on all of its canvases at once.
const SampleScope = "samples"

// GroupMember is one canvas (or sample) inside a group
type GroupMember struct {
	ID           string `json:"id"`
	SampleID     string `json:"sampleId"`
	Browser      string `json:"browser"`
	GraphicsCard string `json:"graphicsCard"`
	UserAgent    string `json:"userAgent"`
}

// GroupView is one equivalence class
type GroupView struct {
	Size    int           `json:"size"`
	Members []GroupMember `json:"members"`
}

// GroupResponse is the outcome of grouping an experiment or all samples
type GroupResponse struct {
	Experiment string      `json:"experiment"`
	Total      int         `json:"total"`
	Excluded   int         `json:"excluded"`
	Entropy    float64     `json:"entropy"`
	MaxEntropy float64     `json:"maxEntropy"`
	Classes    []GroupView `json:"classes"`
}

// CompareResponse locates one canvas among the groups of its experiment
type CompareResponse struct {
	GroupResponse
	CanvasID   string `json:"canvasId"`
	ClassIndex int    `json:"classIndex"`
}

// ExportFormat is the encoding of an analysis report
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
)

// Ext returns the file extension for the format
func (f ExportFormat) Ext() string {
	return string(f)
}

// ExportRequest asks for an analysis report to be written to object storage
type ExportRequest struct {
	// Experiment is empty for the cross-experiment sample analysis
	Experiment string       `json:"experiment" validate:"omitempty,experimentname"`
	Format     ExportFormat `json:"format" validate:"required,oneof=json csv"`
	Exclude    []string     `json:"exclude" validate:"dive,required"`
}

// ExportJob is the queued export as reported to the caller
type ExportJob struct {
	JobID     uuid.UUID    `json:"jobId"`
	TaskID    string       `json:"taskId"`
	Format    ExportFormat `json:"format"`
	ObjectKey string       `json:"objectKey"`
}

// ExportObjectKey is where the report of a job is stored
func ExportObjectKey(jobID uuid.UUID, format ExportFormat) string {
	return "reports/" + jobID.String() + "." + format.Ext()
}
