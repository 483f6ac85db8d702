package domain

import (
	"time"

	"github.com/google/uuid"
)

// Canvas is the rendering a sample produced for one experiment. Either
// payload may be empty; PNG is preferred when both are present.
type Canvas struct {
	ID           uuid.UUID `json:"id"`
	SampleID     uuid.UUID `json:"sampleId"`
	ExperimentID uuid.UUID `json:"experimentId"`
	// Pixels is the JSON encoded getImageData() array
	Pixels string `json:"pixels,omitempty"`
	// PNG is a data URL as returned by toDataURL()
	PNG       string    `json:"png,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CanvasWithSample is a canvas joined with the sample that produced it
type CanvasWithSample struct {
	Canvas
	Sample Sample `json:"sample"`
}

// CanvasSubmission is the body of a result upload
type CanvasSubmission struct {
	Title  string `json:"title" form:"title" validate:"max=1024"`
	Pixels string `json:"pixels" form:"pixels" validate:"required_without=PNG"`
	PNG    string `json:"png" form:"png" validate:"required_without=Pixels"`
	Width  int    `json:"width" form:"width" validate:"gte=0,lte=65536"`
}

// CanvasSummary is a listing entry without the image payloads
type CanvasSummary struct {
	ID           uuid.UUID `json:"id"`
	SampleID     uuid.UUID `json:"sampleId"`
	Browser      string    `json:"browser"`
	GraphicsCard string    `json:"graphicsCard"`
	UserAgent    string    `json:"userAgent"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Summarize drops the payloads of a joined canvas
func (c *CanvasWithSample) Summarize() CanvasSummary {
	return CanvasSummary{
		ID:           c.ID,
		SampleID:     c.SampleID,
		Browser:      c.Sample.Browser(),
		GraphicsCard: c.Sample.GraphicsCard(),
		UserAgent:    c.Sample.UserAgent,
		UpdatedAt:    c.UpdatedAt,
	}
}

// SampleCanvases is a sample with every canvas it submitted
type SampleCanvases struct {
	Sample   Sample
	Canvases []Canvas
}
