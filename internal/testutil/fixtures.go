package testutil

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/google/uuid"

	"github.com/canvasprint/canvasprint/internal/domain"
)

// Common user agents for fixtures.
const (
	ChromeUA  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	FirefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
)

// Fixture colours.
var (
	Red  = color.NRGBA{R: 255, A: 255}
	Blue = color.NRGBA{B: 255, A: 255}
)

// NewTestExperiment creates a test experiment with default values.
func NewTestExperiment(name string) *domain.Experiment {
	return &domain.Experiment{
		ID:        uuid.New(),
		Name:      name,
		Scripts:   []string{"/" + name + ".js"},
		CreatedAt: time.Now(),
	}
}

// NewTestSample creates a sample for the given agent and WebGL renderer.
func NewTestSample(useragent, renderer string) *domain.Sample {
	return &domain.Sample{
		ID:            uuid.New(),
		UserAgent:     useragent,
		UserInput:     "test-" + uuid.New().String()[:8],
		WebGLRenderer: renderer,
		CreatedAt:     time.Now(),
	}
}

// NewTestCanvas joins a canvas holding a solid-colour PNG to its sample.
func NewTestCanvas(exp *domain.Experiment, sample *domain.Sample, c color.Color) domain.CanvasWithSample {
	return domain.CanvasWithSample{
		Canvas: domain.Canvas{
			ID:           uuid.New(),
			SampleID:     sample.ID,
			ExperimentID: exp.ID,
			PNG:          PNGDataURL(c, 4, 4),
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
		Sample: *sample,
	}
}

// PNGBytes encodes a solid w x h image as PNG.
func PNGBytes(c color.Color, w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNGDataURL encodes a solid w x h image as a toDataURL() string.
func PNGDataURL(c color.Color, w, h int) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(PNGBytes(c, w, h))
}
