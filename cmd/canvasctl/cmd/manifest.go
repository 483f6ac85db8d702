package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/canvasprint/canvasprint/internal/fingerprint"
	"github.com/canvasprint/canvasprint/internal/imagecodec"
)

// Manifest lists the renderings to analyse
type Manifest struct {
	Samples []ManifestSample `yaml:"samples"`
}

// ManifestSample is one rendering. File is resolved relative to the
// manifest; PNG may hold a data URL instead.
type ManifestSample struct {
	ID         string            `yaml:"id"`
	File       string            `yaml:"file"`
	PNG        string            `yaml:"png"`
	ExcludeKey string            `yaml:"exclude_key"`
	Metadata   map[string]string `yaml:"metadata"`
}

// loadManifest reads a manifest file
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// records turns manifest entries into engine records. Images are decoded
// lazily by the engine.
func (m *Manifest) records(baseDir string) ([]fingerprint.Record[fingerprint.Handle], error) {
	records := make([]fingerprint.Record[fingerprint.Handle], 0, len(m.Samples))
	for i, s := range m.Samples {
		if s.ID == "" {
			return nil, fmt.Errorf("sample %d: id is required", i+1)
		}

		var h fingerprint.Handle
		switch {
		case s.File != "":
			path := s.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			h = imagecodec.FromFile(path)
		case s.PNG != "":
			h = imagecodec.FromDataURL(s.PNG)
		default:
			return nil, fmt.Errorf("sample %q: file or png is required", s.ID)
		}

		records = append(records, fingerprint.Record[fingerprint.Handle]{
			ID:         s.ID,
			Image:      h,
			Metadata:   s.Metadata,
			ExcludeKey: s.ExcludeKey,
		})
	}
	return records, nil
}

// columns lists the ordering keys first, then every other metadata key
// in name order
func (m *Manifest) columns(order []string) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, k := range order {
		if !seen[k] {
			seen[k] = true
			cols = append(cols, k)
		}
	}

	var rest []string
	for _, s := range m.Samples {
		for k := range s.Metadata {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append(cols, rest...)
}
