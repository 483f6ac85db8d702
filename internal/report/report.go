// Package report renders grouping results as text tables, CSV and JSON.
package report

import (
	"github.com/canvasprint/canvasprint/internal/domain"
	"github.com/canvasprint/canvasprint/internal/fingerprint"
)

// Member is one row of a group
type Member struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Group is one equivalence class
type Group struct {
	Size    int      `json:"size"`
	Key     string   `json:"key,omitempty"`
	Members []Member `json:"members"`
}

// Report is a presentation-neutral view of a grouping result
type Report struct {
	Title      string   `json:"title"`
	Total      int      `json:"total"`
	Excluded   int      `json:"excluded"`
	Entropy    float64  `json:"entropy"`
	MaxEntropy float64  `json:"maxEntropy"`
	Columns    []string `json:"columns"`
	Groups     []Group  `json:"groups"`
}

// Columns used for reports built from API responses
var responseColumns = []string{"sample_id", "browser", "graphics_card", "useragent"}

// FromResult builds a report from an engine result. classKeys label each
// group with the composite key it was sorted by; columns are the metadata
// keys shown for each member.
func FromResult[H any](title string, r *fingerprint.Result[H], classKeys, columns []string) *Report {
	rep := &Report{
		Title:      title,
		Total:      r.Total,
		Excluded:   r.Excluded,
		Entropy:    r.Entropy,
		MaxEntropy: r.MaxEntropy(),
		Columns:    columns,
		Groups:     make([]Group, len(r.Classes)),
	}

	for i, c := range r.Classes {
		g := Group{Size: c.Size(), Members: make([]Member, len(c.Members))}
		if len(classKeys) > 0 {
			g.Key = fingerprint.CompositeKey(c.Representative(), classKeys)
		}
		for j, m := range c.Members {
			fields := make(map[string]string, len(columns))
			for _, col := range columns {
				fields[col] = m.Field(col)
			}
			g.Members[j] = Member{ID: m.ID, Fields: fields}
		}
		rep.Groups[i] = g
	}
	return rep
}

// FromResponse builds a report from a grouping response
func FromResponse(resp *domain.GroupResponse) *Report {
	title := resp.Experiment
	if title == "" {
		title = domain.SampleScope
	}

	rep := &Report{
		Title:      title,
		Total:      resp.Total,
		Excluded:   resp.Excluded,
		Entropy:    resp.Entropy,
		MaxEntropy: resp.MaxEntropy,
		Columns:    responseColumns,
		Groups:     make([]Group, len(resp.Classes)),
	}

	for i, c := range resp.Classes {
		g := Group{Size: c.Size, Members: make([]Member, len(c.Members))}
		for j, m := range c.Members {
			g.Members[j] = Member{
				ID: m.ID,
				Fields: map[string]string{
					"sample_id":     m.SampleID,
					"browser":       m.Browser,
					"graphics_card": m.GraphicsCard,
					"useragent":     m.UserAgent,
				},
			}
		}
		rep.Groups[i] = g
	}
	return rep
}
