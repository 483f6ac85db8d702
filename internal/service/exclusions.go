package service

import (
	"fmt"
	"regexp"

	"github.com/canvasprint/canvasprint/internal/config"
	"github.com/canvasprint/canvasprint/internal/fingerprint"
)

// exclusionRule is a compiled config.ExclusionRule
type exclusionRule struct {
	name    string
	pattern *regexp.Regexp
	samples bool
	keys    fingerprint.KeySet
}

func compileRules(rules []config.ExclusionRule) ([]exclusionRule, error) {
	compiled := make([]exclusionRule, 0, len(rules))
	for _, r := range rules {
		rule := exclusionRule{
			name:    r.Name,
			samples: r.ApplyToSamples,
			keys:    fingerprint.NewKeySet(r.Keys...),
		}
		if r.ExperimentPattern != "" {
			re, err := regexp.Compile(r.ExperimentPattern)
			if err != nil {
				return nil, fmt.Errorf("exclusion rule %q: %w", r.Name, err)
			}
			rule.pattern = re
		}
		compiled = append(compiled, rule)
	}
	return compiled, nil
}

// forExperiment returns the keys of every rule whose pattern matches name,
// plus extra
func forExperiment(rules []exclusionRule, name string, extra []string) fingerprint.KeySet {
	set := fingerprint.NewKeySet(extra...)
	for _, r := range rules {
		if r.pattern != nil && r.pattern.MatchString(name) {
			set = set.Union(r.keys)
		}
	}
	return set
}

// forSamples returns the keys of every rule applied to the
// cross-experiment analysis, plus extra
func forSamples(rules []exclusionRule, extra []string) fingerprint.KeySet {
	set := fingerprint.NewKeySet(extra...)
	for _, r := range rules {
		if r.samples {
			set = set.Union(r.keys)
		}
	}
	return set
}
