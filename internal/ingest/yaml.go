package ingest

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ScenarioSpec is one scenario definition from a scenario file. Exactly one
// of Assignments (a wholesale block-to-ward map) or Overrides (reassignments
// applied on top of the resolved baseline) should be set.
type ScenarioSpec struct {
	Name        string            `yaml:"name"`
	Assignments map[string]string `yaml:"assignments,omitempty"`
	Overrides   map[string]string `yaml:"overrides,omitempty"`
}

type scenarioFile struct {
	Scenarios []ScenarioSpec `yaml:"scenarios"`
}

// ReadScenarios reads a scenario definition file.
func ReadScenarios(path string) ([]ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read scenarios %s", path)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "ingest: parse scenarios %s", path)
	}
	for i, s := range f.Scenarios {
		if s.Name == "" {
			return nil, eris.Errorf("ingest: scenario %d in %s has no name", i, path)
		}
		if len(s.Assignments) > 0 && len(s.Overrides) > 0 {
			return nil, eris.Errorf("ingest: scenario %q sets both assignments and overrides", s.Name)
		}
	}
	return f.Scenarios, nil
}

// ReadOverrides reads a manual override file: a flat block_id to ward map
// supplying final answers for blocks the resolver flagged.
func ReadOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read overrides %s", path)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrapf(err, "ingest: parse overrides %s", path)
	}
	return overrides, nil
}
