// Package project defines the persisted scraping-configuration shape
// produced from the engine's outputs: the confirmed listing selector,
// detail field definitions, and custom processor sources. The host
// owns the on-disk format; no schema versioning or migration is done
// here.
package project

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"

	"github.com/configsmith/engine/internal/extract"
	"github.com/configsmith/engine/internal/pipeline"
	"github.com/configsmith/engine/internal/scope"
	"github.com/configsmith/engine/internal/selector"
)

// Project is the root of a saved configuration.
type Project struct {
	Listing          Listing        `json:"listing"`
	Detail           Detail         `json:"detail"`
	CustomProcessors []ProcessorDef `json:"custom_processors"`
}

// Listing holds the confirmed repeating-item selector and the detector
// stats it was confirmed from.
type Listing struct {
	ItemSelector *selector.Spec `json:"item_selector,omitempty"`
	DetectorMeta *DetectorMeta  `json:"_detector_meta,omitempty"`
}

// DetectorMeta echoes the candidate stats at confirmation time.
type DetectorMeta struct {
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

// Detail groups the per-item field definitions.
type Detail struct {
	Fields []Field `json:"fields"`
}

// Field pins one value: where to look (scope), how to match (dual
// selector), what to pull (mode/attr), and how to transform it.
type Field struct {
	Name     string          `json:"name"`
	Selector selector.Spec   `json:"selector"`
	Scope    scope.Spec      `json:"scope"`
	Mode     extract.Mode    `json:"mode"`
	Attr     string          `json:"attr,omitempty"`
	Steps    []pipeline.Step `json:"processors,omitempty"`
}

// ProcessorDef is a named custom processor script.
type ProcessorDef struct {
	Name   string `json:"name" yaml:"name"`
	Source string `json:"source" yaml:"source"`
}

// New returns an empty project with non-nil slices, matching the shape
// the builder UI starts from.
func New() *Project {
	return &Project{
		Detail:           Detail{Fields: []Field{}},
		CustomProcessors: []ProcessorDef{},
	}
}

// Save writes the project as indented JSON.
func Save(path string, p *Project) error {
	data, err := sonic.ConfigDefault.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// Load reads a project from disk.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := sonic.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	return &p, nil
}

// Manifest is a YAML list of custom processor scripts, loaded by the
// host for dev-mode runs.
type Manifest struct {
	Processors []ProcessorDef `yaml:"processors"`
}

// LoadManifest parses a processor manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// BuildRegistry compiles the manifest's scripts into a processor
// registry. A script that fails to compile is reported, not skipped.
func (m *Manifest) BuildRegistry() (*pipeline.Registry, error) {
	reg := pipeline.NewRegistry()
	for _, def := range m.Processors {
		if err := reg.RegisterScript(def.Name, def.Source); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
