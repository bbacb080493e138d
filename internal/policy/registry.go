// Package policy loads the regulatory policy document that drives the
// pipeline: regulations in force, access policies, quality rules, catalog
// assets, and transform steps. The registry is loaded once at setup and
// read-only afterwards.
//
// Normalization lives here, per the validator's contract: by the time rules
// reach the quality engine they are already in shape. Unknown quality rule
// types are deliberately kept — the engine skips them — while transform
// steps are validated strictly at load.
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"datagov/internal/access"
	"datagov/internal/catalog"
	"datagov/internal/quality"
	"datagov/internal/transform"
	dErrors "datagov/pkg/domain-errors"
)

// Regulation describes one regulation in force, for the audit log header.
type Regulation struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Controls    []string `yaml:"controls" json:"controls,omitempty"`
}

// Document is the parsed policy file.
type Document struct {
	Regulations    map[string]Regulation `yaml:"regulations"`
	AccessPolicies []access.Policy       `yaml:"access_policies"`
	QualityRules   quality.RuleSet       `yaml:"quality_rules"`
	Catalog        []catalog.Asset       `yaml:"catalog"`
	Transforms     []transform.Step      `yaml:"transforms"`
}

// Registry holds the loaded policy document.
type Registry struct {
	doc Document
}

// Load reads and parses the policy document at path.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy document: %w", err)
	}
	return Parse(raw)
}

// Parse builds a registry from raw YAML.
func Parse(raw []byte) (*Registry, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfig, "policy document does not parse")
	}
	for _, step := range doc.Transforms {
		if err := step.Validate(); err != nil {
			return nil, err
		}
	}
	return &Registry{doc: doc}, nil
}

// Regulations returns the regulations section.
func (r *Registry) Regulations() map[string]Regulation {
	return r.doc.Regulations
}

// AccessPolicies returns the access policies in declaration order.
func (r *Registry) AccessPolicies() []access.Policy {
	return r.doc.AccessPolicies
}

// QualityRules returns the per-dataset quality rules.
func (r *Registry) QualityRules() quality.RuleSet {
	return r.doc.QualityRules
}

// Catalog returns the declared catalog assets in declaration order.
func (r *Registry) Catalog() []catalog.Asset {
	return r.doc.Catalog
}

// Transforms returns the transform steps in declaration order.
func (r *Registry) Transforms() []transform.Step {
	return r.doc.Transforms
}
