package demoserver

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/phishview/internal/model"
)

//go:embed fixtures.yaml
var builtinFixtures []byte

// Risk level names, derived from probability when a fixture omits one.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// phishingThreshold is the probability at or above which is_phishing is
// derived as true.
const phishingThreshold = 50

// RiskLevelFor buckets a percentage probability: Low below 20, Medium below
// 60, High otherwise.
func RiskLevelFor(p float64) string {
	switch {
	case p < 20:
		return RiskLow
	case p < 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Duration is a time.Duration written as "750ms" in both YAML and JSON, so
// a listed fixture can be posted back unchanged. Bare integers are read as
// nanoseconds.
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var ns int64
		if err := json.Unmarshal(b, &ns); err != nil {
			return fmt.Errorf("duration must be a string or nanoseconds: %s", b)
		}
		*d = Duration(ns)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	if node.Tag == "!!int" {
		var ns int64
		if err := node.Decode(&ns); err != nil {
			return err
		}
		*d = Duration(ns)
		return nil
	}
	v, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// FeatureValue is one ordered feature entry.
type FeatureValue struct {
	Name  string `yaml:"name" json:"name"`
	Value any    `yaml:"value" json:"value"`
}

// ThreatFixture mirrors model.Threat for YAML.
type ThreatFixture struct {
	ThreatType      string `yaml:"threat_type" json:"threat_type"`
	PlatformType    string `yaml:"platform_type" json:"platform_type"`
	ThreatEntryType string `yaml:"threat_entry_type" json:"threat_entry_type,omitempty"`
}

// SafeBrowsingFixture mirrors model.SafeBrowsing for YAML.
type SafeBrowsingFixture struct {
	IsSafe  bool            `yaml:"is_safe" json:"is_safe"`
	Threats []ThreatFixture `yaml:"threats" json:"threats"`
}

// Fixture is a canned verdict for one URL.
type Fixture struct {
	URL          string              `yaml:"url" json:"url"`
	Probability  float64             `yaml:"probability" json:"probability"`
	RiskLevel    string              `yaml:"risk_level" json:"risk_level,omitempty"`
	IsPhishing   *bool               `yaml:"is_phishing" json:"is_phishing,omitempty"`
	Latency      Duration            `yaml:"latency" json:"latency,omitempty"`
	SafeBrowsing SafeBrowsingFixture `yaml:"safe_browsing" json:"safe_browsing"`
	Features     []FeatureValue      `yaml:"features" json:"features"`
}

// FixtureSet is the parsed fixture file.
type FixtureSet struct {
	Default  Fixture   `yaml:"default" json:"default"`
	Fixtures []Fixture `yaml:"fixtures" json:"fixtures"`
}

// Result builds the verdict served for url.
func (f Fixture) Result(url string) *model.Result {
	level := f.RiskLevel
	if level == "" {
		level = RiskLevelFor(f.Probability)
	}
	phishing := f.Probability >= phishingThreshold
	if f.IsPhishing != nil {
		phishing = *f.IsPhishing
	}

	threats := make([]model.Threat, 0, len(f.SafeBrowsing.Threats))
	for _, t := range f.SafeBrowsing.Threats {
		threats = append(threats, model.Threat{
			ThreatType:      t.ThreatType,
			PlatformType:    t.PlatformType,
			ThreatEntryType: t.ThreatEntryType,
		})
	}

	features := make(model.Features, 0, len(f.Features))
	for _, fv := range f.Features {
		features.Set(fv.Name, fv.Value)
	}

	return &model.Result{
		URL:          url,
		Probability:  f.Probability,
		RiskLevel:    level,
		IsPhishing:   phishing,
		SafeBrowsing: model.SafeBrowsing{IsSafe: f.SafeBrowsing.IsSafe, Threats: threats},
		Features:     features,
	}
}

func (f Fixture) validate() error {
	if f.Probability < 0 || f.Probability > 100 {
		return fmt.Errorf("probability %v outside [0,100]", f.Probability)
	}
	if f.Latency < 0 {
		return fmt.Errorf("negative latency %s", f.Latency)
	}
	for i, fv := range f.Features {
		if strings.TrimSpace(fv.Name) == "" {
			return fmt.Errorf("feature %d has no name", i)
		}
		switch fv.Value.(type) {
		case nil, string, bool, int, int64, uint64, float64:
		default:
			return fmt.Errorf("feature %q has non-scalar value", fv.Name)
		}
	}
	return nil
}

// ParseFixtures decodes and validates a fixture document.
func ParseFixtures(data []byte) (*FixtureSet, error) {
	var set FixtureSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing fixtures: %w", err)
	}
	if err := set.Default.validate(); err != nil {
		return nil, fmt.Errorf("default fixture: %w", err)
	}
	seen := make(map[string]bool, len(set.Fixtures))
	for i, f := range set.Fixtures {
		if strings.TrimSpace(f.URL) == "" {
			return nil, fmt.Errorf("fixture %d has no url", i)
		}
		if seen[f.URL] {
			return nil, fmt.Errorf("duplicate fixture for %s", f.URL)
		}
		seen[f.URL] = true
		if err := f.validate(); err != nil {
			return nil, fmt.Errorf("fixture %s: %w", f.URL, err)
		}
	}
	return &set, nil
}

// LoadFixtures reads path, or the built-in set when path is empty.
func LoadFixtures(path string) (*FixtureSet, error) {
	if path == "" {
		return ParseFixtures(builtinFixtures)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}
	return ParseFixtures(data)
}
