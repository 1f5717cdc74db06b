package i18n

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dictionary maps domain codes (tag names, stat abbreviations) to display labels.
type Dictionary interface {
	Lookup(code string) (string, bool)
}

// Map is a static Dictionary.
type Map map[string]string

// Lookup implements Dictionary.
func (m Map) Lookup(code string) (string, bool) {
	v, ok := m[code]
	return v, ok
}

// Label returns the label for code, or code itself when unmapped or mapped to "".
func Label(d Dictionary, code string) string {
	if d == nil {
		return code
	}
	if v, ok := d.Lookup(code); ok && v != "" {
		return v
	}
	return code
}

var defaultTags = Map{
	"Use Item":    "사용 아이템",
	"Untradeable": "거래불가",
	"Undroppable": "버리기",
}

var defaultStats = Map{
	"AP":               "공격력",
	"AC":               "명중률",
	"DA":               "감지력",
	"LK":               "행운",
	"HP":               "체력",
	"DP":               "방어력",
	"HV":               "회피력",
	"MA":               "마법력",
	"MD":               "마법방어",
	"MP":               "마나",
	"MP Recovery Rate": "마나 회복",
	"HP Recovery Rate": "체력 회복",
	"Wind Attribute":   "공기 속성",
}

// Labels groups the tag and stat dictionaries.
type Labels struct {
	Tags  Dictionary
	Stats Dictionary
}

// DefaultLabels returns copies of the built-in dictionaries.
func DefaultLabels() Labels {
	return Labels{Tags: clone(defaultTags), Stats: clone(defaultStats)}
}

type labelsFile struct {
	Tags  map[string]string `yaml:"tags"`
	Stats map[string]string `yaml:"stats"`
}

// LoadLabels merges the YAML overrides at path over the built-in dictionaries.
// An empty path returns the defaults.
func LoadLabels(path string) (Labels, error) {
	if path == "" {
		return DefaultLabels(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Labels{}, fmt.Errorf("read labels %s: %w", path, err)
	}
	return ParseLabels(raw)
}

// ParseLabels merges YAML overrides (top-level `tags` and `stats` maps) over the defaults.
func ParseLabels(raw []byte) (Labels, error) {
	var lf labelsFile
	if err := yaml.Unmarshal(raw, &lf); err != nil {
		return Labels{}, fmt.Errorf("unmarshal labels: %w", err)
	}
	tags := clone(defaultTags)
	for k, v := range lf.Tags {
		tags[k] = v
	}
	stats := clone(defaultStats)
	for k, v := range lf.Stats {
		stats[k] = v
	}
	return Labels{Tags: tags, Stats: stats}, nil
}

func clone(m Map) Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
