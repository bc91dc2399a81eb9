package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleSpec is the on-disk form of a rule.
//
// A rule with a pattern becomes a PatternRule; a rule with keywords becomes a
// KeywordRule. Subject picks the form a pattern sees: "normalized" (lower
// case, accent-free, final sigma folded to σ), "unaccented" (accent-free,
// case kept) or empty for the raw line. Normalized: true is shorthand for
// subject "normalized".
type RuleSpec struct {
	Name        string   `yaml:"name" json:"name"`
	Kind        RuleKind `yaml:"kind" json:"kind"`
	Pattern     string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Subject     Subject  `yaml:"subject,omitempty" json:"subject,omitempty"`
	Normalized  bool     `yaml:"normalized,omitempty" json:"normalized,omitempty"`
	NumberGroup int      `yaml:"number_group,omitempty" json:"number_group,omitempty"`
	TitleGroup  int      `yaml:"title_group,omitempty" json:"title_group,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
}

// RuleFile is a YAML document holding extra extraction rules.
type RuleFile struct {
	Version string     `yaml:"version" json:"version"`
	Rules   []RuleSpec `yaml:"rules" json:"rules"`
}

// Build compiles the entry into a Rule.
func (s RuleSpec) Build() (Rule, error) {
	switch {
	case s.Pattern != "" && len(s.Keywords) > 0:
		return nil, fmt.Errorf("rule %q: set either pattern or keywords, not both", s.Name)
	case s.Pattern != "":
		subject := s.Subject
		if s.Normalized {
			if subject != SubjectRaw && subject != SubjectNormalized {
				return nil, fmt.Errorf("rule %q: normalized conflicts with subject %q", s.Name, subject)
			}
			subject = SubjectNormalized
		}
		return NewPatternRule(s.Name, s.Kind, s.Pattern, subject, s.NumberGroup, s.TitleGroup)
	case len(s.Keywords) > 0:
		return NewKeywordRule(s.Name, s.Kind, s.Keywords...)
	default:
		return nil, fmt.Errorf("rule %q: pattern or keywords required", s.Name)
	}
}

// ParseRules decodes a YAML rule file and compiles every rule.
func ParseRules(data []byte) ([]Rule, error) {
	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}

	seen := make(map[string]bool, len(file.Rules))
	rules := make([]Rule, 0, len(file.Rules))
	for i, rs := range file.Rules {
		if seen[rs.Name] {
			return nil, fmt.Errorf("rule %d: duplicate name %q", i, rs.Name)
		}
		seen[rs.Name] = true

		rule, err := rs.Build()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadRuleFile reads and compiles the rules in a YAML file.
func LoadRuleFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	return ParseRules(data)
}
