package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ColumnMapping adds candidate column names per field. Extra candidates are
// tried after the built-in ones.
type ColumnMapping struct {
	Columns map[Field][]string `yaml:"columns"`
}

// LoadColumnMapping reads a mapping from a YAML file.
func LoadColumnMapping(path string) (ColumnMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ColumnMapping{}, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var m ColumnMapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return ColumnMapping{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for field := range m.Columns {
		if !field.valid() {
			return ColumnMapping{}, fmt.Errorf("unknown field %q in mapping", field)
		}
	}
	return m, nil
}

// extend returns a copy of rules with the mapping's candidates appended.
func (m ColumnMapping) extend(rules []fieldRule) []fieldRule {
	out := make([]fieldRule, len(rules))
	for i, rule := range rules {
		extra := m.Columns[rule.Field]
		candidates := make([]string, 0, len(rule.Candidates)+len(extra))
		candidates = append(candidates, rule.Candidates...)
		candidates = append(candidates, extra...)
		rule.Candidates = candidates
		out[i] = rule
	}
	return out
}

func (f Field) valid() bool {
	switch f {
	case FieldID, FieldDate, FieldVendor, FieldAmount, FieldGST, FieldType:
		return true
	}
	return false
}
