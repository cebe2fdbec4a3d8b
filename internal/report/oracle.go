// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-sorter/pkg/types"
)

// Oracle maps a filename to its hand-assigned label. The label is the leaf
// folder the file should end up in (a subcategory, a category, or the
// fallback bucket).
type Oracle map[string]string

type oracleFile struct {
	Labels map[string]string `yaml:"labels"`
}

// LoadOracle reads a YAML file of the form
//
//	labels:
//	  python_basics.pdf: Python
//	  holiday.pdf: Others
func LoadOracle(path string) (Oracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading oracle %s: %w", path, err)
	}
	var f oracleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing oracle %s: %w", path, err)
	}
	if f.Labels == nil {
		return Oracle{}, nil
	}
	return Oracle(f.Labels), nil
}

// Apply returns copies of the records the oracle covers, with Expected
// replaced by the oracle's label. Records without an oracle entry are
// dropped.
func (o Oracle) Apply(records []types.Placement) []types.Placement {
	out := make([]types.Placement, 0, len(records))
	for _, r := range records {
		label, ok := o[r.Filename]
		if !ok {
			continue
		}
		r.Expected = label
		out = append(out, r)
	}
	return out
}
