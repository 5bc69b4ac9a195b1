package permission

import (
	"os"

	"github.com/goccy/go-yaml"
)

// LoadPolicy reads a permission policy file (SPEC_FULL.md §A's
// `--permissions <file>` CLI flag). Missing policy/allow/ask/deny fields
// default to PolicyDeny and empty rule lists, matching the original's
// `#[serde(default)]` fields.
func LoadPolicy(path string) (*Permissions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p := None()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if p.Policy == "" {
		p.Policy = PolicyDeny
	}
	return p, nil
}
