package policy

import (
	"os"

	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

type filePolicy struct {
	ID        types.PolicyID  `yaml:"id"`
	Name      string          `yaml:"name"`
	RuleID    types.RuleID    `yaml:"rule_id"`
	AlertType types.AlertType `yaml:"alert_type"`
	Enabled   *bool           `yaml:"enabled"`
	Levels    []Level         `yaml:"levels"`
}

type policyFile struct {
	Policies []filePolicy `yaml:"policies"`
}

// LoadFile reads template policies from a YAML file. Policies without an ID
// get one assigned, and Enabled defaults to true when omitted.
func LoadFile(path string) (Policies, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", path))
	}

	var f policyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse policy file", goerr.V("path", path))
	}

	policies := make(Policies, 0, len(f.Policies))
	for _, fp := range f.Policies {
		p := &Policy{
			ID:        fp.ID,
			Name:      fp.Name,
			RuleID:    fp.RuleID,
			AlertType: fp.AlertType,
			Enabled:   fp.Enabled == nil || *fp.Enabled,
			Levels:    fp.Levels,
		}
		if p.ID == types.EmptyPolicyID {
			p.ID = types.NewPolicyID()
		}
		if err := p.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid policy in file", goerr.V("path", path))
		}
		policies = append(policies, p)
	}

	return policies, nil
}
