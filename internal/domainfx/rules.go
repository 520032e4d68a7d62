package domainfx

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/yurykabanov/logrotated/pkg/catalog"
	"github.com/yurykabanov/logrotated/pkg/rulefile"
)

const (
	ConfigRules          = "rules"
	ConfigRulesDirectory = "rules_directory"
)

// RuleSource merges rules from the config file with rules from the rules directory.
type RuleSource struct {
	v         *viper.Viper
	directory string
}

func NewRuleSource(v *viper.Viper) *RuleSource {
	return &RuleSource{
		v:         v,
		directory: v.GetString(ConfigRulesDirectory),
	}
}

func RuleSourceProvider(v *viper.Viper) catalog.RuleSource {
	return NewRuleSource(v)
}

func (s *RuleSource) Load() ([]catalog.NamedParams, error) {
	var rules []catalog.NamedParams

	err := s.v.UnmarshalKey(ConfigRules, &rules)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to unmarshal rules")
	}

	fromDirectory, err := rulefile.LoadDirectory(s.directory)
	if err != nil {
		return nil, err
	}

	return append(rules, fromDirectory...), nil
}
