// Package rules loads optional domain-specific rules injected into every
// synthesis and review prompt. Rules override ambiguous user wording:
// mandatory column mappings and keyword-to-join associations.
package rules

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordRule forces a join when the user's question mentions a keyword.
type KeywordRule struct {
	IfUserMentions []string `yaml:"if_user_mentions" json:"if_user_mentions"`
	Join           string   `yaml:"join" json:"join"`
}

// Rules are the domain-specific rules for one deployment.
type Rules struct {
	ColumnMappings map[string]string `yaml:"column_mappings" json:"column_mappings,omitempty"`
	KeywordRules   []KeywordRule     `yaml:"keyword_mapping_rules" json:"keyword_mapping_rules,omitempty"`
}

// Load reads rules from a YAML file. An empty path yields empty rules; a
// missing or malformed file is a hard setup failure.
func Load(path string) (*Rules, error) {
	if path == "" {
		return &Rules{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read domain rules: %w", err)
	}

	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse domain rules %s: %w", path, err)
	}
	return &r, nil
}

// Empty reports whether no rules are configured.
func (r *Rules) Empty() bool {
	return r == nil || (len(r.ColumnMappings) == 0 && len(r.KeywordRules) == 0)
}

// PromptText renders the rules for prompt injection. The prompts treat the
// literal "None" as "no domain rules apply".
func (r *Rules) PromptText() string {
	if r.Empty() {
		return "None"
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "None"
	}
	return string(data)
}
