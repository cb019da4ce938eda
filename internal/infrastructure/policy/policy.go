package policy

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/rigup/assets"
	"github.com/doeshing/rigup/internal/domain"
	"github.com/doeshing/rigup/internal/pkg/filesystem"
	"github.com/doeshing/rigup/internal/ports"
)

// Policy escalates an operation's declared risk tier based on what
// the command line actually does. A call site may classify a mkfs
// invocation as Checked; the policy still treats it as Dangerous.
// The policy only ever raises a tier, never lowers it.
type Policy struct {
	patterns []compiledRule
}

type compiledRule struct {
	re   *regexp.Regexp
	rule TierRule
}

// TierRule describes a regex-based escalation rule.
type TierRule struct {
	Pattern string `yaml:"pattern"`
	Tier    string `yaml:"tier"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		TierRules []TierRule `yaml:"tier_rules"`
	} `yaml:"rules"`
}

// NewPolicy loads escalation rules from disk, falling back to the
// embedded defaults when the file is missing or empty.
func NewPolicy(path string) (*Policy, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	var compiled []compiledRule
	for _, rule := range rules.Rules.TierRules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{re: re, rule: rule})
	}

	return &Policy{patterns: compiled}, nil
}

// Classify implements ports.PolicyService.
func (p *Policy) Classify(commandLine string) (domain.PolicyDecision, error) {
	if p == nil {
		return domain.PolicyDecision{}, errors.New("policy nil")
	}
	decision := domain.PolicyDecision{Tier: domain.TierSafe}
	for _, rule := range p.patterns {
		if rule.re.MatchString(commandLine) {
			tier := parseTier(rule.rule.Tier)
			if tier.MoreSevere(decision.Tier) {
				decision.Tier = tier
			}
			decision.Reasons = append(decision.Reasons, rule.rule.Message)
			decision.MatchedRules = append(decision.MatchedRules, rule.rule.Pattern)
		}
	}
	return decision, nil
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	if path == "" {
		return embeddedRules()
	}
	data, err := os.ReadFile(filesystem.ExpandPath(path))
	if err != nil {
		return embeddedRules()
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, err
	}
	if len(rules.Rules.TierRules) == 0 {
		return embeddedRules()
	}
	return rules, nil
}

func embeddedRules() (RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(assets.DefaultPolicyYAML, &rules); err != nil {
		return RulesFile{}, err
	}
	return rules, nil
}

func parseTier(value string) domain.RiskTier {
	switch strings.ToLower(value) {
	case "checked":
		return domain.TierChecked
	case "dangerous":
		return domain.TierDangerous
	default:
		return domain.TierSafe
	}
}

var _ ports.PolicyService = (*Policy)(nil)
