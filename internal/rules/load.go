package rules

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hargabyte/agentsizer/internal/scenario"
)

// FileName is the conventional rules file name inside the config directory.
const FileName = "rules.yaml"

// ErrInvalidRules is returned when rules validation fails.
var ErrInvalidRules = errors.New("invalid rules")

// LoadFromPath reads rules from a YAML file, merges them over the defaults and
// validates the result. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML rules, merges them over the defaults and validates them.
func Parse(data []byte) (*Config, error) {
	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}

	merged := Merge(loaded, Default())
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Merge merges loaded rules with defaults. Non-empty tables in loaded replace
// the default table wholesale; zero scalar fields take the default value.
// Benefit assumptions are replaced only when loaded has none at all.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Version = pick(loaded.Version, defaults.Version)
	result.SizeBands = pickSlice(loaded.SizeBands, defaults.SizeBands)
	result.AgentTypes = pickSlice(loaded.AgentTypes, defaults.AgentTypes)
	result.ArchetypeRules = pickSlice(loaded.ArchetypeRules, defaults.ArchetypeRules)
	result.RiskRules = pickSlice(loaded.RiskRules, defaults.RiskRules)
	result.ImpactLevels = pickSlice(loaded.ImpactLevels, defaults.ImpactLevels)
	result.GovernanceRules = pickSlice(loaded.GovernanceRules, defaults.GovernanceRules)
	result.Connectors = pickSlice(loaded.Connectors, defaults.Connectors)
	result.Roadmap = pickSlice(loaded.Roadmap, defaults.Roadmap)
	result.Glossary = pickSlice(loaded.Glossary, defaults.Glossary)

	if loaded.GenericConnector.ID != "" {
		result.GenericConnector = loaded.GenericConnector
	} else {
		result.GenericConnector = defaults.GenericConnector
	}

	result.DefaultCosts = MergeCosts(loaded.DefaultCosts, defaults.DefaultCosts)
	if loaded.DefaultBenefits.IsZero() {
		result.DefaultBenefits = defaults.DefaultBenefits
	} else {
		result.DefaultBenefits = loaded.DefaultBenefits
	}

	result.Delivery = mergeDelivery(loaded.Delivery, defaults.Delivery)
	result.Templates = mergeTemplates(loaded.Templates, defaults.Templates)

	// Disabled sections are opt-in; there is nothing to default.
	result.Report = loaded.Report

	return result
}

// Complete returns cfg with every missing table and zero field filled from
// Default. A nil cfg yields the defaults.
func Complete(cfg *Config) *Config {
	if cfg == nil {
		return Default()
	}
	return Merge(cfg, Default())
}

func mergeDelivery(loaded, defaults DeliveryConfig) DeliveryConfig {
	return DeliveryConfig{
		SprintLengthWeeks:   pick(loaded.SprintLengthWeeks, defaults.SprintLengthWeeks),
		HoursPerWeek:        pick(loaded.HoursPerWeek, defaults.HoursPerWeek),
		FoundationSprints:   pick(loaded.FoundationSprints, defaults.FoundationSprints),
		HardenSprints:       pick(loaded.HardenSprints, defaults.HardenSprints),
		HighRiskHardenExtra: pick(loaded.HighRiskHardenExtra, defaults.HighRiskHardenExtra),
		DefaultAgentSprints: pick(loaded.DefaultAgentSprints, defaults.DefaultAgentSprints),
		AgentSprints:        pickSlice(loaded.AgentSprints, defaults.AgentSprints),
		Roles:               pickSlice(loaded.Roles, defaults.Roles),
	}
}

func mergeTemplates(loaded, defaults TemplateConfig) TemplateConfig {
	return TemplateConfig{
		Blueprints: pickSlice(loaded.Blueprints, defaults.Blueprints),
		Topics:     pickSlice(loaded.Topics, defaults.Topics),
		Prompt:     pick(loaded.Prompt, defaults.Prompt),
		Maturity:   pickSlice(loaded.Maturity, defaults.Maturity),
	}
}

func pick[T comparable](loaded, def T) T {
	var zero T
	if loaded != zero {
		return loaded
	}
	return def
}

func pickSlice[T any](loaded, def []T) []T {
	if len(loaded) > 0 {
		return loaded
	}
	return def
}

// Validate checks that the rules are internally consistent.
func Validate(cfg *Config) error {
	if len(cfg.SizeBands) == 0 {
		return fmt.Errorf("%w: at least one size band is required", ErrInvalidRules)
	}
	prev := 0
	for i, b := range cfg.SizeBands {
		if b.Size == "" {
			return fmt.Errorf("%w: size_bands[%d] has no size", ErrInvalidRules, i)
		}
		if i > 0 && b.Max <= prev {
			return fmt.Errorf("%w: size_bands must be ascending and non-overlapping, %s max %d <= %d",
				ErrInvalidRules, b.Size, b.Max, prev)
		}
		if b.AgentMultiplier < 0 {
			return fmt.Errorf("%w: size_bands[%d] agent_multiplier must be non-negative, got %d",
				ErrInvalidRules, i, b.AgentMultiplier)
		}
		if b.Tracks < 1 {
			return fmt.Errorf("%w: size_bands[%d] tracks must be at least 1, got %d", ErrInvalidRules, i, b.Tracks)
		}
		prev = b.Max
	}

	for i, r := range cfg.ArchetypeRules {
		if !r.Op.IsValid() {
			return fmt.Errorf("%w: archetype_rules[%d] has unknown op %q", ErrInvalidRules, i, r.Op)
		}
		if r.AgentType == "" {
			return fmt.Errorf("%w: archetype_rules[%d] has no agent_type", ErrInvalidRules, i)
		}
	}

	for i, r := range cfg.RiskRules {
		if !r.Op.IsValid() {
			return fmt.Errorf("%w: risk_rules[%d] has unknown op %q", ErrInvalidRules, i, r.Op)
		}
		if r.Level.Rank() == 0 {
			return fmt.Errorf("%w: risk_rules[%d] has unknown level %q", ErrInvalidRules, i, r.Level)
		}
	}

	for i, r := range cfg.GovernanceRules {
		if r.Kind != KindControl && r.Kind != KindCheckpoint {
			return fmt.Errorf("%w: governance_rules[%d] has unknown kind %q", ErrInvalidRules, i, r.Kind)
		}
		if r.MinRisk != "" && r.MinRisk.Rank() == 0 {
			return fmt.Errorf("%w: governance_rules[%d] has unknown min_risk %q", ErrInvalidRules, i, r.MinRisk)
		}
		if !r.Op.IsValid() {
			return fmt.Errorf("%w: governance_rules[%d] has unknown op %q", ErrInvalidRules, i, r.Op)
		}
	}

	for i, c := range cfg.Connectors {
		if c.ID == "" || len(c.Keywords) == 0 {
			return fmt.Errorf("%w: connectors[%d] needs an id and at least one keyword", ErrInvalidRules, i)
		}
	}

	for i, in := range cfg.Roadmap {
		if in.Horizon.Rank() > 3 {
			return fmt.Errorf("%w: roadmap[%d] has unknown horizon %q", ErrInvalidRules, i, in.Horizon)
		}
		for j, g := range in.Gates {
			if !g.Op.IsValid() {
				return fmt.Errorf("%w: roadmap[%d].gates[%d] has unknown op %q", ErrInvalidRules, i, j, g.Op)
			}
		}
	}

	if cfg.Delivery.SprintLengthWeeks < 1 {
		return fmt.Errorf("%w: delivery.sprint_length_weeks must be positive, got %d",
			ErrInvalidRules, cfg.Delivery.SprintLengthWeeks)
	}

	return nil
}

// Save writes cfg to path as YAML with a header comment.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	header := "# agentsizer rules: thresholds, rule tables and templates.\n# Tables listed here replace the built-in table of the same name.\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing rules file: %w", err)
	}
	return nil
}

// MergeCosts fills zero fields of loaded with the matching default.
func MergeCosts(loaded, defaults scenario.CostAssumptions) scenario.CostAssumptions {
	return scenario.CostAssumptions{
		Currency:                pick(loaded.Currency, defaults.Currency),
		Users:                   pick(loaded.Users, defaults.Users),
		LicensePerUserMonthly:   pick(loaded.LicensePerUserMonthly, defaults.LicensePerUserMonthly),
		TenantLicenseMonthly:    pick(loaded.TenantLicenseMonthly, defaults.TenantLicenseMonthly),
		MessagesPerUserMonthly:  pick(loaded.MessagesPerUserMonthly, defaults.MessagesPerUserMonthly),
		IncludedMessagesMonthly: pick(loaded.IncludedMessagesMonthly, defaults.IncludedMessagesMonthly),
		OverageRatePerMessage:   pick(loaded.OverageRatePerMessage, defaults.OverageRatePerMessage),
		ComputePerAgentMonthly:  pick(loaded.ComputePerAgentMonthly, defaults.ComputePerAgentMonthly),
		StorageGB:               pick(loaded.StorageGB, defaults.StorageGB),
		StorageRatePerGBMonthly: pick(loaded.StorageRatePerGBMonthly, defaults.StorageRatePerGBMonthly),
		BuildCostPerAgent:       pick(loaded.BuildCostPerAgent, defaults.BuildCostPerAgent),
		SetupOneTime:            pick(loaded.SetupOneTime, defaults.SetupOneTime),
	}
}
