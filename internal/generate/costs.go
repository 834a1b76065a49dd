package generate

import (
	"fmt"

	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
)

// Cost categories.
const (
	CostOneTime = "one_time"
	CostMonthly = "monthly"
)

// LineItem is one cost driver.
type LineItem struct {
	Category    string  `yaml:"category" json:"category"`
	Name        string  `yaml:"name" json:"name"`
	Quantity    float64 `yaml:"quantity" json:"quantity"`
	Unit        string  `yaml:"unit" json:"unit"`
	UnitCost    float64 `yaml:"unit_cost" json:"unit_cost"`
	Amount      float64 `yaml:"amount" json:"amount"`
	Explanation string  `yaml:"explanation" json:"explanation"`
}

// CostBreakdown is the cost section of the report.
type CostBreakdown struct {
	Currency     string                   `yaml:"currency" json:"currency"`
	Assumptions  scenario.CostAssumptions `yaml:"assumptions" json:"assumptions"`
	AgentCount   int                      `yaml:"agent_count" json:"agent_count"`
	OneTime      []LineItem               `yaml:"one_time" json:"one_time"`
	Monthly      []LineItem               `yaml:"monthly" json:"monthly"`
	TotalOneTime float64                  `yaml:"total_one_time" json:"total_one_time"`
	TotalMonthly float64                  `yaml:"total_monthly" json:"total_monthly"`

	// TotalAnnual is the first-year cost: one-time plus twelve months.
	TotalAnnual float64 `yaml:"total_annual" json:"total_annual"`
}

// BuildCosts computes one-time and monthly line items from the scenario's cost
// assumptions merged field-wise over the rule defaults.
func BuildCosts(in Input) *CostBreakdown {
	c := costs(in)
	return &c
}

func costs(in Input) CostBreakdown {
	a := rules.MergeCosts(in.Scenario.Costs, in.Rules.DefaultCosts)
	agents := in.Sizing.TotalAgents()
	users := float64(a.Users)

	messages := users * a.MessagesPerUserMonthly
	overage := max(messages-a.IncludedMessagesMonthly, 0)

	b := CostBreakdown{
		Currency:    a.Currency,
		Assumptions: a,
		AgentCount:  agents,
		OneTime: []LineItem{
			item(CostOneTime, "Platform setup", 1, "setup", a.SetupOneTime,
				"Environments, security baseline and ALM pipeline"),
			item(CostOneTime, "Agent build", float64(agents), "agent", a.BuildCostPerAgent,
				fmt.Sprintf("%d recommended agents", agents)),
		},
		Monthly: []LineItem{
			item(CostMonthly, "User licensing", users, "user", a.LicensePerUserMonthly,
				fmt.Sprintf("%d licensed users", a.Users)),
			item(CostMonthly, "Tenant licensing", 1, "tenant", a.TenantLicenseMonthly,
				"Tenant-wide capacity"),
			item(CostMonthly, "Message overage", overage, "message", a.OverageRatePerMessage,
				fmt.Sprintf("%.0f messages beyond %.0f included", overage, a.IncludedMessagesMonthly)),
			item(CostMonthly, "Agent compute", float64(agents), "agent", a.ComputePerAgentMonthly,
				"Hosting and model consumption per agent"),
			item(CostMonthly, "Knowledge storage", a.StorageGB, "GB", a.StorageRatePerGBMonthly,
				"Indexed grounding content"),
		},
	}

	for _, li := range b.OneTime {
		b.TotalOneTime += li.Amount
	}
	for _, li := range b.Monthly {
		b.TotalMonthly += li.Amount
	}
	b.TotalOneTime = roundMoney(b.TotalOneTime)
	b.TotalMonthly = roundMoney(b.TotalMonthly)
	b.TotalAnnual = roundMoney(b.TotalOneTime + b.TotalMonthly*12)
	return b
}

func item(category, name string, qty float64, unit string, unitCost float64, explanation string) LineItem {
	return LineItem{
		Category:    category,
		Name:        name,
		Quantity:    qty,
		Unit:        unit,
		UnitCost:    unitCost,
		Amount:      roundMoney(qty * unitCost),
		Explanation: explanation,
	}
}
