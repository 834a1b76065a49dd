package scenario

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFinite is returned when an assumption is NaN or infinite.
var ErrNonFinite = errors.New("non-finite value")

// assumptionFields lists every float assumption with its field path.
func (s *Scenario) assumptionFields() []struct {
	field string
	value float64
} {
	c, b := s.Costs, s.Benefits
	return []struct {
		field string
		value float64
	}{
		{"costs.license_per_user_monthly", c.LicensePerUserMonthly},
		{"costs.tenant_license_monthly", c.TenantLicenseMonthly},
		{"costs.messages_per_user_monthly", c.MessagesPerUserMonthly},
		{"costs.included_messages_monthly", c.IncludedMessagesMonthly},
		{"costs.overage_rate_per_message", c.OverageRatePerMessage},
		{"costs.compute_per_agent_monthly", c.ComputePerAgentMonthly},
		{"costs.storage_gb", c.StorageGB},
		{"costs.storage_rate_per_gb_monthly", c.StorageRatePerGBMonthly},
		{"costs.build_cost_per_agent", c.BuildCostPerAgent},
		{"costs.setup_one_time", c.SetupOneTime},
		{"benefits.tasks_per_month", b.TasksPerMonth},
		{"benefits.minutes_per_task", b.MinutesPerTask},
		{"benefits.automation_rate", b.AutomationRate},
		{"benefits.hourly_rate", b.HourlyRate},
		{"benefits.errors_per_month", b.ErrorsPerMonth},
		{"benefits.cost_per_error", b.CostPerError},
		{"benefits.error_reduction_rate", b.ErrorReductionRate},
		{"benefits.annual_revenue_base", b.AnnualRevenueBase},
		{"benefits.revenue_uplift_rate", b.RevenueUpliftRate},
	}
}

// CheckFinite returns an error wrapping ErrNonFinite naming the first NaN or
// infinite assumption.
func CheckFinite(s Scenario) error {
	for _, f := range s.assumptionFields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is %v", ErrNonFinite, f.field, f.value)
		}
	}
	return nil
}
