package generate

import (
	"fmt"

	"github.com/hargabyte/agentsizer/internal/scenario"
)

// Benefit is one quantified benefit component.
type Benefit struct {
	Name    string  `yaml:"name" json:"name"`
	Monthly float64 `yaml:"monthly" json:"monthly"`
	Annual  float64 `yaml:"annual" json:"annual"`
	Basis   string  `yaml:"basis" json:"basis"`
}

// Projection is the cumulative position after a number of years.
type Projection struct {
	Years      int     `yaml:"years" json:"years"`
	Benefit    float64 `yaml:"benefit" json:"benefit"`
	Cost       float64 `yaml:"cost" json:"cost"`
	Net        float64 `yaml:"net" json:"net"`
	ROIPercent float64 `yaml:"roi_percent" json:"roi_percent"`
}

// ROIProjection is the return-on-investment section of the report.
type ROIProjection struct {
	Currency      string                      `yaml:"currency" json:"currency"`
	Assumptions   scenario.BenefitAssumptions `yaml:"assumptions" json:"assumptions"`
	Benefits      []Benefit                   `yaml:"benefits" json:"benefits"`
	AnnualBenefit float64                     `yaml:"annual_benefit" json:"annual_benefit"`
	OneTimeCost   float64                     `yaml:"one_time_cost" json:"one_time_cost"`
	MonthlyCost   float64                     `yaml:"monthly_cost" json:"monthly_cost"`
	FirstYearCost float64                     `yaml:"first_year_cost" json:"first_year_cost"`
	NetFirstYear  float64                     `yaml:"net_first_year" json:"net_first_year"`
	ROIPercent    float64                     `yaml:"roi_percent" json:"roi_percent"`

	// PaybackMonths is 0 when the monthly net cash flow is not positive.
	PaybackMonths float64      `yaml:"payback_months" json:"payback_months"`
	Projections   []Projection `yaml:"projections" json:"projections"`
}

// ProjectionYears are the horizons of the multi-year projection.
var ProjectionYears = []int{1, 3, 5}

// BuildROI quantifies time savings, error reduction and revenue uplift against
// the cost breakdown. A benefit component is skipped when any of its inputs is
// zero. Benefit assumptions fall back to the rule defaults only when the
// scenario captured none at all.
func BuildROI(in Input) *ROIProjection {
	a := in.Scenario.Benefits
	if a.IsZero() {
		a = in.Rules.DefaultBenefits
	}
	c := costs(in)

	r := &ROIProjection{
		Currency:    c.Currency,
		Assumptions: a,
		Benefits:    []Benefit{},
		OneTimeCost: c.TotalOneTime,
		MonthlyCost: c.TotalMonthly,
	}

	if a.TasksPerMonth > 0 && a.MinutesPerTask > 0 && a.AutomationRate > 0 && a.HourlyRate > 0 {
		hours := a.TasksPerMonth * a.MinutesPerTask / 60 * a.AutomationRate
		r.Benefits = append(r.Benefits, benefit("Time savings", hours*a.HourlyRate,
			fmt.Sprintf("%.1f hours/month at %.2f per hour", hours, a.HourlyRate)))
	}
	if a.ErrorsPerMonth > 0 && a.CostPerError > 0 && a.ErrorReductionRate > 0 {
		avoided := a.ErrorsPerMonth * a.ErrorReductionRate
		r.Benefits = append(r.Benefits, benefit("Error reduction", avoided*a.CostPerError,
			fmt.Sprintf("%.1f errors/month avoided at %.2f each", avoided, a.CostPerError)))
	}
	if a.AnnualRevenueBase > 0 && a.RevenueUpliftRate > 0 {
		r.Benefits = append(r.Benefits, benefit("Revenue uplift", a.AnnualRevenueBase*a.RevenueUpliftRate/12,
			fmt.Sprintf("%.1f%% uplift on %.2f annual revenue", a.RevenueUpliftRate*100, a.AnnualRevenueBase)))
	}

	// The total is the sum of the rounded rows so the table adds up.
	monthlyBenefit, annualBenefit := 0.0, 0.0
	for _, b := range r.Benefits {
		monthlyBenefit += b.Monthly
		annualBenefit += b.Annual
	}
	r.AnnualBenefit = roundMoney(annualBenefit)
	r.FirstYearCost = roundMoney(c.TotalOneTime + c.TotalMonthly*12)
	r.NetFirstYear = roundMoney(r.AnnualBenefit - r.FirstYearCost)
	r.ROIPercent = roiPercent(r.NetFirstYear, r.FirstYearCost)

	if netMonthly := monthlyBenefit - c.TotalMonthly; netMonthly > 0 {
		r.PaybackMonths = round1(c.TotalOneTime / netMonthly)
	}

	for _, years := range ProjectionYears {
		benefit := roundMoney(r.AnnualBenefit * float64(years))
		cost := roundMoney(c.TotalOneTime + c.TotalMonthly*12*float64(years))
		net := roundMoney(benefit - cost)
		r.Projections = append(r.Projections, Projection{
			Years:      years,
			Benefit:    benefit,
			Cost:       cost,
			Net:        net,
			ROIPercent: roiPercent(net, cost),
		})
	}

	return r
}

func benefit(name string, monthly float64, basis string) Benefit {
	return Benefit{
		Name:    name,
		Monthly: roundMoney(monthly),
		Annual:  roundMoney(monthly * 12),
		Basis:   basis,
	}
}

func roiPercent(net, cost float64) float64 {
	if cost == 0 {
		return 0
	}
	return round1(net / cost * 100)
}
