package generate

import (
	"fmt"

	"github.com/hargabyte/agentsizer/internal/rules"
)

// Delivery phase names.
const (
	PhaseFoundation = "Foundation"
	PhaseBuild      = "Build & Integrate"
	PhaseHarden     = "Harden & Deploy"
)

// BuildTask is the build of one agent instance on a delivery track.
type BuildTask struct {
	ID          string          `yaml:"id" json:"id"`
	AgentType   rules.AgentType `yaml:"agent_type" json:"agent_type"`
	Instance    int             `yaml:"instance" json:"instance"`
	Sprints     int             `yaml:"sprints" json:"sprints"`
	Track       int             `yaml:"track" json:"track"`
	StartSprint int             `yaml:"start_sprint" json:"start_sprint"`
	EndSprint   int             `yaml:"end_sprint" json:"end_sprint"`
}

// Phase is one delivery phase. Sprints are numbered from 1.
type Phase struct {
	Name        string   `yaml:"name" json:"name"`
	StartSprint int      `yaml:"start_sprint" json:"start_sprint"`
	EndSprint   int      `yaml:"end_sprint" json:"end_sprint"`
	Activities  []string `yaml:"activities" json:"activities"`
}

// Sprints returns the phase length.
func (p Phase) Sprints() int {
	return p.EndSprint - p.StartSprint + 1
}

// RoleEstimate is the effort and cost of one delivery role.
type RoleEstimate struct {
	Role       string  `yaml:"role" json:"role"`
	Headcount  float64 `yaml:"headcount" json:"headcount"`
	Allocation float64 `yaml:"allocation" json:"allocation"`
	Hours      float64 `yaml:"hours" json:"hours"`
	Rate       float64 `yaml:"rate" json:"rate"`
	Cost       float64 `yaml:"cost" json:"cost"`
}

// DeliveryPlan is the delivery section of the report.
type DeliveryPlan struct {
	SprintLengthWeeks int            `yaml:"sprint_length_weeks" json:"sprint_length_weeks"`
	Tracks            int            `yaml:"tracks" json:"tracks"`
	Phases            []Phase        `yaml:"phases" json:"phases"`
	Tasks             []BuildTask    `yaml:"tasks" json:"tasks"`
	TotalSprints      int            `yaml:"total_sprints" json:"total_sprints"`
	TotalWeeks        int            `yaml:"total_weeks" json:"total_weeks"`
	Resources         []RoleEstimate `yaml:"resources" json:"resources"`
	TotalHours        float64        `yaml:"total_hours" json:"total_hours"`
	TotalCost         float64        `yaml:"total_cost" json:"total_cost"`
}

// BuildDelivery schedules the agent builds across parallel tracks and lays out
// the phases and resource estimate.
//
// Builds are assigned greedily, in declared agent order, to the least-loaded
// track; ties go to the lowest track index. Each phase starts the sprint after
// the previous one ends.
func BuildDelivery(in Input) *DeliveryPlan {
	dc := in.Rules.Delivery
	sprintWeeks := max(dc.SprintLengthWeeks, 1)
	tracks := max(in.Sizing.Tracks, 1)

	foundation := max(dc.FoundationSprints, 1)
	harden := max(dc.HardenSprints, 1)
	if in.Risk.Level == rules.RiskHigh {
		harden += dc.HighRiskHardenExtra
	}

	buildStart := foundation + 1
	load := make([]int, tracks)
	tasks := []BuildTask{}

	for _, need := range in.Sizing.NonOptional() {
		sprints := in.Rules.SprintsFor(need.AgentType)
		for n := 1; n <= in.Sizing.CountFor(need.AgentType); n++ {
			track := leastLoaded(load)
			start := buildStart + load[track]
			tasks = append(tasks, BuildTask{
				ID:          fmt.Sprintf("%s-%d", need.AgentType.Slug(), n),
				AgentType:   need.AgentType,
				Instance:    n,
				Sprints:     sprints,
				Track:       track + 1,
				StartSprint: start,
				EndSprint:   start + sprints - 1,
			})
			load[track] += sprints
		}
	}

	build := 1
	for _, l := range load {
		build = max(build, l)
	}

	phases := []Phase{
		{
			Name:        PhaseFoundation,
			StartSprint: 1,
			EndSprint:   foundation,
			Activities:  []string{"Environment and security setup", "Design review", "Backlog and topic design"},
		},
		{
			Name:        PhaseBuild,
			StartSprint: buildStart,
			EndSprint:   buildStart + build - 1,
			Activities:  []string{fmt.Sprintf("Build %d agents on %d tracks", len(tasks), tracks), "Connector integration", "Functional testing"},
		},
	}
	hardenStart := phases[1].EndSprint + 1
	hardenActivities := []string{"User acceptance testing", "Performance testing", "Go-live and hypercare"}
	if in.Risk.Level == rules.RiskHigh {
		hardenActivities = append(hardenActivities, "Extended security and compliance review")
	}
	phases = append(phases, Phase{
		Name:        PhaseHarden,
		StartSprint: hardenStart,
		EndSprint:   hardenStart + harden - 1,
		Activities:  hardenActivities,
	})

	plan := &DeliveryPlan{
		SprintLengthWeeks: sprintWeeks,
		Tracks:            tracks,
		Phases:            phases,
		Tasks:             tasks,
		TotalSprints:      phases[2].EndSprint,
		Resources:         []RoleEstimate{},
	}
	plan.TotalWeeks = plan.TotalSprints * sprintWeeks

	for _, role := range dc.Roles {
		headcount := role.Headcount
		if role.PerTrack {
			headcount *= float64(tracks)
		}
		hours := headcount * role.Allocation * float64(plan.TotalWeeks) * dc.HoursPerWeek
		est := RoleEstimate{
			Role:       role.Name,
			Headcount:  headcount,
			Allocation: role.Allocation,
			Hours:      round1(hours),
			Rate:       role.HourlyRate,
			Cost:       roundMoney(hours * role.HourlyRate),
		}
		plan.Resources = append(plan.Resources, est)
		plan.TotalHours += est.Hours
		plan.TotalCost += est.Cost
	}
	plan.TotalHours = round1(plan.TotalHours)
	plan.TotalCost = roundMoney(plan.TotalCost)

	return plan
}

// leastLoaded returns the index of the track with the smallest load, preferring
// the lowest index on ties.
func leastLoaded(load []int) int {
	best := 0
	for i := 1; i < len(load); i++ {
		if load[i] < load[best] {
			best = i
		}
	}
	return best
}
