// Package render turns an assembled report model into output formats: a
// Markdown document, lossless JSON and YAML serializations and a zip archive
// bundling all of them. Every renderer reads only the model.
package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hargabyte/agentsizer/internal/generate"
	"github.com/hargabyte/agentsizer/internal/report"
	"github.com/hargabyte/agentsizer/internal/scenario"
)

// NotAvailable is the placeholder written for absent sections.
const NotAvailable = "_Not available for this report._"

// Document section headings, in output order.
const (
	HeadingSummary      = "Executive summary"
	HeadingOverview     = "Scenario overview"
	HeadingDimensions   = "Dimension scores"
	HeadingArchitecture = "Recommended architecture"
	HeadingBlueprints   = "Agent blueprints"
	HeadingTopics       = "Topics"
	HeadingDiagrams     = "Diagrams"
	HeadingDatasets     = "Test plan and evaluation datasets"
	HeadingConnectors   = "Connectors"
	HeadingGovernance   = "Governance"
	HeadingCosts        = "Cost estimate"
	HeadingROI          = "Return on investment"
	HeadingRoadmap      = "Value roadmap"
	HeadingDelivery     = "Delivery plan"
	HeadingGlossary     = "Glossary"
)

// RenderDocument renders the report as Markdown in a fixed section order.
func RenderDocument(m *report.Model) []byte {
	d := &doc{}

	writeCover(d, m)
	writeSummary(d, m)
	writeOverview(d, m)
	writeDimensions(d, m)
	writeArchitecture(d, m)
	writeBlueprints(d, m)
	writeTopics(d, m)
	writeDiagrams(d, m)
	writeDatasets(d, m)
	writeConnectors(d, m)
	writeGovernance(d, m)
	writeCosts(d, m)
	writeROI(d, m)
	writeRoadmap(d, m)
	writeDelivery(d, m)
	writeGlossary(d, m)
	writeFooter(d, m)

	return []byte(d.String())
}

type doc struct {
	strings.Builder
}

func (d *doc) line(format string, args ...any) {
	fmt.Fprintf(d, format, args...)
	d.WriteByte('\n')
}

// text writes s verbatim as one line.
func (d *doc) text(s string) {
	d.WriteString(s)
	d.WriteByte('\n')
}

func (d *doc) blank() { d.WriteByte('\n') }

func (d *doc) heading(level int, title string) {
	d.line("%s %s", strings.Repeat("#", level), title)
	d.blank()
}

func (d *doc) table(header []string, rows [][]string) {
	d.line("| %s |", strings.Join(header, " | "))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	d.line("| %s |", strings.Join(sep, " | "))
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = cell(c)
		}
		d.line("| %s |", strings.Join(cells, " | "))
	}
	d.blank()
}

func (d *doc) bullets(items []string) {
	for _, it := range items {
		d.line("- %s", it)
	}
	d.blank()
}

func (d *doc) unavailable() {
	d.text(NotAvailable)
	d.blank()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func money(currency string, v float64) string {
	return strings.TrimSpace(currency + " " + humanize.FormatFloat("#,###.##", v))
}

func number(v float64) string {
	return humanize.FormatFloat("#,###.#", v)
}

func writeCover(d *doc, m *report.Model) {
	d.heading(1, m.Title())
	meta := m.Scenario.Metadata
	if meta.Industry != "" {
		d.line("**Industry:** %s  ", meta.Industry)
	}
	if meta.Sponsor != "" {
		d.line("**Sponsor:** %s  ", meta.Sponsor)
	}
	d.line("**Generated:** %s", m.Meta.GeneratedAt.Format("2 January 2006"))
	d.blank()
}

func writeSummary(d *doc, m *report.Model) {
	d.heading(2, HeadingSummary)

	items := []string{
		fmt.Sprintf("Size classification: **%s** (total score %d across %d of %d dimensions)",
			m.Sizing.Size, m.Sizing.TotalScore, m.Sizing.ScoredDimensions, len(scenario.Dimensions)),
		fmt.Sprintf("Risk level: **%s**", m.Risk.Level),
		fmt.Sprintf("Recommended agents: %d", m.Sizing.TotalAgents()),
	}
	if m.Maturity != nil {
		items = append(items, fmt.Sprintf("Organisational maturity: %s (%d/100)", m.Maturity.Level, m.Maturity.Normalized))
	}
	if m.Costs != nil {
		items = append(items, fmt.Sprintf("First-year cost: %s", money(m.Costs.Currency, m.Costs.TotalAnnual)))
	}
	if m.ROI != nil {
		items = append(items, fmt.Sprintf("First-year ROI: %.1f%%", m.ROI.ROIPercent))
	}
	if m.Delivery != nil {
		items = append(items, fmt.Sprintf("Delivery: %d sprints (%d weeks) on %d tracks",
			m.Delivery.TotalSprints, m.Delivery.TotalWeeks, m.Delivery.Tracks))
	}
	d.bullets(items)
}

func writeOverview(d *doc, m *report.Model) {
	d.heading(2, HeadingOverview)
	s := m.Scenario

	rows := [][]string{
		{"Organization", s.Metadata.Organization},
		{"Objective", s.Metadata.Objective},
		{"Region", s.Metadata.Region},
		{"Mode", string(s.EffectiveMode())},
		{"Systems in scope", strings.Join(s.Systems, ", ")},
	}
	d.table([]string{"Field", "Value"}, rows)

	if s.Metadata.Notes != "" {
		d.text(s.Metadata.Notes)
		d.blank()
	}

	d.heading(3, "Organisational maturity")
	if m.Maturity == nil {
		d.unavailable()
		return
	}
	d.line("Level **%s**, %d/100.", m.Maturity.Level, m.Maturity.Normalized)
	d.blank()
	var mrows [][]string
	for _, r := range m.Maturity.Dimensions {
		score := fmt.Sprintf("%d", r.Score)
		if r.Assumed {
			score += " (assumed)"
		}
		mrows = append(mrows, []string{r.Label, score, r.Recommendation})
	}
	d.table([]string{"Dimension", "Score", "Recommendation"}, mrows)
}

func writeDimensions(d *doc, m *report.Model) {
	d.heading(2, HeadingDimensions)
	s := m.Scenario

	var rows [][]string
	for _, dim := range scenario.Dimensions {
		cur, curOK := s.CurrentScores.Get(dim)
		tgt, tgtOK := s.TargetScores.Get(dim)
		gap := ""
		if curOK && tgtOK {
			gap = fmt.Sprintf("%+d", tgt-cur)
		}
		rows = append(rows, []string{dim.Label(), scoreText(cur, curOK), scoreText(tgt, tgtOK), gap, s.Comments[dim]})
	}
	d.table([]string{"Dimension", "Current", "Target", "Gap", "Comment"}, rows)
}

func scoreText(v int, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}

func writeArchitecture(d *doc, m *report.Model) {
	d.heading(2, HeadingArchitecture)
	if len(m.Sizing.Notes) > 0 {
		d.bullets(m.Sizing.Notes)
	}

	var rows [][]string
	for _, n := range m.Sizing.AgentNeeds {
		rows = append(rows, []string{
			string(n.AgentType),
			string(n.Necessity),
			fmt.Sprintf("%d", m.Sizing.CountFor(n.AgentType)),
			n.Reason,
		})
	}
	d.table([]string{"Agent type", "Necessity", "Count", "Reason"}, rows)

	if len(m.Risk.Reasons) > 0 {
		d.line("Risk drivers:")
		d.blank()
		d.bullets(m.Risk.Reasons)
	}
}

func writeBlueprints(d *doc, m *report.Model) {
	d.heading(2, HeadingBlueprints)
	if m.Blueprints == nil {
		d.unavailable()
		return
	}
	if len(m.Blueprints.Blueprints) == 0 {
		d.line("No agents recommended.")
		d.blank()
	}
	for _, bp := range m.Blueprints.Blueprints {
		d.heading(3, fmt.Sprintf("%s (%s, x%d)", bp.Name, bp.AgentType, bp.Count))
		d.text(bp.Purpose)
		d.blank()
		if bp.Rationale != "" {
			d.line("_Why:_ %s", bp.Rationale)
			d.blank()
		}
		d.line("**Instructions:** %s", bp.Instructions)
		d.blank()
		writeList(d, "Knowledge", bp.Knowledge)
		writeList(d, "Actions", bp.Actions)
		writeList(d, "Guardrails", bp.Guardrails)
		writeList(d, "Connectors", bp.Connectors)
	}

	d.heading(3, "System prompts")
	if m.Prompts == nil {
		d.unavailable()
		return
	}
	for _, p := range m.Prompts.Prompts {
		d.line("**%s**", p.AgentName)
		d.blank()
		d.line("```text")
		d.text(strings.TrimRight(p.System, "\n"))
		d.line("```")
		d.blank()
	}
}

func writeList(d *doc, title string, items []string) {
	if len(items) == 0 {
		return
	}
	d.line("**%s:**", title)
	d.blank()
	d.bullets(items)
}

func writeTopics(d *doc, m *report.Model) {
	d.heading(2, HeadingTopics)
	if m.Topics == nil {
		d.unavailable()
		return
	}
	var rows [][]string
	for _, t := range m.Topics.Topics {
		rows = append(rows, []string{
			string(t.AgentType),
			t.Name,
			strings.Join(t.Triggers, "; "),
			strings.Join(t.Steps, " > "),
		})
	}
	d.table([]string{"Agent", "Topic", "Triggers", "Steps"}, rows)
}

func writeDiagrams(d *doc, m *report.Model) {
	d.heading(2, HeadingDiagrams)
	if m.Diagrams == nil {
		d.unavailable()
		return
	}
	for _, dg := range m.Diagrams.Diagrams {
		d.heading(3, dg.Title)
		d.line("```mermaid")
		d.text(strings.TrimRight(dg.Mermaid, "\n"))
		d.line("```")
		d.blank()
	}
}

func writeDatasets(d *doc, m *report.Model) {
	d.heading(2, HeadingDatasets)

	d.heading(3, "Test plan")
	if m.TestPlan == nil {
		d.unavailable()
	} else {
		var rows [][]string
		for _, tc := range m.TestPlan.Cases {
			rows = append(rows, []string{tc.ID, tc.Category, string(tc.AgentType), tc.Input, tc.Expected})
		}
		d.table([]string{"ID", "Category", "Agent", "Input", "Expected"}, rows)
	}

	d.heading(3, "Evaluation datasets")
	if m.Datasets == nil {
		d.unavailable()
		return
	}
	var rows [][]string
	for _, ds := range m.Datasets.Datasets {
		rows = append(rows, []string{ds.Name, string(ds.AgentType), fmt.Sprintf("%d", len(ds.Rows))})
	}
	d.table([]string{"Dataset", "Agent", "Rows"}, rows)
}

func writeConnectors(d *doc, m *report.Model) {
	d.heading(2, HeadingConnectors)
	if m.Connectors == nil {
		d.unavailable()
		return
	}
	if len(m.Connectors.Connectors) == 0 {
		d.line("No systems in scope.")
		d.blank()
		return
	}
	var rows [][]string
	for _, c := range m.Connectors.Connectors {
		name := c.Name
		if c.Generic {
			name += " (custom)"
		}
		rows = append(rows, []string{name, c.Category, c.Auth, strings.Join(c.Systems, ", ")})
	}
	d.table([]string{"Connector", "Category", "Authentication", "Systems"}, rows)
}

func writeGovernance(d *doc, m *report.Model) {
	d.heading(2, HeadingGovernance)
	g := m.Governance
	if g == nil {
		d.unavailable()
		return
	}
	d.line("Risk level **%s**, impact level **%s**.", g.RiskLevel, g.ImpactLevel)
	d.blank()

	var rows [][]string
	for _, c := range g.Controls {
		rows = append(rows, []string{c.Name, c.Owner, c.Trigger, c.Description})
	}
	d.table([]string{"Control", "Owner", "Trigger", "Description"}, rows)

	var cps [][]string
	for _, c := range g.Checkpoints {
		cps = append(cps, []string{c.Name, c.Stage, c.Owner, c.Trigger})
	}
	d.table([]string{"Checkpoint", "Stage", "Owner", "Trigger"}, cps)
}

func writeCosts(d *doc, m *report.Model) {
	d.heading(2, HeadingCosts)
	c := m.Costs
	if c == nil {
		d.unavailable()
		return
	}
	lineItems := func(items []generate.LineItem) [][]string {
		var rows [][]string
		for _, li := range items {
			rows = append(rows, []string{
				li.Name,
				fmt.Sprintf("%s %s", number(li.Quantity), li.Unit),
				money(c.Currency, li.UnitCost),
				money(c.Currency, li.Amount),
				li.Explanation,
			})
		}
		return rows
	}
	header := []string{"Item", "Quantity", "Unit cost", "Amount", "Basis"}

	d.heading(3, "One-time")
	d.table(header, lineItems(c.OneTime))
	d.heading(3, "Monthly")
	d.table(header, lineItems(c.Monthly))

	d.bullets([]string{
		fmt.Sprintf("Total one-time: %s", money(c.Currency, c.TotalOneTime)),
		fmt.Sprintf("Total monthly: %s", money(c.Currency, c.TotalMonthly)),
		fmt.Sprintf("First year: %s", money(c.Currency, c.TotalAnnual)),
	})
}

func writeROI(d *doc, m *report.Model) {
	d.heading(2, HeadingROI)
	r := m.ROI
	if r == nil {
		d.unavailable()
		return
	}
	var rows [][]string
	for _, b := range r.Benefits {
		rows = append(rows, []string{b.Name, money(r.Currency, b.Monthly), money(r.Currency, b.Annual), b.Basis})
	}
	d.table([]string{"Benefit", "Monthly", "Annual", "Basis"}, rows)

	payback := "not reached"
	if r.PaybackMonths > 0 {
		payback = fmt.Sprintf("%.1f months", r.PaybackMonths)
	}
	d.bullets([]string{
		fmt.Sprintf("Annual benefit: %s", money(r.Currency, r.AnnualBenefit)),
		fmt.Sprintf("First-year net: %s (%.1f%%)", money(r.Currency, r.NetFirstYear), r.ROIPercent),
		fmt.Sprintf("Payback: %s", payback),
	})

	var proj [][]string
	for _, p := range r.Projections {
		proj = append(proj, []string{
			fmt.Sprintf("%d", p.Years),
			money(r.Currency, p.Benefit),
			money(r.Currency, p.Cost),
			money(r.Currency, p.Net),
			fmt.Sprintf("%.1f%%", p.ROIPercent),
		})
	}
	d.table([]string{"Years", "Benefit", "Cost", "Net", "ROI"}, proj)
}

func writeRoadmap(d *doc, m *report.Model) {
	d.heading(2, HeadingRoadmap)
	if m.Roadmap == nil {
		d.unavailable()
		return
	}
	var rows [][]string
	for _, it := range m.Roadmap.Items {
		rows = append(rows, []string{string(it.Horizon), it.Title, it.Description, it.Rationale})
	}
	d.table([]string{"Horizon", "Initiative", "Description", "Rationale"}, rows)
}

func writeDelivery(d *doc, m *report.Model) {
	d.heading(2, HeadingDelivery)
	p := m.Delivery
	if p == nil {
		d.unavailable()
		return
	}
	d.line("%d sprints of %d weeks (%d weeks) on %d parallel tracks.",
		p.TotalSprints, p.SprintLengthWeeks, p.TotalWeeks, p.Tracks)
	d.blank()

	var phases [][]string
	for _, ph := range p.Phases {
		phases = append(phases, []string{
			ph.Name,
			fmt.Sprintf("%d-%d", ph.StartSprint, ph.EndSprint),
			strings.Join(ph.Activities, "; "),
		})
	}
	d.table([]string{"Phase", "Sprints", "Activities"}, phases)

	var tasks [][]string
	for _, t := range p.Tasks {
		tasks = append(tasks, []string{
			t.ID,
			fmt.Sprintf("%d", t.Track),
			fmt.Sprintf("%d-%d", t.StartSprint, t.EndSprint),
		})
	}
	if len(tasks) > 0 {
		d.table([]string{"Build", "Track", "Sprints"}, tasks)
	}

	var roles [][]string
	for _, r := range p.Resources {
		roles = append(roles, []string{r.Role, number(r.Headcount), number(r.Hours), number(r.Cost)})
	}
	d.table([]string{"Role", "Headcount", "Hours", "Cost"}, roles)
	d.line("Total effort: %s hours, %s.", number(p.TotalHours), number(p.TotalCost))
	d.blank()
}

func writeGlossary(d *doc, m *report.Model) {
	if len(m.Glossary) == 0 {
		return
	}
	d.heading(2, HeadingGlossary)
	var rows [][]string
	for _, g := range m.Glossary {
		rows = append(rows, []string{g.Term, g.Definition})
	}
	d.table([]string{"Term", "Definition"}, rows)
}

func writeFooter(d *doc, m *report.Model) {
	d.line("---")
	d.blank()
	scenarioRef := "Scenario " + m.Scenario.ID + " (hash " + m.Meta.ScenarioHash + ")"
	if m.Scenario.ID == "" {
		scenarioRef = "Scenario hash " + m.Meta.ScenarioHash
	}
	d.line("_Generated %s by agentsizer %s. %s, rules %s._",
		m.Meta.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		m.Meta.Version, scenarioRef, m.Meta.RulesVersion)
}
