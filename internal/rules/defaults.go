package rules

import "github.com/hargabyte/agentsizer/internal/scenario"

// DefaultVersion tags the built-in rule set.
const DefaultVersion = "builtin-1"

// Default returns the built-in rules configuration.
// These defaults are used when no rules file exists or when the rules file
// omits specific fields.
func Default() *Config {
	return &Config{
		Version:          DefaultVersion,
		SizeBands:        defaultSizeBands(),
		AgentTypes:       defaultAgentTypes(),
		ArchetypeRules:   defaultArchetypeRules(),
		RiskRules:        defaultRiskRules(),
		ImpactLevels:     defaultImpactLevels(),
		GovernanceRules:  defaultGovernanceRules(),
		Connectors:       defaultConnectors(),
		GenericConnector: defaultGenericConnector(),
		Roadmap:          defaultRoadmap(),
		DefaultCosts: scenario.CostAssumptions{
			Currency:                "USD",
			Users:                   100,
			LicensePerUserMonthly:   30,
			TenantLicenseMonthly:    200,
			MessagesPerUserMonthly:  40,
			IncludedMessagesMonthly: 25000,
			OverageRatePerMessage:   0.01,
			ComputePerAgentMonthly:  150,
			StorageGB:               50,
			StorageRatePerGBMonthly: 0.5,
			BuildCostPerAgent:       12000,
			SetupOneTime:            15000,
		},
		DefaultBenefits: scenario.BenefitAssumptions{
			TasksPerMonth:      2000,
			MinutesPerTask:     8,
			AutomationRate:     0.3,
			HourlyRate:         40,
			ErrorsPerMonth:     50,
			CostPerError:       120,
			ErrorReductionRate: 0.25,
		},
		Delivery:  defaultDelivery(),
		Templates: defaultTemplates(),
		Glossary:  defaultGlossary(),
	}
}

func defaultSizeBands() []SizeBand {
	return []SizeBand{
		{
			Size: SizeSmall, Max: 12, AgentMultiplier: 1, Tracks: 1,
			Notes: []string{
				"Start with a single maker team and one environment pair (dev/prod).",
				"Favour out-of-the-box connectors over custom integration work.",
			},
		},
		{
			Size: SizeMedium, Max: 18, AgentMultiplier: 1, Tracks: 2,
			Notes: []string{
				"Introduce a dedicated test environment and solution-based ALM.",
				"Split agents by responsibility so topics stay maintainable.",
			},
		},
		{
			Size: SizeLarge, Max: 24, AgentMultiplier: 2, Tracks: 3,
			Notes: []string{
				"Stand up a centre of excellence to own shared components and guardrails.",
				"Plan for multi-agent orchestration with an explicit control plane.",
				"Budget for load and failover testing before go-live.",
			},
		},
	}
}

func defaultAgentTypes() []AgentTypeInfo {
	return []AgentTypeInfo{
		{Type: AgentExperience, Description: "User-facing conversational front door that routes requests."},
		{Type: AgentProcess, Description: "Orchestrates multi-step business processes across agents and systems."},
		{Type: AgentFunction, Description: "Wraps a system capability behind a well-defined action."},
		{Type: AgentTask, Description: "Answers knowledge questions or performs a single bounded task."},
		{Type: AgentControl, Description: "Monitors, approves and audits the actions of other agents."},
	}
}

func defaultArchetypeRules() []ArchetypeRule {
	return []ArchetypeRule{
		{
			Condition: Condition{Dimension: scenario.DimChannelDiversity, Op: OpGTE, Value: 2},
			AgentType: AgentExperience, Necessity: NecessityRequired,
			Reason: "Several user channels need one conversational entry point.",
		},
		{
			Condition: Condition{Dimension: scenario.DimUserReach, Op: OpGTE, Value: 2},
			AgentType: AgentExperience, Necessity: NecessityRecommended,
			Reason: "A broad audience benefits from a dedicated experience layer.",
		},
		{
			Condition: Condition{Dimension: scenario.DimProcessComplexity, Op: OpGTE, Value: 2},
			AgentType: AgentProcess, Necessity: NecessityRequired,
			Reason: "Multi-step processes need an orchestrating agent.",
		},
		{
			Condition: Condition{Dimension: scenario.DimIntegrationBreadth, Op: OpGTE, Value: 2},
			AgentType: AgentFunction, Necessity: NecessityRequired,
			Reason: "System integrations should be isolated behind function agents.",
		},
		{
			Condition: Condition{Dimension: scenario.DimKnowledgeVolume, Op: OpGTE, Value: 1},
			AgentType: AgentTask, Necessity: NecessityRecommended,
			Reason: "Knowledge questions are best served by a focused task agent.",
		},
		{
			Condition: Condition{Dimension: scenario.DimAutonomyLevel, Op: OpGTE, Value: 2},
			AgentType: AgentControl, Necessity: NecessityRequired,
			Reason: "Autonomous actions require a control agent for approval and audit.",
		},
		{
			Condition: Condition{Dimension: scenario.DimComplianceExposure, Op: OpGTE, Value: 3},
			AgentType: AgentControl, Necessity: NecessityRequired,
			Reason: "Regulated scope requires continuous compliance monitoring.",
		},
	}
}

func defaultRiskRules() []RiskRule {
	return []RiskRule{
		{
			Condition: Condition{Dimension: scenario.DimDataSensitivity, Op: OpGTE, Value: 3},
			Level:     RiskHigh,
			Message:   "Highly sensitive or regulated data is in scope.",
		},
		{
			Condition: Condition{Dimension: scenario.DimComplianceExposure, Op: OpGTE, Value: 3},
			Level:     RiskHigh,
			Message:   "The deployment falls under strict regulatory obligations.",
		},
		{
			Condition: Condition{Dimension: scenario.DimAutonomyLevel, Op: OpGTE, Value: 3},
			Level:     RiskHigh,
			Message:   "Agents act autonomously without a human in the loop.",
		},
		{
			Condition: Condition{Dimension: scenario.DimDataSensitivity, Op: OpEQ, Value: 2},
			Level:     RiskModerate,
			Message:   "Internal confidential data is exposed to agents.",
		},
		{
			Condition: Condition{Dimension: scenario.DimIntegrationBreadth, Op: OpGTE, Value: 3},
			Level:     RiskModerate,
			Message:   "Many integrations widen the failure and attack surface.",
		},
		{
			Condition: Condition{Dimension: scenario.DimUserReach, Op: OpGTE, Value: 3},
			Level:     RiskModerate,
			Message:   "External users at scale raise reputational exposure.",
		},
	}
}

func defaultImpactLevels() []ImpactLevel {
	return []ImpactLevel{
		{Risk: RiskLow, Label: "Limited"},
		{Risk: RiskModerate, Label: "Moderate"},
		{Risk: RiskHigh, Label: "Significant"},
	}
}

func defaultGovernanceRules() []GovernanceRule {
	return []GovernanceRule{
		{
			ID: "ctl-dlp", Kind: KindControl, Name: "Data loss prevention policy",
			Description: "Restrict connectors to approved business data groups.",
			Owner:       "Platform admin",
		},
		{
			ID: "ctl-transcripts", Kind: KindControl, Name: "Conversation transcript retention",
			Description: "Retain transcripts for quality review under the retention policy.",
			Owner:       "Service owner",
		},
		{
			ID: "ctl-auth", Kind: KindControl, MinRisk: RiskModerate, Name: "End-user authentication",
			Description: "Require signed-in users before any personal or confidential data is returned.",
			Owner:       "Security",
		},
		{
			ID: "ctl-sensitivity", Kind: KindControl,
			Condition: Condition{Dimension: scenario.DimDataSensitivity, Op: OpGTE, Value: 3},
			Name:      "Sensitivity labels on knowledge sources",
			Description: "Label grounding content and block responses that exceed the user's clearance.",
			Owner:       "Information protection",
		},
		{
			ID: "ctl-audit", Kind: KindControl,
			Condition: Condition{Dimension: scenario.DimComplianceExposure, Op: OpGTE, Value: 2},
			Name:      "Audit logging",
			Description: "Stream agent activity to the central audit log with tamper-evident storage.",
			Owner:       "Compliance",
		},
		{
			ID: "ctl-dpia", Kind: KindControl, MinRisk: RiskHigh, Name: "Impact assessment",
			Description: "Complete a data protection / AI impact assessment before go-live.",
			Owner:       "Risk office",
		},
		{
			ID: "chk-design", Kind: KindCheckpoint, Name: "Design review",
			Description: "Architecture and topic design signed off before build starts.",
			Owner:       "Solution architect", Stage: "Foundation",
		},
		{
			ID: "chk-approval", Kind: KindCheckpoint,
			Condition: Condition{Dimension: scenario.DimAutonomyLevel, Op: OpGTE, Value: 2},
			Name:      "Human approval of consequential actions",
			Description: "A named approver confirms write actions before they are executed.",
			Owner:       "Process owner", Stage: "Run",
		},
		{
			ID: "chk-redteam", Kind: KindCheckpoint, MinRisk: RiskModerate, Name: "Red-team review",
			Description: "Adversarial testing of prompts and actions before release.",
			Owner:       "Security", Stage: "Harden & Deploy",
		},
		{
			ID: "chk-golive", Kind: KindCheckpoint, Name: "Go-live approval",
			Description: "Business sponsor approves release after test exit criteria are met.",
			Owner:       "Sponsor", Stage: "Harden & Deploy",
		},
	}
}

func defaultConnectors() []ConnectorRule {
	return []ConnectorRule{
		{ID: "sap", Name: "SAP ERP", Keywords: []string{"sap", "s/4", "s4hana"}, Category: "ERP", Auth: "OAuth 2.0 / SAP BTP destination"},
		{ID: "salesforce", Name: "Salesforce", Keywords: []string{"salesforce", "sfdc"}, Category: "CRM", Auth: "OAuth 2.0"},
		{ID: "dynamics365", Name: "Dynamics 365", Keywords: []string{"dynamics", "d365", "dataverse"}, Category: "CRM/ERP", Auth: "Microsoft Entra ID"},
		{ID: "servicenow", Name: "ServiceNow", Keywords: []string{"servicenow", "snow"}, Category: "ITSM", Auth: "OAuth 2.0"},
		{ID: "sharepoint", Name: "SharePoint", Keywords: []string{"sharepoint", "onedrive"}, Category: "Content", Auth: "Microsoft Entra ID"},
		{ID: "workday", Name: "Workday", Keywords: []string{"workday"}, Category: "HCM", Auth: "OAuth 2.0"},
		{ID: "jira", Name: "Jira", Keywords: []string{"jira", "atlassian"}, Category: "Work management", Auth: "API token"},
		{ID: "sql", Name: "SQL database", Keywords: []string{"sql", "postgres", "oracle", "mysql"}, Category: "Database", Auth: "Managed identity / gateway"},
		{ID: "outlook", Name: "Office 365 Outlook", Keywords: []string{"outlook", "exchange", "email"}, Category: "Productivity", Auth: "Microsoft Entra ID"},
	}
}

func defaultGenericConnector() ConnectorRule {
	return ConnectorRule{
		ID: "http", Name: "Generic HTTP", Category: "Custom",
		Auth:  "API key or OAuth 2.0",
		Notes: "No pre-built connector; wrap the system's REST API in a custom connector.",
	}
}

func defaultRoadmap() []Initiative {
	return []Initiative{
		{
			ID: "faq-deflection", Title: "FAQ deflection agent", Horizon: HorizonQuickWin,
			Description: "Answer the top recurring questions from curated knowledge.",
			Gates:       []MaturityGate{{Dimension: scenario.MatData, Op: OpGTE, Value: 2}},
		},
		{
			ID: "knowledge-cleanup", Title: "Knowledge source consolidation", Horizon: HorizonQuickWin,
			Description: "Consolidate and label the content agents will ground on.",
			Gates:       []MaturityGate{{Dimension: scenario.MatData, Op: OpLTE, Value: 1}},
		},
		{
			ID: "coe", Title: "Centre of excellence", Horizon: HorizonMediumTerm,
			Description: "Shared standards, reusable components and a maker community.",
			Gates:       []MaturityGate{{Dimension: scenario.MatPeople, Op: OpLTE, Value: 2}},
			Sizes:       []Size{SizeMedium, SizeLarge},
		},
		{
			ID: "governance-framework", Title: "Responsible AI framework", Horizon: HorizonMediumTerm,
			Description: "Policies, review boards and monitoring for agent behaviour.",
			Gates:       []MaturityGate{{Dimension: scenario.MatGovernance, Op: OpLTE, Value: 2}},
		},
		{
			ID: "process-automation", Title: "End-to-end process automation", Horizon: HorizonTransformational,
			Description: "Agents execute complete business processes with exception handling.",
			Gates: []MaturityGate{
				{Dimension: scenario.MatTechnology, Op: OpGTE, Value: 2},
				{Dimension: scenario.MatOperations, Op: OpGTE, Value: 2},
			},
		},
		{
			ID: "multi-agent", Title: "Multi-agent operating model", Horizon: HorizonTransformational,
			Description: "Coordinated agent network with a control plane across business units.",
			Gates:       []MaturityGate{{Dimension: scenario.MatStrategy, Op: OpGTE, Value: 3}},
			Sizes:       []Size{SizeLarge},
		},
		{
			ID: "usage-analytics", Title: "Usage analytics dashboard", Horizon: HorizonQuickWin,
			Description: "Track adoption, resolution and escalation rates from day one.",
		},
	}
}

func defaultDelivery() DeliveryConfig {
	return DeliveryConfig{
		SprintLengthWeeks:   2,
		HoursPerWeek:        40,
		FoundationSprints:   2,
		HardenSprints:       2,
		HighRiskHardenExtra: 1,
		DefaultAgentSprints: 2,
		AgentSprints: []AgentSprint{
			{AgentType: AgentExperience, Sprints: 2},
			{AgentType: AgentProcess, Sprints: 3},
			{AgentType: AgentFunction, Sprints: 2},
			{AgentType: AgentTask, Sprints: 1},
			{AgentType: AgentControl, Sprints: 2},
		},
		Roles: []Role{
			{Name: "Solution architect", Headcount: 1, Allocation: 0.5, HourlyRate: 150},
			{Name: "Agent developer", Headcount: 1, PerTrack: true, Allocation: 1, HourlyRate: 110},
			{Name: "Integration engineer", Headcount: 1, Allocation: 0.5, HourlyRate: 120},
			{Name: "Test engineer", Headcount: 1, Allocation: 0.5, HourlyRate: 90},
			{Name: "Product owner", Headcount: 1, Allocation: 0.25, HourlyRate: 100},
		},
	}
}

func defaultTemplates() TemplateConfig {
	return TemplateConfig{
		Blueprints: []BlueprintTemplate{
			{
				AgentType: AgentExperience,
				Name:      "{{.Organization}} Concierge",
				Purpose:   "Greets users on every channel, understands intent and routes to the right agent.",
				Instructions: "You are the front door for {{.Organization}}. Identify what the user needs, " +
					"answer simple questions directly and hand off to specialist agents otherwise.",
				Knowledge:  []string{"Public FAQ", "Service catalogue"},
				Actions:    []string{"Route to specialist agent", "Escalate to human"},
				Guardrails: []string{"Never disclose internal system names", "Offer a human hand-off on request"},
			},
			{
				AgentType: AgentProcess,
				Name:      "{{.Organization}} Process Orchestrator",
				Purpose:   "Runs multi-step business processes and tracks their state.",
				Instructions: "Coordinate the steps of each {{.Industry}} process, call function agents for " +
					"system work and report progress to the user.",
				Knowledge:  []string{"Process playbooks"},
				Actions:    []string{"Start process", "Query process status"},
				Guardrails: []string{"Confirm each consequential step", "Stop on validation failure"},
			},
			{
				AgentType:    AgentFunction,
				Name:         "{{.Organization}} Systems Gateway",
				Purpose:      "Exposes system operations as well-defined, audited actions.",
				Instructions: "Execute only the system actions you are given, validate inputs and return structured results.",
				Knowledge:    []string{"API documentation"},
				Actions:      []string{"Read record", "Create record", "Update record"},
				Guardrails:   []string{"Least-privilege service accounts", "Reject malformed inputs"},
			},
			{
				AgentType:    AgentTask,
				Name:         "{{.Organization}} Knowledge Assistant",
				Purpose:      "Answers questions grounded in approved knowledge sources.",
				Instructions: "Answer only from the approved knowledge sources and cite them. Say when you do not know.",
				Knowledge:    []string{"Policies", "Product documentation"},
				Actions:      []string{"Search knowledge"},
				Guardrails:   []string{"Cite sources", "No speculative answers"},
			},
			{
				AgentType:    AgentControl,
				Name:         "{{.Organization}} Oversight Agent",
				Purpose:      "Approves, monitors and audits actions taken by other agents.",
				Instructions: "Review proposed actions against policy, request human approval where required and log every decision.",
				Knowledge:    []string{"Policies", "Approval matrix"},
				Actions:      []string{"Request approval", "Write audit entry"},
				Guardrails:   []string{"Fail closed", "Immutable audit trail"},
			},
		},
		Topics: []TopicTemplate{
			{AgentType: AgentExperience, Name: "Greeting", Triggers: []string{"hello", "hi there", "good morning"}, Steps: []string{"Greet the user", "Ask how you can help"}},
			{AgentType: AgentExperience, Name: "Escalate to human", Triggers: []string{"talk to a person", "speak to an agent"}, Steps: []string{"Confirm the request", "Collect contact details", "Transfer to the service desk"}},
			{AgentType: AgentProcess, Name: "Start request", Triggers: []string{"I want to submit a request", "start a new case"}, Steps: []string{"Identify request type", "Collect required fields", "Create case", "Confirm reference number"}},
			{AgentType: AgentProcess, Name: "Check status", Triggers: []string{"where is my request", "status of my case"}, Steps: []string{"Ask for reference number", "Look up case", "Report status"}},
			{AgentType: AgentFunction, Name: "Look up record", Triggers: []string{"find record", "look up customer"}, Steps: []string{"Validate identifier", "Call system action", "Return summary"}},
			{AgentType: AgentTask, Name: "Policy question", Triggers: []string{"what is the policy on", "am I allowed to"}, Steps: []string{"Search knowledge", "Answer with citation"}},
			{AgentType: AgentControl, Name: "Approval request", Triggers: []string{"approve action", "pending approvals"}, Steps: []string{"Summarise proposed action", "Request approver decision", "Record outcome"}},
		},
		Prompt: "You are {{.AgentName}}, a {{.AgentType}} agent for {{.Organization}}.\n" +
			"Purpose: {{.Purpose}}\n" +
			"{{.Instructions}}\n" +
			"Always follow these guardrails:{{range .Guardrails}}\n- {{.}}{{end}}",
		Maturity: []MaturityTemplate{
			{Dimension: scenario.MatStrategy, Low: "Define an AI vision and name an executive sponsor.", Medium: "Link agent use cases to measurable business objectives.", High: "Maintain a prioritised agent portfolio reviewed quarterly."},
			{Dimension: scenario.MatData, Low: "Inventory and clean the knowledge sources agents will use.", Medium: "Assign data owners and refresh cycles to key sources.", High: "Automate data quality monitoring for grounding content."},
			{Dimension: scenario.MatTechnology, Low: "Establish a governed platform environment strategy.", Medium: "Adopt ALM pipelines for agent solutions.", High: "Standardise reusable components and connectors."},
			{Dimension: scenario.MatPeople, Low: "Train a core maker team on agent design.", Medium: "Grow a maker community with shared patterns.", High: "Embed agent design skills in business teams."},
			{Dimension: scenario.MatGovernance, Low: "Publish acceptable-use and data policies for agents.", Medium: "Introduce review gates for new agents.", High: "Continuously monitor agent behaviour against policy."},
			{Dimension: scenario.MatOperations, Low: "Define support ownership for agents in production.", Medium: "Track adoption and resolution KPIs.", High: "Run agents with SLOs, alerting and incident playbooks."},
		},
	}
}

func defaultGlossary() []GlossaryEntry {
	return []GlossaryEntry{
		{Term: "Dimension", Definition: "A named assessment axis scored from 1 (low) to 3 (high)."},
		{Term: "Size classification", Definition: "Small/Medium/Large bucket derived from the total dimension score."},
		{Term: "Agent type", Definition: "A category of recommended agent: Experience, Process, Function, Task or Control."},
		{Term: "Risk profile", Definition: "Overall risk level with the reasons that triggered it."},
		{Term: "Payback period", Definition: "Months until cumulative net benefit covers the one-time investment."},
		{Term: "Track", Definition: "A parallel delivery stream building agents during the build phase."},
	}
}
