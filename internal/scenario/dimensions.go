package scenario

// Dimension identifies an assessment axis scored 1-3.
type Dimension string

// Assessment dimensions in declared order.
const (
	DimUserReach          Dimension = "user_reach"
	DimChannelDiversity   Dimension = "channel_diversity"
	DimProcessComplexity  Dimension = "process_complexity"
	DimIntegrationBreadth Dimension = "integration_breadth"
	DimDataSensitivity    Dimension = "data_sensitivity"
	DimAutonomyLevel      Dimension = "autonomy_level"
	DimComplianceExposure Dimension = "compliance_exposure"
	DimKnowledgeVolume    Dimension = "knowledge_volume"
)

// Dimensions lists every assessment dimension in declared order.
var Dimensions = []Dimension{
	DimUserReach,
	DimChannelDiversity,
	DimProcessComplexity,
	DimIntegrationBreadth,
	DimDataSensitivity,
	DimAutonomyLevel,
	DimComplianceExposure,
	DimKnowledgeVolume,
}

var dimensionLabels = map[Dimension]string{
	DimUserReach:          "User reach",
	DimChannelDiversity:   "Channel diversity",
	DimProcessComplexity:  "Process complexity",
	DimIntegrationBreadth: "Integration breadth",
	DimDataSensitivity:    "Data sensitivity",
	DimAutonomyLevel:      "Autonomy level",
	DimComplianceExposure: "Compliance exposure",
	DimKnowledgeVolume:    "Knowledge volume",
}

// Label returns the display label for the dimension.
func (d Dimension) Label() string {
	if l, ok := dimensionLabels[d]; ok {
		return l
	}
	return string(d)
}

// IsKnown reports whether d is one of the declared assessment dimensions.
func (d Dimension) IsKnown() bool {
	_, ok := dimensionLabels[d]
	return ok
}

// MaturityDimension identifies an organisational readiness axis scored 1-3.
type MaturityDimension string

// Maturity dimensions in declared order.
const (
	MatStrategy   MaturityDimension = "strategy"
	MatData       MaturityDimension = "data"
	MatTechnology MaturityDimension = "technology"
	MatPeople     MaturityDimension = "people"
	MatGovernance MaturityDimension = "governance"
	MatOperations MaturityDimension = "operations"
)

// MaturityDimensions lists every maturity dimension in declared order.
var MaturityDimensions = []MaturityDimension{
	MatStrategy,
	MatData,
	MatTechnology,
	MatPeople,
	MatGovernance,
	MatOperations,
}

var maturityLabels = map[MaturityDimension]string{
	MatStrategy:   "Strategy",
	MatData:       "Data",
	MatTechnology: "Technology",
	MatPeople:     "People & skills",
	MatGovernance: "Governance",
	MatOperations: "Operations",
}

// Label returns the display label for the maturity dimension.
func (d MaturityDimension) Label() string {
	if l, ok := maturityLabels[d]; ok {
		return l
	}
	return string(d)
}

// IsKnown reports whether d is one of the declared maturity dimensions.
func (d MaturityDimension) IsKnown() bool {
	_, ok := maturityLabels[d]
	return ok
}

// Score bounds.
const (
	MinScore = 1
	MaxScore = 3
)

// ValidScore reports whether v is a legal dimension score.
func ValidScore(v int) bool {
	return v >= MinScore && v <= MaxScore
}
