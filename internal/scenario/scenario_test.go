package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Scenario {
	return Scenario{
		ID:   "sc-1",
		Name: "Claims intake",
		Mode: ModeFull,
		CurrentScores: Scores{
			DimUserReach:        1,
			DimDataSensitivity:  2,
			DimAutonomyLevel:    1,
			DimKnowledgeVolume:  2,
			DimChannelDiversity: 1,
		},
		TargetScores: Scores{
			DimUserReach:        3,
			DimDataSensitivity:  3,
			DimAutonomyLevel:    2,
			DimKnowledgeVolume:  2,
			DimChannelDiversity: 2,
		},
		MaturityScores: MaturityScores{MatData: 2, MatStrategy: 3},
		Systems:        []string{"SAP S/4HANA", "ServiceNow"},
		Metadata:       Metadata{Organization: "Contoso", Industry: "Insurance"},
		Comments:       map[Dimension]string{DimUserReach: "public web channel"},
		Costs:          CostAssumptions{Users: 500},
		Benefits:       BenefitAssumptions{TasksPerMonth: 1000, MinutesPerTask: 6, AutomationRate: 0.4, HourlyRate: 45},
	}
}

func mustHash(t *testing.T, s Scenario) string {
	t.Helper()
	h, err := Hash(s)
	require.NoError(t, err)
	return h
}

func TestHash_StableAcrossCopies(t *testing.T) {
	a := sample()
	b := sample()

	assert.Equal(t, mustHash(t, a), mustHash(t, b))
	assert.Equal(t, mustHash(t, a), mustHash(t, a.Clone()))
	assert.Len(t, mustHash(t, a), 16)
}

func TestHash_ChangesWithContent(t *testing.T) {
	base := mustHash(t, sample())

	tests := []struct {
		name   string
		modify func(*Scenario)
	}{
		{"score", func(s *Scenario) { s.TargetScores[DimUserReach] = 2 }},
		{"new score", func(s *Scenario) { s.TargetScores[DimComplianceExposure] = 1 }},
		{"metadata", func(s *Scenario) { s.Metadata.Sponsor = "CFO" }},
		{"cost assumption", func(s *Scenario) { s.Costs.Users = 501 }},
		{"benefit assumption", func(s *Scenario) { s.Benefits.AutomationRate = 0.5 }},
		{"system", func(s *Scenario) { s.Systems = append(s.Systems, "Salesforce") }},
		{"comment", func(s *Scenario) { s.Comments[DimUserReach] = "internal only" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sample()
			tt.modify(&s)
			assert.NotEqual(t, base, mustHash(t, s))
		})
	}
}

func TestHash_MapInsertionOrderIrrelevant(t *testing.T) {
	a := sample()
	a.TargetScores = Scores{DimUserReach: 3, DimKnowledgeVolume: 2}

	b := sample()
	b.TargetScores = Scores{}
	b.TargetScores[DimKnowledgeVolume] = 2
	b.TargetScores[DimUserReach] = 3

	assert.Equal(t, mustHash(t, a), mustHash(t, b))
}

func TestClone_IsDeep(t *testing.T) {
	orig := sample()
	c := orig.Clone()

	c.TargetScores[DimUserReach] = 1
	c.Systems[0] = "Workday"
	c.Comments[DimUserReach] = "changed"
	c.MaturityScores[MatData] = 1

	assert.Equal(t, 3, orig.TargetScores[DimUserReach])
	assert.Equal(t, "SAP S/4HANA", orig.Systems[0])
	assert.Equal(t, "public web channel", orig.Comments[DimUserReach])
	assert.Equal(t, 2, orig.MaturityScores[MatData])
}

func TestClone_PreservesNil(t *testing.T) {
	c := Scenario{ID: "x"}.Clone()
	assert.Nil(t, c.TargetScores)
	assert.Nil(t, c.Systems)
	assert.Equal(t, mustHash(t, Scenario{ID: "x"}), mustHash(t, c))
}

func TestScores_Get(t *testing.T) {
	s := Scores{DimUserReach: 2, DimAutonomyLevel: 7}

	v, ok := s.Get(DimUserReach)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = s.Get(DimAutonomyLevel)
	assert.False(t, ok, "out-of-range score counts as unscored")

	_, ok = s.Get(DimDataSensitivity)
	assert.False(t, ok)
}

func TestSizingScores_FallsBackToCurrent(t *testing.T) {
	s := sample()
	assert.Equal(t, s.TargetScores, s.SizingScores())

	s.TargetScores = nil
	assert.Equal(t, s.CurrentScores, s.SizingScores())
}

func TestParse(t *testing.T) {
	data := []byte(`
name: Service desk
mode: quick
target_scores:
  user_reach: 2
  integration_breadth: 3
systems: [ServiceNow, Jira]
metadata:
  organization: Fabrikam
`)
	s, err := Parse(data)
	require.NoError(t, err)

	assert.Empty(t, s.ID, "missing id is not generated")
	assert.Equal(t, ModeQuick, s.Mode)
	assert.Equal(t, 3, s.TargetScores[DimIntegrationBreadth])
	assert.Equal(t, []string{"ServiceNow", "Jira"}, s.Systems)
	assert.Equal(t, "Fabrikam", s.Metadata.Organization)
}

func TestParse_JSON(t *testing.T) {
	s, err := Parse([]byte(`{"id":"abc","name":"json","target_scores":{"user_reach":1}}`))
	require.NoError(t, err)
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, 1, s.TargetScores[DimUserReach])
}

func TestParse_SameBytesSameHash(t *testing.T) {
	data := []byte("name: Desk\ntarget_scores:\n  user_reach: 2\n")

	a, err := Parse(data)
	require.NoError(t, err)
	b, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, mustHash(t, a), mustHash(t, b))

	a, err = WithDerivedID(a)
	require.NoError(t, err)
	b, err = WithDerivedID(b)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "sc-"+mustHash(t, Scenario{Name: "Desk", TargetScores: Scores{DimUserReach: 2}}), a.ID)

	kept, err := WithDerivedID(Scenario{ID: "given"})
	require.NoError(t, err)
	assert.Equal(t, "given", kept.ID)
}

func TestParse_NonFinite(t *testing.T) {
	for _, v := range []string{".nan", ".inf", "-.inf"} {
		_, err := Parse([]byte("id: a\ncosts:\n  storage_gb: " + v + "\n"))
		assert.ErrorIs(t, err, ErrNonFinite, v)
	}
}

func TestHash_NonFinite(t *testing.T) {
	a := sample()
	a.Costs.StorageGB = math.NaN()
	b := sample()
	b.Benefits.HourlyRate = math.Inf(1)

	for _, s := range []Scenario{a, b} {
		_, err := Hash(s)
		assert.ErrorIs(t, err, ErrNonFinite)
		_, err = CanonicalJSON(s)
		assert.ErrorIs(t, err, ErrNonFinite)
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("id: a\nscorez: {}\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := Scenario{
		ID:             "v",
		Mode:           "turbo",
		TargetScores:   Scores{DimUserReach: 4, "made_up": 2},
		MaturityScores: MaturityScores{MatData: 0},
		Systems:        []string{"SAP", "sap ", ""},
	}

	var fields []string
	for _, issue := range s.Validate() {
		fields = append(fields, issue.Field)
	}

	assert.ElementsMatch(t, []string{
		"mode",
		"target_scores.made_up",
		"target_scores.user_reach",
		"maturity_scores.data",
		"systems[1]",
		"systems[2]",
	}, fields)

	clean := sample()
	assert.Empty(t, clean.Validate())

	clean.Costs.StorageGB = math.Inf(-1)
	issues := clean.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, "costs.storage_gb", issues[0].Field)
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("")
	assert.True(t, ok)
	assert.Equal(t, ModeFull, m)

	m, ok = ParseMode(" Quick ")
	assert.True(t, ok)
	assert.Equal(t, ModeQuick, m)

	_, ok = ParseMode("other")
	assert.False(t, ok)
}
