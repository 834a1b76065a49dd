package render

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hargabyte/agentsizer/internal/report"
	"github.com/hargabyte/agentsizer/internal/scenario"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleModel(t *testing.T, mode scenario.Mode) *report.Model {
	t.Helper()
	current := scenario.Scores{}
	target := scenario.Scores{}
	for _, d := range scenario.Dimensions {
		current[d] = 1
		target[d] = 2
	}
	s := scenario.Scenario{
		ID:            "s-1",
		Name:          "Service desk",
		Mode:          mode,
		CurrentScores: current,
		TargetScores:  target,
		Systems:       []string{"ServiceNow", "SharePoint Online", "Billing | legacy"},
		Metadata:      scenario.Metadata{Organization: "Contoso", Industry: "retail"},
		Comments:      map[scenario.Dimension]string{scenario.DimUserReach: "All staff"},
	}
	m, err := report.Build(s, nil, report.BuildOptions{Now: fixedNow, Version: "test"})
	require.NoError(t, err)
	return m
}

func TestRenderDocumentSectionOrder(t *testing.T) {
	out := string(RenderDocument(sampleModel(t, scenario.ModeFull)))

	headings := []string{
		"# Contoso: Service desk",
		"## " + HeadingSummary,
		"## " + HeadingOverview,
		"## " + HeadingDimensions,
		"## " + HeadingArchitecture,
		"## " + HeadingBlueprints,
		"## " + HeadingTopics,
		"## " + HeadingDiagrams,
		"## " + HeadingDatasets,
		"## " + HeadingConnectors,
		"## " + HeadingGovernance,
		"## " + HeadingCosts,
		"## " + HeadingROI,
		"## " + HeadingRoadmap,
		"## " + HeadingDelivery,
		"## " + HeadingGlossary,
	}
	require.True(t, strings.HasPrefix(out, headings[0]+"\n"))
	last := 0
	for _, h := range headings[1:] {
		idx := strings.Index(out, "\n"+h+"\n")
		require.NotEqual(t, -1, idx, "missing heading %q", h)
		assert.Greater(t, idx, last, "heading %q out of order", h)
		last = idx
	}
	assert.NotContains(t, out, NotAvailable)
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, "_Generated 2026-03-01T09:30:00Z by agentsizer test.")
}

func TestRenderDocumentQuickModePlaceholders(t *testing.T) {
	out := string(RenderDocument(sampleModel(t, scenario.ModeQuick)))

	for _, h := range []string{HeadingCosts, HeadingROI, HeadingRoadmap, HeadingDelivery} {
		section := sectionText(out, "## "+h)
		assert.Contains(t, section, NotAvailable, "section %s", h)
	}
	assert.NotContains(t, sectionText(out, "## "+HeadingConnectors), NotAvailable)
}

func TestRenderDocumentDimensionTable(t *testing.T) {
	out := string(RenderDocument(sampleModel(t, scenario.ModeFull)))

	assert.Contains(t, out, "| User reach | 1 | 2 | +1 | All staff |")
	assert.Contains(t, out, `Billing \| legacy`, "pipes are escaped in table cells")
}

func TestRenderDocumentGlossaryOmittedWhenEmpty(t *testing.T) {
	m := sampleModel(t, scenario.ModeFull)
	m.Glossary = nil

	out := string(RenderDocument(m))
	assert.NotContains(t, out, "## "+HeadingGlossary)
}

func TestRenderDocumentDeterministic(t *testing.T) {
	m := sampleModel(t, scenario.ModeFull)
	assert.Equal(t, RenderDocument(m), RenderDocument(m))
}

func TestRenderDocumentEmptyScenario(t *testing.T) {
	m, err := report.Build(scenario.Scenario{}, nil, report.BuildOptions{Now: fixedNow})
	require.NoError(t, err)
	out := string(RenderDocument(m))

	assert.Contains(t, out, "# Untitled scenario")
	assert.Contains(t, out, "No systems in scope.")
	assert.Contains(t, out, "Scenario hash "+m.Meta.ScenarioHash+",")
}

func TestRenderDocumentFooterCarriesScenarioID(t *testing.T) {
	m := sampleModel(t, scenario.ModeFull)
	m.Scenario.ID = "zz-unique-id-42"

	out := string(RenderDocument(m))
	assert.Contains(t, out, "Scenario zz-unique-id-42 (hash "+m.Meta.ScenarioHash+")")
}

func TestRenderDocumentFreeTextVerbatim(t *testing.T) {
	m := sampleModel(t, scenario.ModeFull)
	m.Scenario.Metadata.Notes = "Covers 100% of tickets, 5%d of them urgent"

	out := string(RenderDocument(m))
	assert.Contains(t, out, "Covers 100% of tickets, 5%d of them urgent\n")
	assert.NotContains(t, out, "%!")
}

// sectionText returns the text from heading to the next level-2 heading.
func sectionText(doc, heading string) string {
	start := strings.Index(doc, "\n"+heading+"\n")
	if start < 0 {
		return ""
	}
	rest := doc[start+len(heading)+1:]
	if end := strings.Index(rest, "\n## "); end >= 0 {
		return rest[:end]
	}
	return rest
}

func TestJSONRoundTrip(t *testing.T) {
	for _, mode := range []scenario.Mode{scenario.ModeFull, scenario.ModeQuick} {
		m := sampleModel(t, mode)

		data, err := RenderJSON(m)
		require.NoError(t, err)
		got, err := ParseJSON(data)
		require.NoError(t, err)

		if diff := cmp.Diff(m, got); diff != "" {
			t.Errorf("%s mode round trip mismatch (-want +got):\n%s", mode, diff)
		}
	}
}

func TestJSONHasNoOmittedFields(t *testing.T) {
	data, err := RenderJSON(sampleModel(t, scenario.ModeQuick))
	require.NoError(t, err)

	assert.Contains(t, string(data), `"costs": null`)
	assert.Contains(t, string(data), `"maturity": null`)
}

func TestParseJSONRejectsUnknownFields(t *testing.T) {
	_, err := ParseJSON([]byte(`{"meta": {}, "surprise": 1}`))
	assert.Error(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	m := sampleModel(t, scenario.ModeFull)

	data, err := RenderYAML(m)
	require.NoError(t, err)
	got, err := ParseYAML(data)
	require.NoError(t, err)

	if diff := cmp.Diff(m, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}

type fakeImager struct {
	err   error
	calls int
}

func (f *fakeImager) Image(_ context.Context, language, source string) ([]byte, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("<svg>" + language + "</svg>"), "svg", nil
}

func archiveNames(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = body
		assert.True(t, f.Modified.Equal(fixedNow), "entry %s timestamp", f.Name)
	}
	return out
}

func TestBuildArchive(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)

	m := sampleModel(t, scenario.ModeFull)
	data, err := BuildArchive(context.Background(), m, ArchiveOptions{})
	require.NoError(t, err)

	files := archiveNames(t, data)
	for _, name := range []string{
		EntryDocument,
		EntryJSON,
		EntryYAML,
		"diagrams/agent-flow.mmd",
		"diagrams/agent-flow.d2",
		"diagrams/system-integration.mmd",
		"diagrams/governance.d2",
		"datasets/experience-agent-evaluation.csv",
		"blueprints/contoso-concierge.yaml",
		"connectors/servicenow.yaml",
	} {
		assert.Contains(t, files, name)
	}
	assert.Equal(t, RenderDocument(m), files[EntryDocument])
	assert.Contains(t, string(files[EntryDocument]), "Scenario s-1 (hash "+m.Meta.ScenarioHash+")")

	parsed, err := ParseJSON(files[EntryJSON])
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(m, parsed))
}

func TestBuildArchiveReproducible(t *testing.T) {
	m := sampleModel(t, scenario.ModeFull)

	a, err := BuildArchive(context.Background(), m, ArchiveOptions{})
	require.NoError(t, err)
	b, err := BuildArchive(context.Background(), m, ArchiveOptions{})
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "archives of the same model differ")
}

func TestBuildArchiveQuickModeOmitsFolders(t *testing.T) {
	data, err := BuildArchive(context.Background(), sampleModel(t, scenario.ModeQuick), ArchiveOptions{})
	require.NoError(t, err)

	for name := range archiveNames(t, data) {
		assert.False(t, strings.HasPrefix(name, FolderDatasets), "unexpected %s", name)
	}
}

func TestBuildArchiveImages(t *testing.T) {
	m := sampleModel(t, scenario.ModeFull)

	ok := &fakeImager{}
	data, err := BuildArchive(context.Background(), m, ArchiveOptions{Imager: ok})
	require.NoError(t, err)
	files := archiveNames(t, data)
	assert.Equal(t, 3, ok.calls)
	assert.Equal(t, "<svg>mermaid</svg>", string(files["diagrams/agent-flow.svg"]))

	failing := &fakeImager{err: errors.New("service down")}
	data, err = BuildArchive(context.Background(), m, ArchiveOptions{Imager: failing})
	require.NoError(t, err, "image failures never fail the archive")
	files = archiveNames(t, data)
	assert.NotContains(t, files, "diagrams/agent-flow.svg")
	assert.Contains(t, files, "diagrams/agent-flow.mmd")
}

func TestBuildArchiveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data, err := BuildArchive(ctx, sampleModel(t, scenario.ModeFull), ArchiveOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, data)
}

func TestBuildArchiveNilModel(t *testing.T) {
	_, err := BuildArchive(context.Background(), nil, ArchiveOptions{})
	assert.ErrorIs(t, err, ErrNilModel)
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"Agent flow":                 "agent-flow",
		"  Contoso: Concierge!! ":    "contoso-concierge",
		"SAP ERP / S4":               "sap-erp-s4",
		"***":                        "",
		strings.Repeat("ab ", 40):    strings.TrimRight(strings.Repeat("ab-", 22)[:64], "-"),
		"Ünïcode names are dropped ": "n-code-names-are-dropped",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeName(in), "sanitizeName(%q)", in)
	}
}

func TestUniqueNames(t *testing.T) {
	got := uniqueNames([]string{"Topic", "topic", "", "Other", "Topic"})
	assert.Equal(t, []string{"topic", "topic-2", "item-3", "other", "topic-5"}, got)
}

func TestKrokiImager(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.URL.Path != "/mermaid/svg" || r.Method != http.MethodPost {
			http.Error(w, "bad route", http.StatusNotFound)
			return
		}
		w.Write([]byte("<svg>" + string(body) + "</svg>"))
	}))
	defer srv.Close()

	k := NewKrokiImager(srv.URL+"/", time.Second)
	img, ext, err := k.Image(context.Background(), "mermaid", "flowchart LR")
	require.NoError(t, err)
	assert.Equal(t, "svg", ext)
	assert.Equal(t, "<svg>flowchart LR</svg>", string(img))

	_, _, err = k.Image(context.Background(), "d2", "a -> b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestRenderPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !bytes.HasPrefix(body, []byte("# Contoso")) {
			http.Error(w, "not markdown", http.StatusBadRequest)
			return
		}
		w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	pdf, err := RenderPDF(context.Background(), sampleModel(t, scenario.ModeFull), NewHTTPPDFConverter(srv.URL, 0))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(pdf))

	_, err = RenderPDF(context.Background(), nil, NewHTTPPDFConverter(srv.URL, 0))
	assert.ErrorIs(t, err, ErrNilModel)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "USD 122,700.00", money("USD", 122700))
	assert.Equal(t, "1,234.50", money("", 1234.5))
}
