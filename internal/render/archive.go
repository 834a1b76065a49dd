package render

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/hargabyte/agentsizer/internal/generate"
	"github.com/hargabyte/agentsizer/internal/report"
)

// Archive entry names and folders.
const (
	EntryDocument      = "report.md"
	EntryJSON          = "report.json"
	EntryYAML          = "report.yaml"
	FolderDiagrams     = "diagrams/"
	FolderDatasets     = "datasets/"
	FolderBlueprints   = "blueprints/"
	FolderTopics       = "topics/"
	FolderConnectors   = "connectors/"
	maxSanitizedLength = 64
)

// ErrNilModel is returned when there is no model to render.
var ErrNilModel = errors.New("render: nil report model")

// ArchiveOptions configure BuildArchive.
type ArchiveOptions struct {
	// Imager, when set, adds rendered images next to the diagram sources.
	// Image failures are logged and the image is skipped.
	Imager DiagramImager
	Logger *zap.Logger
}

type entry struct {
	name string
	data []byte
}

type archiveJob func(ctx context.Context) ([]entry, error)

// BuildArchive packages the document, both serializations and per-artifact
// files into a zip. Artifacts are rendered concurrently and written in a fixed
// order with the model timestamp, so the same model yields the same bytes.
// Either the whole archive is returned or an error.
func BuildArchive(ctx context.Context, m *report.Model, opts ArchiveOptions) ([]byte, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	jobs := []archiveJob{
		func(context.Context) ([]entry, error) {
			return []entry{{EntryDocument, RenderDocument(m)}}, nil
		},
		func(context.Context) ([]entry, error) {
			data, err := RenderJSON(m)
			return []entry{{EntryJSON, data}}, err
		},
		func(context.Context) ([]entry, error) {
			data, err := RenderYAML(m)
			return []entry{{EntryYAML, data}}, err
		},
		func(ctx context.Context) ([]entry, error) {
			return diagramEntries(ctx, m.Diagrams, opts.Imager, logger), nil
		},
		func(context.Context) ([]entry, error) {
			return datasetEntries(m.Datasets)
		},
		func(context.Context) ([]entry, error) {
			return blueprintEntries(m.Blueprints)
		},
		func(context.Context) ([]entry, error) {
			return topicEntries(m.Topics)
		},
		func(context.Context) ([]entry, error) {
			return connectorEntries(m.Connectors)
		},
	}

	// Each job owns one slot, so no locking is needed.
	results := make([][]entry, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			out, err := job(gctx)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rendering archive: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rendering archive: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	for _, group := range results {
		for _, e := range group {
			w, err := zw.CreateHeader(&zip.FileHeader{
				Name:     e.name,
				Method:   zip.Deflate,
				Modified: m.Meta.GeneratedAt,
			})
			if err != nil {
				return nil, fmt.Errorf("adding %s: %w", e.name, err)
			}
			if _, err := w.Write(e.data); err != nil {
				return nil, fmt.Errorf("writing %s: %w", e.name, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	logger.Debug("archive built",
		zap.Int("bytes", buf.Len()),
		zap.String("scenario_hash", m.Meta.ScenarioHash),
	)
	return buf.Bytes(), nil
}

func diagramEntries(ctx context.Context, set *generate.DiagramSet, imager DiagramImager, logger *zap.Logger) []entry {
	if set == nil {
		return nil
	}
	titles := make([]string, len(set.Diagrams))
	for i, d := range set.Diagrams {
		titles[i] = d.Title
	}
	names := uniqueNames(titles)

	var out []entry
	for i, d := range set.Diagrams {
		base := FolderDiagrams + names[i]
		out = append(out,
			entry{base + ".mmd", []byte(d.Mermaid)},
			entry{base + ".d2", []byte(d.D2)},
		)
		if imager == nil {
			continue
		}
		img, ext, err := imager.Image(ctx, "mermaid", d.Mermaid)
		if err != nil {
			logger.Warn("diagram image skipped", zap.String("diagram", d.ID), zap.Error(err))
			continue
		}
		out = append(out, entry{base + "." + ext, img})
	}
	return out
}

func datasetEntries(set *generate.DatasetSet) ([]entry, error) {
	if set == nil {
		return nil, nil
	}
	titles := make([]string, len(set.Datasets))
	for i, ds := range set.Datasets {
		titles[i] = ds.Name
	}
	names := uniqueNames(titles)

	var out []entry
	for i, ds := range set.Datasets {
		data, err := ds.CSV()
		if err != nil {
			return nil, err
		}
		out = append(out, entry{FolderDatasets + names[i] + ".csv", data})
	}
	return out, nil
}

func blueprintEntries(set *generate.BlueprintSet) ([]entry, error) {
	if set == nil {
		return nil, nil
	}
	titles := make([]string, len(set.Blueprints))
	for i, bp := range set.Blueprints {
		titles[i] = bp.Name
	}
	return yamlEntries(FolderBlueprints, uniqueNames(titles), len(set.Blueprints), func(i int) any {
		return set.Blueprints[i]
	})
}

func topicEntries(set *generate.TopicSet) ([]entry, error) {
	if set == nil {
		return nil, nil
	}
	titles := make([]string, len(set.Topics))
	for i, t := range set.Topics {
		titles[i] = t.Name
	}
	return yamlEntries(FolderTopics, uniqueNames(titles), len(set.Topics), func(i int) any {
		return set.Topics[i]
	})
}

func connectorEntries(set *generate.ConnectorMap) ([]entry, error) {
	if set == nil {
		return nil, nil
	}
	titles := make([]string, len(set.Connectors))
	for i, c := range set.Connectors {
		titles[i] = c.Name
	}
	return yamlEntries(FolderConnectors, uniqueNames(titles), len(set.Connectors), func(i int) any {
		return set.Connectors[i]
	})
}

func yamlEntries(folder string, names []string, n int, item func(int) any) ([]entry, error) {
	out := make([]entry, 0, n)
	for i := 0; i < n; i++ {
		data, err := yaml.Marshal(item(i))
		if err != nil {
			return nil, fmt.Errorf("encoding %s%s: %w", folder, names[i], err)
		}
		out = append(out, entry{folder + names[i] + ".yaml", data})
	}
	return out, nil
}

// sanitizeName lowercases a title and reduces it to [a-z0-9-].
func sanitizeName(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimRight(b.String(), "-")
	if len(name) > maxSanitizedLength {
		name = strings.TrimRight(name[:maxSanitizedLength], "-")
	}
	return name
}

// uniqueNames sanitizes titles. Empty or colliding names fall back to the
// title's 1-based position.
func uniqueNames(titles []string) []string {
	used := make(map[string]bool, len(titles))
	out := make([]string, len(titles))
	for i, t := range titles {
		name := sanitizeName(t)
		if name == "" || used[name] {
			base := name
			if base == "" {
				base = "item"
			}
			name = fmt.Sprintf("%s-%d", base, i+1)
			for used[name] {
				name += "-" + fmt.Sprint(i+1)
			}
		}
		used[name] = true
		out[i] = name
	}
	return out
}
