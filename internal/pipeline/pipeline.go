// Package pipeline runs the batch stages. The roots stage writes the
// projection dataset; the geo stage reads it back and writes the map and
// narrative datasets. Each stage either writes all of its outputs or none.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"shadowgap.org/internal/app"
	"shadowgap.org/internal/conflict"
	"shadowgap.org/internal/countries"
	"shadowgap.org/internal/incidents"
	"shadowgap.org/internal/logging"
	"shadowgap.org/internal/models"
	"shadowgap.org/internal/narrative"
	"shadowgap.org/internal/output"
	"shadowgap.org/internal/projection"
)

// ErrMissingInputFile wraps fs.ErrNotExist with the path of the missing input.
var ErrMissingInputFile = errors.New("missing input file")

type missingInputError struct {
	path string
}

func (e *missingInputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingInputFile, e.path)
}

func (e *missingInputError) Is(target error) bool {
	return target == ErrMissingInputFile || target == fs.ErrNotExist
}

// Runner executes stages against one Application.
type Runner struct {
	app *app.Application
}

func NewRunner(application *app.Application) *Runner {
	return &Runner{app: application}
}

// inputs are the datasets every stage loads.
type inputs struct {
	incidents *incidents.Dataset
	index     *conflict.Index
}

// RootsSummary describes a finished roots stage.
type RootsSummary struct {
	Rows      int
	Defaulted int
	Floored   int
	Top       models.ProjectionRecord
}

// GeoSummary describes a finished geo stage.
type GeoSummary struct {
	Countries  int
	Points     int
	BlackHoles int
	ShadowGap  []string
}

// Roots builds the projection table and writes it to RootsOutput.
func (r *Runner) Roots(ctx context.Context) (RootsSummary, error) {
	logger := r.logger(ctx)
	start := time.Now()
	cfg := r.app.Config

	in, err := r.load(ctx)
	if err != nil {
		return RootsSummary{}, err
	}

	res := projection.Build(in.incidents, in.index, r.app.Tables)
	if res.Defaulted > 0 {
		logging.LogWarning(logger, "incident countries missing from conflict index",
			slog.Int("count", res.Defaulted),
			slog.String("default_level", string(models.IndexLowInactive)),
			slog.Int("default_multiplier", models.DefaultMultiplier))
	}

	if err := ctx.Err(); err != nil {
		return RootsSummary{}, err
	}
	if err := output.WriteJSON(cfg.RootsOutput, res.Rows); err != nil {
		return RootsSummary{}, fmt.Errorf("write projection: %w", err)
	}

	summary := RootsSummary{
		Rows:      len(res.Rows),
		Defaulted: res.Defaulted,
		Floored:   res.Floored,
	}
	attrs := []slog.Attr{
		slog.String("output", cfg.RootsOutput),
		slog.Int("rows", summary.Rows),
		slog.Int("blackout_floored", summary.Floored),
		slog.Duration("duration", time.Since(start)),
	}
	if top, ok := res.Top(); ok {
		summary.Top = top
		attrs = append(attrs,
			slog.String("top_country", top.Country),
			slog.Int("top_projected", top.Projected))
	}
	logging.LogOperation(logger, "roots_stage_completed", attrs...)

	return summary, nil
}

// Geo composes the map and narrative datasets. It reads the projection the
// roots stage wrote so both stages agree on every number.
func (r *Runner) Geo(ctx context.Context) (_ GeoSummary, err error) {
	logger := r.logger(ctx)
	start := time.Now()
	cfg := r.app.Config

	if err := requireFile(cfg.RootsOutput); err != nil {
		return GeoSummary{}, err
	}

	in, err := r.load(ctx)
	if err != nil {
		return GeoSummary{}, err
	}

	rows, err := output.ReadProjection(cfg.RootsOutput)
	if err != nil {
		return GeoSummary{}, fmt.Errorf("read projection: %w", err)
	}
	logging.LogOperation(logger, "projection_loaded",
		slog.String("path", cfg.RootsOutput),
		slog.Int("rows", len(rows)))

	composer := narrative.NewComposer(in.incidents, in.index, r.app.Tables, models.NewProjectionLookup(rows))
	geo := composer.Geo()
	story := composer.Narrative(geo.CountryStats, narrative.Options{
		DeepDives:        r.canonical(cfg.DeepDiveCountries),
		TextureCountries: r.canonical(cfg.TextureCountries),
		ShadowGapSize:    cfg.ShadowGapSize,
	})

	if err := ctx.Err(); err != nil {
		return GeoSummary{}, err
	}

	// Geo and narrative outputs are only valid as a pair.
	var batch output.Batch
	defer logging.HandleDeferredError(&err, batch.Cleanup, logger, "discard staged outputs")
	if err = batch.Add(cfg.GeoOutput, geo); err != nil {
		return GeoSummary{}, fmt.Errorf("write geo dataset: %w", err)
	}
	if err = batch.Add(cfg.NarrativeOutput, story); err != nil {
		return GeoSummary{}, fmt.Errorf("write narrative dataset: %w", err)
	}
	if err = batch.Commit(); err != nil {
		return GeoSummary{}, err
	}

	summary := GeoSummary{
		Countries:  len(geo.CountryStats),
		Points:     len(geo.Incidents),
		BlackHoles: narrative.CountQuadrant(story.PrognosisData, models.QuadrantBlackHole),
	}
	for _, rec := range story.ShadowGap {
		summary.ShadowGap = append(summary.ShadowGap, rec.Country)
	}

	attrs := []slog.Attr{
		slog.String("geo_output", cfg.GeoOutput),
		slog.String("narrative_output", cfg.NarrativeOutput),
		slog.Int("countries", summary.Countries),
		slog.Int("incident_points", summary.Points),
		slog.Int("black_holes", summary.BlackHoles),
		slog.Duration("duration", time.Since(start)),
	}
	if len(story.ShadowGap) > 0 {
		attrs = append(attrs,
			slog.String("top_shadow_outlier", story.ShadowGap[0].Country),
			slog.Int("top_shadow_multiplier", story.ShadowGap[0].Multiplier))
	}
	logging.LogOperation(logger, "geo_stage_completed", attrs...)

	return summary, nil
}

// All runs roots then geo.
func (r *Runner) All(ctx context.Context) error {
	if _, err := r.Roots(ctx); err != nil {
		return fmt.Errorf("roots stage: %w", err)
	}
	if _, err := r.Geo(ctx); err != nil {
		return fmt.Errorf("geo stage: %w", err)
	}
	return nil
}

func (r *Runner) load(ctx context.Context) (*inputs, error) {
	logger := r.logger(ctx)
	cfg := r.app.Config

	for _, path := range []string{cfg.IncidentsPath, cfg.ConflictIndexPath} {
		if err := requireFile(path); err != nil {
			return nil, err
		}
	}

	n := countries.NewNormalizer(r.app.Tables)

	ds, err := incidents.Load(cfg.IncidentsPath, n, incidents.Options{YearFrom: cfg.YearFrom, YearTo: cfg.YearTo})
	if err != nil {
		return nil, fmt.Errorf("load incidents: %w", err)
	}
	logging.LogOperation(logger, "incidents_loaded",
		slog.String("path", cfg.IncidentsPath),
		slog.Int("incidents", ds.Len()),
		slog.Int("countries", len(ds.Countries())),
		slog.Int("undated", ds.Undated),
		slog.Int("out_of_window", ds.OutOfWindow),
		slog.Int("no_country", ds.NoCountry),
		slog.Int("invalid_points", ds.InvalidPoints))

	ix, err := conflict.Load(cfg.ConflictIndexPath, n)
	if err != nil {
		return nil, fmt.Errorf("load conflict index: %w", err)
	}
	logging.LogOperation(logger, "conflict_index_loaded",
		slog.String("path", cfg.ConflictIndexPath),
		slog.Int("countries", ix.Len()),
		slog.Int("skipped_rows", ix.SkippedRows))

	if unmapped := n.Unmapped(); len(unmapped) > 0 {
		logging.LogWarning(logger, "country names not in tables, used as given",
			slog.Int("count", len(unmapped)),
			slog.Any("names", unmapped))
	}

	return &inputs{incidents: ds, index: ix}, nil
}

// canonical maps configured country names onto the names the loaders use.
func (r *Runner) canonical(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, r.app.Tables.Canonical(name))
	}
	return out
}

func (r *Runner) logger(ctx context.Context) *slog.Logger {
	if r.app.Logger != nil {
		return r.app.Logger
	}
	return logging.FromContext(ctx)
}

func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &missingInputError{path: path}
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}
