// Package pipeline orchestrates a governed run: load policies, enforce
// dataset access, validate quality, apply transforms, and persist an
// auditable report. Data violations are collected, never fatal; config
// errors and audit failures abort the run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"datagov/internal/access"
	"datagov/internal/audit"
	"datagov/internal/catalog"
	"datagov/internal/lineage"
	"datagov/internal/platform/metrics"
	"datagov/internal/policy"
	"datagov/internal/quality"
	"datagov/internal/transform"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/requestcontext"
	"datagov/pkg/tabular"
)

// DefaultActor is recorded when a run has no authenticated actor (CLI runs,
// scheduled jobs without a service account).
const DefaultActor = "governed_pipeline"

// Config locates the policy document and the data directories.
type Config struct {
	PolicyPath   string
	RawDir       string
	ProcessedDir string
	LogsDir      string
}

// Service is the pipeline orchestrator. Build it with New, then call Setup
// once before Run.
type Service struct {
	cfg        Config
	catalog    *catalog.Service
	controller *access.Controller
	tracker    LineageTracker
	auditor    AuditPublisher

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	registry  *policy.Registry
	validator *quality.Validator
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New creates the pipeline service.
func New(cfg Config, catalogSvc *catalog.Service, controller *access.Controller,
	tracker LineageTracker, auditor AuditPublisher, opts ...Option) (*Service, error) {
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service is required")
	}
	if controller == nil {
		return nil, fmt.Errorf("access controller is required")
	}
	if tracker == nil {
		return nil, fmt.Errorf("lineage tracker is required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("audit publisher is required")
	}

	svc := &Service{
		cfg:        cfg,
		catalog:    catalogSvc,
		controller: controller,
		tracker:    tracker,
		auditor:    auditor,
		tracer:     otel.Tracer("datagov/pipeline"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Setup loads the policy document and registers access policies and catalog
// assets. Must be called once before Run; config defects surface here when
// they can, or abort the first Run when they cannot.
func (s *Service) Setup(ctx context.Context) error {
	registry, err := policy.Load(s.cfg.PolicyPath)
	if err != nil {
		return err
	}
	s.registry = registry

	var qopts []quality.Option
	if s.logger != nil {
		qopts = append(qopts, quality.WithLogger(s.logger))
	}
	s.validator = quality.NewValidator(registry.QualityRules(), qopts...)

	for _, p := range registry.AccessPolicies() {
		if err := s.controller.AddPolicy(p); err != nil {
			return err
		}
	}
	for _, asset := range registry.Catalog() {
		if err := s.catalog.Register(ctx, asset); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "pipeline initialized",
			"access_policies", len(registry.AccessPolicies()),
			"catalog_assets", len(registry.Catalog()),
			"transform_steps", len(registry.Transforms()),
		)
	}
	return nil
}

// Validator exposes the configured quality validator for the HTTP surface.
// Nil until Setup has run.
func (s *Service) Validator() *quality.Validator {
	return s.validator
}

// Run executes one governed pipeline pass and returns its report.
//
// Stage order: enforce access + load, validate, transform, persist. Every
// stage stamps the audit trail; an emit failure aborts the run rather than
// producing an unaudited result.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	if s.validator == nil {
		return nil, dErrors.New(dErrors.CodeConfig, "pipeline not initialized: call Setup first")
	}

	runID := uuid.NewString()
	now := requestcontext.Now(ctx).UTC()
	actor := requestcontext.Actor(ctx)
	if actor == "" {
		actor = DefaultActor
	}

	ctx, span := s.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	if s.metrics != nil {
		s.metrics.IncRuns()
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		RunID: runID, Actor: actor, Role: requestcontext.Role(ctx),
		Action: audit.ActionRunStarted,
	}); err != nil {
		return nil, err
	}

	report, err := s.run(ctx, runID, actor, now)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncRunFailures()
		}
		// Best effort: the run already failed, a second audit failure
		// cannot make it fail harder.
		_ = s.auditor.Emit(ctx, audit.Event{
			RunID: runID, Actor: actor,
			Action: audit.ActionRunFailed,
			Detail: err.Error(),
		})
		return nil, err
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		RunID: runID, Actor: actor,
		Action: audit.ActionRunFinished,
		Detail: fmt.Sprintf("%d quality issues, %d lineage records",
			len(report.QualityIssues), len(report.Lineage)),
	}); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) run(ctx context.Context, runID, actor string, now time.Time) (*Report, error) {
	assets, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:          runID,
		ExecutedBy:     actor,
		StartedAt:      now,
		Regulations:    s.registry.Regulations(),
		Catalog:        assets,
		AccessPolicies: s.controller.Export(),
	}

	tables, err := s.loadStage(ctx, runID, assets)
	if err != nil {
		return nil, err
	}
	if err := s.checkRuleColumns(assets); err != nil {
		return nil, err
	}

	issues, err := s.validateStage(ctx, runID, assets, tables)
	if err != nil {
		return nil, err
	}
	report.QualityIssues = issues

	records, err := s.transformStage(ctx, actor, tables)
	if err != nil {
		return nil, err
	}
	report.Lineage = records

	report.FinishedAt = requestcontext.Now(ctx).UTC()
	if err := s.persistReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

// loadStage enforces read access per asset and loads its CSV source.
func (s *Service) loadStage(ctx context.Context, runID string, assets []catalog.Asset) (map[string]tabular.Table, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.load")
	defer span.End()

	tables := make(map[string]tabular.Table, len(assets))
	for _, asset := range assets {
		if !s.controller.Check(asset.ReadRole, asset.Name, "read") {
			if err := s.auditor.Emit(ctx, audit.Event{
				RunID: runID, Role: asset.ReadRole, Dataset: asset.Name,
				Action: audit.ActionAccessDenied, Decision: "deny",
			}); err != nil {
				return nil, err
			}
			return nil, dErrors.Newf(dErrors.CodeForbidden,
				"role %q has no read access to dataset %q", asset.ReadRole, asset.Name)
		}
		if err := s.auditor.Emit(ctx, audit.Event{
			RunID: runID, Role: asset.ReadRole, Dataset: asset.Name,
			Action: audit.ActionAccessGranted, Decision: "allow",
		}); err != nil {
			return nil, err
		}

		table, err := s.loadAsset(asset)
		if err != nil {
			return nil, err
		}
		tables[asset.Name] = table
	}
	return tables, nil
}

func (s *Service) loadAsset(asset catalog.Asset) (tabular.Table, error) {
	path := filepath.Join(s.cfg.RawDir, asset.Source)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tabular.Table{}, dErrors.Newf(dErrors.CodeNotFound,
				"source file %s for dataset %q not found", path, asset.Name)
		}
		return tabular.Table{}, dErrors.Wrap(err, dErrors.CodeInternal, "open dataset source")
	}
	defer f.Close()

	table, err := tabular.ReadCSV(f)
	if err != nil {
		return tabular.Table{}, dErrors.Wrap(err, dErrors.CodeInvalidInput,
			fmt.Sprintf("parse dataset %q", asset.Name))
	}
	return table, nil
}

// checkRuleColumns verifies every runnable rule targets a column the asset
// schema declares. The validator's contract leaves this to the caller: a
// rule against a missing column is a config bug, not a property of any row.
func (s *Service) checkRuleColumns(assets []catalog.Asset) error {
	byName := make(map[string]catalog.Asset, len(assets))
	for _, a := range assets {
		byName[a.Name] = a
	}
	for dataset, rules := range s.registry.QualityRules() {
		asset, loaded := byName[dataset]
		if !loaded {
			continue
		}
		for _, rule := range rules {
			if !s.validator.Supports(rule.Type) {
				continue
			}
			if !asset.HasColumn(rule.Column) {
				return dErrors.Newf(dErrors.CodeConfig,
					"quality rule %q targets column %q absent from dataset %q",
					rule.Name, rule.Column, dataset)
			}
		}
	}
	return nil
}

// validateStage fans validation out across datasets and flattens results in
// catalog order so reports stay deterministic. Each issue is stamped into
// the audit trail.
func (s *Service) validateStage(ctx context.Context, runID string, assets []catalog.Asset, tables map[string]tabular.Table) ([]quality.Issue, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.validate")
	defer span.End()

	results := make([][]quality.Issue, len(assets))
	g, gctx := errgroup.WithContext(ctx)
	for i, asset := range assets {
		g.Go(func() error {
			start := time.Now()
			issues, err := s.validator.Validate(gctx, asset.Name, tables[asset.Name])
			if err != nil {
				return err
			}
			if s.metrics != nil {
				s.metrics.ObserveValidation(asset.Name, time.Since(start).Seconds())
			}
			results[i] = issues
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []quality.Issue
	for i, asset := range assets {
		issues := results[i]
		for _, issue := range issues {
			// Defense in depth: the issue already names its dataset, the
			// merge stamps it again so a mistagged issue cannot hide.
			issue.Dataset = asset.Name
			all = append(all, issue)
			if s.metrics != nil {
				s.metrics.IncQualityIssue(asset.Name, string(issue.Severity))
			}
			if err := s.auditor.Emit(ctx, audit.Event{
				RunID: runID, Dataset: asset.Name,
				Action: audit.ActionQualityIssue,
				Detail: issue.RuleName + ": " + issue.Message,
			}); err != nil {
				return nil, err
			}
		}
		if len(issues) > 0 {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "quality issues found",
					"dataset", asset.Name,
					"issues", len(issues),
				)
			}
		}
	}
	return all, nil
}

// transformStage applies the configured steps in order, writing each derived
// dataset and its lineage record.
func (s *Service) transformStage(ctx context.Context, actor string, tables map[string]tabular.Table) ([]lineage.Record, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.transform")
	defer span.End()

	var records []lineage.Record
	for _, step := range s.registry.Transforms() {
		derived, err := transform.Apply(step, tables)
		if err != nil {
			return nil, err
		}
		tables[step.Name] = derived

		if err := s.writeProcessed(step.Name, derived); err != nil {
			return nil, err
		}

		record, err := s.tracker.Add(ctx, lineage.Record{
			Dataset:        step.Name,
			Sources:        step.Sources(),
			Transformation: step.Describe(),
			ExecutedBy:     actor,
		})
		if err != nil {
			return nil, err
		}
		records = append(records, record)

		if err := s.auditor.Emit(ctx, audit.Event{
			Actor: actor, Dataset: step.Name,
			Action: audit.ActionLineageAdded,
			Detail: record.Transformation,
		}); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Service) writeProcessed(name string, table tabular.Table) error {
	if err := os.MkdirAll(s.cfg.ProcessedDir, 0o755); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create processed dir")
	}
	path := filepath.Join(s.cfg.ProcessedDir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create processed file")
	}
	defer f.Close()
	if err := tabular.WriteCSV(f, table); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write processed file")
	}
	return nil
}

// persistReport writes the audit log JSON for the run.
func (s *Service) persistReport(report *Report) error {
	if err := os.MkdirAll(s.cfg.LogsDir, 0o755); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create logs dir")
	}
	name := fmt.Sprintf("audit_%s.json", report.StartedAt.Format("20060102T150405Z"))
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode run report")
	}
	if err := os.WriteFile(filepath.Join(s.cfg.LogsDir, name), payload, 0o644); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write run report")
	}
	return nil
}
