package service

import (
	"context"
	"time"

	"github.com/smallbiznis/revlens/internal/clock"
	"github.com/smallbiznis/revlens/internal/config"
	"github.com/smallbiznis/revlens/internal/detection/domain"
	"github.com/smallbiznis/revlens/internal/detection/rules"
	"github.com/smallbiznis/revlens/internal/detection/validate"
	"github.com/smallbiznis/revlens/internal/observability/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/smallbiznis/revlens/internal/detection")

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Cfg   config.DetectionConfig
}

// Service runs the fixed rule list against one snapshot per call. It is
// stateless between calls and safe for concurrent snapshots.
type Service struct {
	log       *zap.Logger
	rules     []domain.Rule
	validator *validate.Validator
	metrics   *metrics.DetectionMetrics
	parallel  bool
}

// NewService wires the default rule order: missing charge, incorrect
// rate, usage mismatch, duplicate entry.
func NewService(p Params) domain.Service {
	ruleSet := []domain.Rule{
		rules.NewMissingChargeRule(p.Clock),
		rules.NewIncorrectRateRule(p.Clock, rules.StaticRateSource{Rate: p.Cfg.ExpectedRate}, p.Cfg.RateTolerance),
		rules.NewUsageMismatchRule(p.Clock, p.Cfg.UnitPrice, p.Cfg.UsageTolerance),
		rules.NewDuplicateEntryRule(p.Clock),
	}
	return newService(p.Log, ruleSet, p.Cfg.Parallel)
}

func newService(log *zap.Logger, ruleSet []domain.Rule, parallel bool) *Service {
	return &Service{
		log:       log.Named("detection.service"),
		rules:     ruleSet,
		validator: validate.New(),
		metrics:   metrics.Detection(),
		parallel:  parallel,
	}
}

// Scan validates the snapshot, runs every rule and concatenates their
// incidents preserving rule-list order. Rules never observe each other's
// output, so parallel execution cannot change the result.
func (s *Service) Scan(ctx context.Context, snapshot domain.Snapshot) (domain.Report, error) {
	ctx, span := tracer.Start(ctx, "detection.scan")
	defer span.End()

	start := time.Now()

	if err := s.validator.Snapshot(snapshot); err != nil {
		s.metrics.IncValidationFailure()
		s.log.Warn("snapshot rejected", zap.Error(err))
		return domain.Report{}, err
	}

	perRule := make([][]domain.Incident, len(s.rules))
	if s.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range s.rules {
			g.Go(func() error {
				perRule[i] = s.runRule(gctx, s.rules[i], snapshot)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range s.rules {
			perRule[i] = s.runRule(ctx, s.rules[i], snapshot)
		}
	}

	total := 0
	for _, incidents := range perRule {
		total += len(incidents)
	}
	all := make([]domain.Incident, 0, total)
	for _, incidents := range perRule {
		all = append(all, incidents...)
	}

	for _, incident := range all {
		s.metrics.IncIncident(string(incident.Type), string(incident.Severity))
	}

	elapsed := time.Since(start)
	s.metrics.ObserveScan(elapsed)
	span.SetAttributes(attribute.Int("detection.incidents", total))

	s.log.Info("scan complete",
		zap.Int("billing_records", len(snapshot.BillingRecords)),
		zap.Int("provisioning_records", len(snapshot.ProvisioningRecords)),
		zap.Int("usage_records", len(snapshot.UsageRecords)),
		zap.Int("contracts", len(snapshot.Contracts)),
		zap.Int("incidents", total),
		zap.Duration("elapsed", elapsed),
	)

	return domain.Report{Incidents: all, Count: total}, nil
}

func (s *Service) runRule(ctx context.Context, rule domain.Rule, snapshot domain.Snapshot) []domain.Incident {
	ctx, span := tracer.Start(ctx, "detection.rule",
		trace.WithAttributes(attribute.String("detection.rule", rule.Name())))
	defer span.End()

	start := time.Now()
	incidents := rule.Check(ctx, snapshot)
	s.metrics.ObserveRule(rule.Name(), time.Since(start))

	if len(incidents) > 0 {
		s.log.Debug("rule emitted incidents",
			zap.String("rule", rule.Name()),
			zap.Int("incidents", len(incidents)),
		)
	}
	return incidents
}
