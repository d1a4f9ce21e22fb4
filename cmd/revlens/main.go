package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/smallbiznis/revlens/internal/clock"
	"github.com/smallbiznis/revlens/internal/config"
	"github.com/smallbiznis/revlens/internal/detection"
	"github.com/smallbiznis/revlens/internal/detection/domain"
	"github.com/smallbiznis/revlens/internal/observability"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		detection.Module,

		fx.Invoke(runScan),
	)
	app.Run()
}

// runScan performs one detection pass: decode the snapshot wire shape
// from the input path (or stdin), scan, write the report to stdout.
func runScan(lc fx.Lifecycle, shutdowner fx.Shutdowner, log *zap.Logger, svc domain.Service) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				if err := scan(context.Background(), log, svc); err != nil {
					log.Error("scan failed", zap.Error(err))
					code = 1
				}
				_ = shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}

func scan(ctx context.Context, log *zap.Logger, svc domain.Service) error {
	input, closeInput, err := openInput(os.Args)
	if err != nil {
		return err
	}
	defer closeInput()

	var snapshot domain.Snapshot
	if err := json.NewDecoder(input).Decode(&snapshot); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	report, err := svc.Scan(ctx, snapshot)
	if err != nil {
		return err
	}

	summary := domain.Summarize(report)
	log.Info("scan summary",
		zap.Int("incidents", summary.Total),
		zap.Any("by_type", summary.ByType),
		zap.Any("by_severity", summary.BySeverity),
		zap.Any("impact_by_currency", summary.ImpactByCurrency),
	)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func openInput(args []string) (io.Reader, func(), error) {
	if len(args) < 2 || args[1] == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[1])
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
