// Command trainer runs the batch side of the loan default workflow:
//
//	trainer clean    -in raw.csv -out cleaned.csv
//	trainer profile  -in raw.csv
//	trainer train    -data cleaned.csv [-strategy random_forest] [-schema loan-ordinal@v1]
//	trainer insights -data cleaned.csv
//	trainer schedule [-cron "@daily"]
//
// Settings not given as flags come from the environment and TRAINING_CONFIG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mohana-teja/loan-default-dashboard/internal/application/dto"
	"github.com/Mohana-teja/loan-default-dashboard/internal/application/usecase"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/bootstrap"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/config"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/dataset"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/scheduler"
	"github.com/Mohana-teja/loan-default-dashboard/internal/infrastructure/telemetry"
	"github.com/Mohana-teja/loan-default-dashboard/internal/presentation/rest"
	"github.com/Mohana-teja/loan-default-dashboard/pkg/observability"
)

const usage = `usage: trainer <command> [flags]

commands:
  clean     derive labels and write the cleaned dataset
  profile   summarise the columns of a raw dataset
  train     fit, evaluate and register a model
  insights  print aggregate statistics of a cleaned dataset
  schedule  clean and retrain on a cron schedule
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		slog.Error("trainer failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// app holds the wiring shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *dataset.CSVStore
	cleaner *service.Cleaner
	out     io.Writer
}

func run(ctx context.Context, command string, args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	in := fs.String("in", cfg.Training.RawPath, "raw dataset CSV")
	outPath := fs.String("out", cfg.Training.CleanedPath, "cleaned dataset CSV")
	data := fs.String("data", cfg.DatasetPath, "cleaned dataset CSV")
	strategy := fs.String("strategy", cfg.Training.Strategy, "logistic_regression, random_forest or gradient_boosting")
	schema := fs.String("schema", cfg.Training.Schema, "feature schema, e.g. loan-ordinal@v1")
	schedule := fs.String("cron", cfg.Training.Schedule, "retraining schedule for the schedule command")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Training.Strategy = *strategy
	cfg.Training.Schema = *schema
	cfg.Training.RawPath = *in
	cfg.Training.CleanedPath = *outPath
	cfg.Training.Schedule = *schedule
	if err := cfg.Validate(); err != nil {
		return err
	}

	a := &app{
		cfg: cfg,
		logger: observability.InitLogger(observability.LogConfig{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			Service: cfg.ServiceName + "-trainer",
			Env:     cfg.Environment,
		}),
		store:   dataset.NewCSVStore(),
		cleaner: service.NewCleaner(),
		out:     out,
	}

	switch command {
	case "clean":
		return a.clean(ctx, *in, *outPath)
	case "profile":
		return a.profile(ctx, *in)
	case "train":
		return a.withTraining(ctx, func(train *usecase.TrainModel, _ http.Handler) error {
			return a.train(ctx, train, *data)
		})
	case "insights":
		return a.insights(ctx, *data)
	case "schedule":
		return a.schedule(ctx)
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) clean(ctx context.Context, in, out string) error {
	resp, err := usecase.NewCleanDataset(a.store, a.cleaner, a.logger).
		Execute(ctx, dto.CleanRequest{InputPath: in, OutputPath: out})
	if err != nil {
		return err
	}
	r := resp.Report
	fmt.Fprintf(a.out, "Cleaned %d of %d rows into %s (%d dropped)\n", r.RowsKept, r.RowsRead, out, len(r.Dropped))
	fmt.Fprintf(a.out, "Default distribution: 0=%d 1=%d\n", r.LabelCounts[0], r.LabelCounts[1])
	return nil
}

func (a *app) profile(ctx context.Context, in string) error {
	p, err := usecase.NewProfileDataset(a.store, service.NewProfiler()).Execute(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, p.String())
	return nil
}

func (a *app) insights(ctx context.Context, data string) error {
	cache, closeCache := bootstrap.InsightsCache(ctx, a.cfg, a.logger)
	defer closeCache()

	resp, err := usecase.NewGenerateInsights(a.store, cache, a.cleaner, service.NewInsightsReporter(), a.logger).
		Execute(ctx, dto.InsightsRequest{DatasetPath: data})
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, resp.Report.String())
	return nil
}

func (a *app) train(ctx context.Context, train *usecase.TrainModel, data string) error {
	resp, err := train.Execute(ctx, dto.TrainRequest{DatasetPath: data})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Model %s (%s, %s) trained on %d rows, evaluated on %d\n\n%s",
		resp.Model.ID, resp.Model.Strategy, resp.Model.Schema,
		resp.Summary.TrainRows, resp.Summary.TestRows, resp.Report)
	return nil
}

// withTraining wires the registry, publisher, metrics and tracer around fn.
// fn also receives the Prometheus handler for the training metrics.
func (a *app) withTraining(ctx context.Context, fn func(train *usecase.TrainModel, metricsHandler http.Handler) error) error {
	shutdownTracer := bootstrap.Tracing(ctx, a.cfg, a.logger)
	defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer flush

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: a.cfg.ServiceName + "-trainer"})
	if err != nil {
		return err
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck
	metrics, err := telemetry.NewMetrics(meterProvider)
	if err != nil {
		return err
	}

	repo, closeRepo, err := bootstrap.ModelRepository(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	publisher, closePublisher, err := bootstrap.EventPublisher(a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	trainer, err := bootstrap.Trainer(a.cfg.Training)
	if err != nil {
		return err
	}

	return fn(usecase.NewTrainModel(a.store, repo, publisher, metrics, a.cleaner, trainer, a.logger), metricsHandler)
}

// schedule cleans the raw file and retrains on every tick until ctx ends.
// /healthz and /metrics are served on HTTP_PORT meanwhile.
func (a *app) schedule(ctx context.Context) error {
	if a.cfg.Training.Schedule == "" {
		return errors.New("schedule command requires -cron or schedule in TRAINING_CONFIG")
	}

	return a.withTraining(ctx, func(train *usecase.TrainModel, metricsHandler http.Handler) error {
		sched := scheduler.New(ctx, a.logger)
		err := sched.Register("retrain", a.cfg.Training.Schedule, func(ctx context.Context) error {
			if err := a.clean(ctx, a.cfg.Training.RawPath, a.cfg.Training.CleanedPath); err != nil {
				return err
			}
			return a.train(ctx, train, a.cfg.Training.CleanedPath)
		})
		if err != nil {
			return err
		}

		mux := http.NewServeMux()
		rest.NewHealthHandler(a.cfg.ServiceName+"-trainer", nil, a.logger).RegisterRoutes(mux)
		mux.Handle("GET /metrics", metricsHandler)
		srv := &http.Server{Addr: a.cfg.HTTPAddr(), Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sched.Start()
		var serveErr error
		select {
		case <-ctx.Done():
			a.logger.Info("shutdown signal received")
		case serveErr = <-errCh:
		}
		sched.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("HTTP server shutdown error", "error", err)
		}
		return serveErr
	})
}
