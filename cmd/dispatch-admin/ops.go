package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/bootstrap"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/domain/sla"
	"github.com/tradedispatch/dispatch-api/internal/service"
)

type resolveSLAOptions struct {
	Trade   string
	Urgency string
}

type dispatchOptions struct {
	Timeout time.Duration
	JobID   string
}

type enrichOptions struct {
	Timeout     time.Duration
	TargetID    string
	Pending     bool
	Limit       int
	MaxAttempts int
}

type sweepOptions struct {
	Timeout time.Duration
}

type metricRow struct {
	name  string
	value any
}

func runSLAPresets(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("sla-presets", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	file := fs.String("file", cmdCtx.Config.SLAPresetsFile, "Preset table to print; empty uses the embedded defaults")
	if err := fs.Parse(args); err != nil {
		return err
	}

	presets, err := sla.LoadPresets(*file)
	if err != nil {
		return err
	}
	return printPresets(cmdCtx.Out, presets)
}

func runResolveSLA(cmdCtx *commandContext, args []string) error {
	opts, err := parseResolveSLAFlags(args)
	if err != nil {
		return err
	}

	presets, err := sla.LoadPresets(cmdCtx.Config.SLAPresetsFile)
	if err != nil {
		return err
	}
	resolver := sla.NewResolver(presets)
	cfg, exact := resolver.Lookup(opts.Trade, opts.Urgency)
	if !exact {
		cfg = resolver.Resolve(opts.Trade, opts.Urgency)
	}
	return printResolution(cmdCtx.Out, sla.Key(opts.Trade, opts.Urgency), cfg, exact)
}

func runDispatch(cmdCtx *commandContext, args []string) error {
	opts, err := parseDispatchFlags(args)
	if err != nil {
		return err
	}

	return withServices(cmdCtx, opts.Timeout, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		if svcs.Dispatch == nil {
			return errors.New("dispatch is disabled: email and cold outreach providers are required")
		}
		res, err := svcs.Dispatch.Dispatch(ctx, opts.JobID)
		if err != nil {
			return fmt.Errorf("dispatch job %s: %w", opts.JobID, err)
		}
		return printMetrics(cmdCtx.Out, []metricRow{
			{"Outreach", res.OutreachID},
			{"Recipients", res.TotalRecipients},
			{"Warm Sent", res.WarmSent},
			{"Cold Sent", res.ColdSent},
			{"Total Sent", res.TotalSent},
		})
	})
}

func runEnrich(cmdCtx *commandContext, args []string) error {
	opts, err := parseEnrichFlags(args, cmdCtx.Config.EnrichmentRunner.BatchSize, cmdCtx.Config.EnrichmentRunner.MaxAttempts)
	if err != nil {
		return err
	}

	return withServices(cmdCtx, opts.Timeout, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		if svcs.Enrichment == nil {
			return errors.New("enrichment is disabled: email intelligence and cold outreach providers are required")
		}
		if opts.Pending {
			res, err := svcs.Enrichment.RunPending(ctx, opts.Limit, opts.MaxAttempts)
			if err != nil {
				return fmt.Errorf("run pending enrichment: %w", err)
			}
			return printRunResult(cmdCtx.Out, res)
		}

		res, err := svcs.Enrichment.Enrich(ctx, opts.TargetID)
		if err != nil {
			return fmt.Errorf("enrich target %s: %w", opts.TargetID, err)
		}
		return printEnrichmentResult(cmdCtx.Out, res)
	})
}

func runSLASweep(cmdCtx *commandContext, args []string) error {
	opts, err := parseSweepFlags(args)
	if err != nil {
		return err
	}

	return withServices(cmdCtx, opts.Timeout, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		monitor, err := service.NewSLAMonitorService(service.SLAMonitorServiceOptions{
			Repo:     svcs.Repos.SLA,
			Jobs:     svcs.Repos.Jobs,
			Config:   cmdCtx.Config.SLAMonitor,
			Notifier: svcs.Observability.Notifier,
			Logger:   cmdCtx.Logger,
			Metrics:  svcs.Observability.Sink(),
		})
		if err != nil {
			return err
		}
		res, err := monitor.Sweep(ctx)
		if err != nil {
			return fmt.Errorf("sla sweep: %w", err)
		}
		return printMetrics(cmdCtx.Out, []metricRow{
			{"Timers Checked", res.Checked},
			{"Breached", res.Breached},
			{"Warnings", res.Warnings},
		})
	})
}

func runLeadStats(cmdCtx *commandContext, args []string) error {
	opts, err := parseSweepFlags(args)
	if err != nil {
		return err
	}

	return withServices(cmdCtx, opts.Timeout, func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
		stats, err := svcs.Repos.Leads.Stats(ctx)
		if err != nil {
			return fmt.Errorf("lead stats: %w", err)
		}
		return printLeadStats(cmdCtx.Out, stats)
	})
}

// withServices connects the database, and Redis when reachable, then builds
// the service container against them.
func withServices(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, bootstrap.ServiceContainer) error,
) error {
	return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
		redisClient, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
			DBConfig:    cmdCtx.Config.Postgres,
			RedisConfig: cmdCtx.Config.Redis,
			Logger:      cmdCtx.Logger,
		})
		if err != nil {
			cmdCtx.Logger.WarnContext(ctx, "redis unavailable; running without dispatch locks", "error", err)
			redisClient = nil
		} else {
			defer func() {
				if cerr := redisClient.Close(); cerr != nil {
					cmdCtx.Logger.Warn("redis close failed", "error", cerr)
				}
			}()
		}

		cfg := cmdCtx.Config
		svcs, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
			Config:      &cfg,
			DB:          db,
			RedisClient: redisClient,
			Logger:      cmdCtx.Logger,
		})
		if err != nil {
			return fmt.Errorf("build services: %w", err)
		}
		defer svcs.Close()
		return f(ctx, svcs)
	})
}

func parseResolveSLAFlags(args []string) (resolveSLAOptions, error) {
	fs := flag.NewFlagSet("resolve-sla", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := resolveSLAOptions{}
	fs.StringVar(&opts.Trade, "trade", "", "Trade to resolve, e.g. hvac")
	fs.StringVar(&opts.Urgency, "urgency", "standard", "Urgency to resolve: emergency, urgent, standard or scheduled")

	if err := fs.Parse(args); err != nil {
		return resolveSLAOptions{}, err
	}
	opts.Trade = strings.TrimSpace(opts.Trade)
	if opts.Trade == "" {
		return resolveSLAOptions{}, errors.New("--trade is required")
	}
	return opts, nil
}

func parseDispatchFlags(args []string) (dispatchOptions, error) {
	fs := flag.NewFlagSet("dispatch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dispatchOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait for the dispatch")
	fs.StringVar(&opts.JobID, "job", "", "Job ID to dispatch")

	if err := fs.Parse(args); err != nil {
		return dispatchOptions{}, err
	}
	opts.JobID = strings.TrimSpace(opts.JobID)
	if opts.JobID == "" {
		return dispatchOptions{}, errors.New("--job is required")
	}
	if opts.Timeout <= 0 {
		return dispatchOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseEnrichFlags(args []string, defaultLimit, defaultMaxAttempts int) (enrichOptions, error) {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := enrichOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait for enrichment")
	fs.StringVar(&opts.TargetID, "target", "", "Enrichment target ID")
	fs.BoolVar(&opts.Pending, "pending", false, "Process a batch of pending targets instead of one target")
	fs.IntVar(&opts.Limit, "limit", defaultLimit, "Maximum pending targets to process")
	fs.IntVar(&opts.MaxAttempts, "max-attempts", defaultMaxAttempts, "Skip failed targets with at least this many attempts")

	if err := fs.Parse(args); err != nil {
		return enrichOptions{}, err
	}
	opts.TargetID = strings.TrimSpace(opts.TargetID)
	switch {
	case opts.Pending && opts.TargetID != "":
		return enrichOptions{}, errors.New("--target and --pending are mutually exclusive")
	case !opts.Pending && opts.TargetID == "":
		return enrichOptions{}, errors.New("one of --target or --pending is required")
	case opts.Limit <= 0:
		return enrichOptions{}, errors.New("--limit must be greater than zero")
	case opts.MaxAttempts <= 0:
		return enrichOptions{}, errors.New("--max-attempts must be greater than zero")
	case opts.Timeout <= 0:
		return enrichOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseSweepFlags(args []string) (sweepOptions, error) {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := sweepOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait for the command")

	if err := fs.Parse(args); err != nil {
		return sweepOptions{}, err
	}
	if opts.Timeout <= 0 {
		return sweepOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func printPresets(out io.Writer, presets *sla.Presets) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Preset\tDispatch\tAssignment\tArrival\tCompletion"); err != nil {
		return fmt.Errorf("write presets header: %w", err)
	}
	for _, key := range presets.Keys() {
		if err := writeBudgetRow(w, key, presets.Entries[key]); err != nil {
			return fmt.Errorf("write preset %s: %w", key, err)
		}
	}
	if err := writeBudgetRow(w, "(fallback)", presets.Fallback); err != nil {
		return fmt.Errorf("write fallback preset: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush presets: %w", err)
	}
	return nil
}

func writeBudgetRow(w io.Writer, label string, cfg model.SLAConfig) error {
	return writef(w, "%s\t%d\t%d\t%d\t%d\n", label, cfg.Dispatch, cfg.Assignment, cfg.Arrival, cfg.Completion)
}

func printResolution(out io.Writer, key string, cfg model.SLAConfig, exact bool) error {
	source := "preset"
	if !exact {
		source = "fallback"
	}
	return printMetrics(out, []metricRow{
		{"Key", key},
		{"Source", source},
		{"Dispatch (min)", cfg.Dispatch},
		{"Assignment (min)", cfg.Assignment},
		{"Arrival (min)", cfg.Arrival},
		{"Completion (min)", cfg.Completion},
	})
}

func printRunResult(out io.Writer, res service.RunResult) error {
	return printMetrics(out, []metricRow{
		{"Claimed", res.Claimed},
		{"Completed", res.Completed},
		{"Failed", res.Failed},
		{"Skipped", res.Skipped},
	})
}

func printEnrichmentResult(out io.Writer, res *model.EnrichmentResult) error {
	if res == nil {
		return nil
	}
	rows := []metricRow{
		{"Target", res.TargetID},
		{"Status", res.Status},
		{"Email Found", res.EmailFound},
	}
	if res.Email != "" {
		rows = append(rows, metricRow{"Email", res.Email}, metricRow{"Verified", res.Verified})
	}
	if res.ColdLeadID != "" {
		rows = append(rows, metricRow{"Cold Lead", res.ColdLeadID}, metricRow{"Campaign", res.CampaignID})
	}
	if res.Error != "" {
		rows = append(rows, metricRow{"Error", res.Error})
	}
	return printMetrics(out, rows)
}

func printLeadStats(out io.Writer, stats *model.LeadStats) error {
	if stats == nil {
		return nil
	}
	return printMetrics(out, []metricRow{
		{"Total", stats.Total},
		{"Pending", stats.Pending},
		{"Enriched", stats.Enriched},
		{"Not Found", stats.NotFound},
		{"Failed", stats.Failed},
		{"Verified", stats.Verified},
	})
}

func printMetrics(out io.Writer, rows []metricRow) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Metric\tValue"); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, row := range rows {
		if err := writef(w, "%s\t%v\n", row.name, row.value); err != nil {
			return fmt.Errorf("write %s: %w", strings.ToLower(row.name), err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush summary: %w", err)
	}
	return nil
}
