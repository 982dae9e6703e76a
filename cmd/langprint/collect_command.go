package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/langprint/internal/db"
	dombatch "github.com/kailas-cloud/langprint/internal/domain/batch"
	"github.com/kailas-cloud/langprint/internal/export"
	"github.com/kailas-cloud/langprint/internal/metrics"
	"github.com/kailas-cloud/langprint/internal/transport/fetch"
	"github.com/kailas-cloud/langprint/internal/transport/markup"
	"github.com/kailas-cloud/langprint/internal/usecase/collect"
)

type collectOptions struct {
	out     string
	format  string
	store   bool
	policy  string
	workers int
}

func newCollectCommand(ctx *commandContext) *cobra.Command {
	var opts collectOptions
	cmd := &cobra.Command{
		Use:   "collect [seed-url]",
		Short: "Profile a page and all of its translations",
		Long: "Fetch the seed page and every page linked from its language list, build one\n" +
			"profile per page, and write the resulting table. The seed defaults to collect.seed_url.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd, ctx, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the table to this file")
	cmd.Flags().StringVar(&opts.format, "format", string(export.JS), "Table format: json, js, yaml")
	cmd.Flags().BoolVar(&opts.store, "store", false, "Also save every profile to the database")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "Failure policy: skip or abort (default from config)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent fetches (default from config)")
	return cmd
}

func runCollect(cmd *cobra.Command, cc *commandContext, args []string, opts collectOptions) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	logger := cc.ensureLogger()
	defer func() { _ = logger.Sync() }()

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	policyName := cfg.Collect.Policy
	if opts.policy != "" {
		policyName = opts.policy
	}
	policy, err := collect.ParsePolicy(policyName)
	if err != nil {
		return err
	}
	workers := cfg.Collect.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}
	seed := cfg.Collect.SeedURL
	if len(args) == 1 {
		seed = args[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store db.Store
	if opts.store {
		store, err = cc.openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
	}
	profiles, err := cc.profileService(store)
	if err != nil {
		return err
	}

	metrics.RegisterProfileMetrics()
	metrics.RegisterCollectMetrics()

	fetcher := fetch.New(fetch.Config{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSec) * time.Second,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	}, fetch.WithLogger(logger))

	var storer collect.Storer
	if store != nil {
		storer = profiles
	}
	collector := collect.New(fetcher, markup.New(cfg.Collect.LinksElementID), profiles, storer,
		collect.Config{Workers: workers, Policy: policy}, logger)

	report, runErr := collector.Run(ctx, seed)
	if len(report.Results) > 0 {
		if err := writeRows(cmd.OutOrStdout(), []string{"#", "Source", "Status", "Tag", "Detail"},
			resultRows(report.Results),
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}); err != nil {
			return err
		}
		s := report.Summary()
		fmt.Fprintf(cmd.ErrOrStderr(), "run %s: %d ok, %d failed, %d skipped\n", report.RunID, s.OK, s.Failed, s.Skipped)
	}
	if runErr != nil {
		return runErr
	}

	table := report.Table()
	if len(table) == 0 {
		return errors.New("no profiles collected")
	}
	if opts.out == "" {
		return nil
	}
	if err := writeTableFile(opts.out, table, format); err != nil {
		return err
	}
	logger.Info("table written",
		zap.String("path", opts.out),
		zap.String("format", string(format)),
		zap.Int("languages", len(table)),
	)
	return nil
}

func resultRows(results []dombatch.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		var tag, detail string
		switch r.Status() {
		case dombatch.StatusOK:
			lp := r.Profile()
			tag = lp.Tag().String()
			detail = strconv.Itoa(lp.SampleLength()) + " chars"
		default:
			if r.Err() != nil {
				detail = r.Err().Error()
			}
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), r.Source(), string(r.Status()), tag, detail})
	}
	return rows
}
