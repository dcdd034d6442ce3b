// Command rosterclean cleans a basketball roster: it deduplicates the player
// table, fills missing Height and Weight with column means, writes a
// players-per-position report and joins players with team payroll data.
//
// Usage:
//
//	rosterclean local
//	rosterclean s3 --bucket bucket_name
//	rosterclean run --config configs/pipeline.yaml
//	rosterclean validate --config configs/pipeline.yaml
//	rosterclean probe --table players players.csv
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rosterclean/internal/config"
	"rosterclean/internal/logging"
	"rosterclean/internal/pipeline"
	"rosterclean/internal/probe"

	// register all backends with the storage factory.
	_ "rosterclean/internal/storage/all"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	envFile        string
	logFile        string
	verbose        bool
	metricsBackend string
	pushgatewayURL string
	datadogAddr    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rosterclean: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "rosterclean",
		Short:         "Clean a basketball roster and join it with team payroll data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadEnvFile(g.envFile)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.envFile, "env-file", ".env", "KEY=VALUE file loaded into the environment if present")
	pf.StringVar(&g.logFile, "log-file", "", "log file to append to (overrides logging.file)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "debug logging, also written to stderr")
	pf.StringVar(&g.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides env METRICS_BACKEND)")
	pf.StringVar(&g.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	pf.StringVar(&g.datadogAddr, "datadog-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")

	root.AddCommand(localCmd(g))
	root.AddCommand(s3Cmd(g))
	root.AddCommand(runCmd(g))
	root.AddCommand(validateCmd())
	root.AddCommand(probeCmd())
	return root
}

// --------------------------------------------------------------------------
// fixed runs
// --------------------------------------------------------------------------

func localCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "local",
		Short: "Clean players.csv and teams.csv from the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), config.LocalDefaults(), g, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func s3Cmd(g *globalFlags) *cobra.Command {
	var bucket string
	cmd := &cobra.Command{
		Use:   "s3",
		Short: "Clean players.csv and teams.csv from an S3 bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), config.S3Defaults(bucket), g, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", config.DefaultBucket, "bucket holding the inputs and receiving final_output.csv")
	return cmd
}

// --------------------------------------------------------------------------
// configured runs
// --------------------------------------------------------------------------

func runCmd(g *globalFlags) *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline described by a JSON or YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return execute(cmd.Context(), p, g, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "pipeline file (.json, .yaml or .yml)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func validateCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a pipeline file and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := checkPipeline(p, cmd.ErrOrStderr()); err != nil {
				return fmt.Errorf("%s: %w", cfgPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid: %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "pipeline file (.json, .yaml or .yml)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func probeCmd() *cobra.Command {
	var (
		table  string
		bucket string
		opt    probe.Options
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "probe PATH",
		Short: "Sample a players or teams table and report how it would load",
		Long: "Probe reads the head of a local file, or of an S3 object when --bucket is set,\n" +
			"detects the delimiter, infers column types and lists anything that would fail the load.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := config.File(args[0])
			if bucket != "" {
				loc = config.Object(bucket, args[0])
			}
			src, err := newEndpoints(cmd.Context(), config.LoadS3FromEnv()).Source(loc)
			if err != nil {
				return err
			}
			opt.Table = probe.Table(table)
			res, err := probe.Probe(cmd.Context(), src, opt)
			if err != nil {
				return err
			}
			if asJSON {
				err = res.WriteJSON(cmd.OutOrStdout())
			} else {
				err = res.WriteText(cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}
			if !res.OK() {
				return fmt.Errorf("%s: %d issue(s)", loc, len(res.Issues))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&table, "table", string(probe.Players), "table layout: players or teams")
	f.StringVar(&bucket, "bucket", "", "read PATH as a key in this S3 bucket")
	f.IntVar(&opt.Bytes, "bytes", probe.DefaultBytes, "bytes to sample")
	f.StringVar(&opt.Delimiter, "delimiter", "", `force the delimiter (e.g. ";" or "\t"); detected when empty`)
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// checkPipeline prints every issue and fails when any is an error.
func checkPipeline(p config.Pipeline, stderr io.Writer) error {
	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("configuration is invalid")
	}
	return nil
}

// execute applies flag and environment overrides, validates p, and runs it.
func execute(ctx context.Context, p config.Pipeline, g *globalFlags, stdout, stderr io.Writer) error {
	applyOverrides(&p, g)
	if err := checkPipeline(p, stderr); err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		File:   p.Logging.File,
		Level:  p.Logging.Level,
		Stderr: g.verbose,
		Job:    p.Job,
	})
	if err != nil {
		return err
	}
	defer log.Close()

	flush := setupMetrics(p.Metrics, p.Job, log)
	defer flush()

	r := &pipeline.Runner{
		Pipeline:  p,
		Endpoints: newEndpoints(ctx, config.LoadS3FromEnv()),
		Log:       log,
		RunID:     log.RunID(),
	}
	sum, err := r.Run(ctx)
	if err != nil {
		return err
	}
	printSummary(stdout, p, sum)
	return nil
}

// applyOverrides layers flags over environment over the pipeline file.
func applyOverrides(p *config.Pipeline, g *globalFlags) {
	if g.logFile != "" {
		p.Logging.File = g.logFile
	}
	if g.verbose {
		p.Logging.Level = "debug"
	}
	p.Metrics.Backend = pick(g.metricsBackend, os.Getenv("METRICS_BACKEND"), p.Metrics.Backend)
	p.Metrics.PushgatewayURL = pick(g.pushgatewayURL, os.Getenv("PUSHGATEWAY_URL"), p.Metrics.PushgatewayURL)
	p.Metrics.DatadogAddr = pick(g.datadogAddr, os.Getenv("DD_AGENT_ADDR"), p.Metrics.DatadogAddr)
}

// pick returns the first non-empty value.
func pick(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func printSummary(w io.Writer, p config.Pipeline, s pipeline.Summary) {
	fmt.Fprintf(w, "players: read=%d duplicates=%d kept=%d\n", s.PlayersRead, s.DuplicatesDropped, s.Players)
	for _, im := range s.Imputed {
		if im.Skipped {
			fmt.Fprintf(w, "impute %s: no values, left missing\n", im.Column)
			continue
		}
		fmt.Fprintf(w, "impute %s: filled=%d mean=%.4f\n", im.Column, im.Filled, im.Mean)
	}
	fmt.Fprintf(w, "report: %s (%d groups)\n", p.Report, len(s.Positions))
	fmt.Fprintf(w, "output: %s (teams=%d rows=%d)\n", p.Output, s.TeamsRead, s.Joined)
	if p.Storage.Enabled() {
		fmt.Fprintf(w, "archive: %s %s (%d rows)\n", p.Storage.Kind, p.Storage.DB.Table, s.Archived)
	}
}
